package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/gomacro/vars"
)

// LevelTrace is the log level of per-instruction details such as variable
// updates and condition results.
const LevelTrace slog.Level = slog.LevelDebug - 4

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState writes the variables of a store as a table.
func PrintState(w io.Writer, store *vars.Store) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Variables")
	t.AppendHeader(table.Row{"Name", "Kind", "Value"})

	for _, name := range store.Names() {
		v, _ := store.Get(name)
		t.AppendRow(table.Row{name, v.Kind().String(), v.String()})
	}

	t.Render()
}

// LogState records the engine position and variables at debug level.
func LogState(e *Engine) {
	snapshot := e.Vars().Snapshot()

	values := make([]any, 0, 2*len(snapshot))
	for _, name := range e.Vars().Names() {
		values = append(values, name, snapshot[name].String())
	}

	slog.Debug("StateCheckpoint",
		"PC", e.PC(),
		"Executed", e.Executed(),
		"Skipped", e.Skipped(),
		slog.Group("Vars", values...),
	)
}

// Summary describes the progress of an engine in one line.
func Summary(e *Engine) string {
	return fmt.Sprintf("%d instructions executed, %d skipped, pc=%d",
		e.Executed(), e.Skipped(), e.PC())
}
