package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/core"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
)

//go:embed login.macro
var loginMacro string

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: core.LevelTrace,
	})))

	prog, err := program.Parse("login.macro", strings.NewReader(loginMacro))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	program.PrintProgram(os.Stdout, prog)

	// The button shows up on the second attempt.
	rec := &api.Recorder{
		Matches: []api.MatchResult{
			{Found: false},
			{Pos: instr.Position{X: 700, Y: 420}, Found: true},
		},
	}

	engine := core.NewBuilder().WithDispatcher(rec).Build(prog)
	if err := engine.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	for _, c := range rec.Calls {
		fmt.Println(c)
	}

	core.PrintState(os.Stdout, engine.Vars())
	fmt.Println(core.Summary(engine))

	atexit.Exit(0)
}
