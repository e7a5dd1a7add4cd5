// Package core implements the macro execution engine.
//
// The engine steps a program counter over the instructions of a
// program.Program. Every step executes exactly one instruction, or skips it
// when the instruction before it was an `if` whose condition was false.
// Jumps are the only instructions that move the program counter anywhere but
// forward by one.
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/vars"
)

// Mode selects how much of a macro actually happens.
type Mode int

const (
	// ModeNormal dispatches every action.
	ModeNormal Mode = iota
	// ModeDryRun reports the instructions without executing them.
	ModeDryRun
	// ModeSimulate runs the control flow and the variables but sends
	// actions to a simulator instead of the real dispatcher.
	ModeSimulate
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDryRun:
		return "dry-run"
	case ModeSimulate:
		return "simulate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal":
		return ModeNormal, nil
	case "dry-run", "dryrun", "dry_run":
		return ModeDryRun, nil
	case "simulate":
		return ModeSimulate, nil
	default:
		return ModeNormal, fmt.Errorf("unknown mode %q", s)
	}
}

type coreState struct {
	PC   int
	Code *program.Program
	Vars *vars.Store

	// SkipNext is set by an if whose condition was false.
	SkipNext bool

	Executed int
	Skipped  int
}

// Engine runs one program once.
type Engine struct {
	mode       Mode
	dispatcher api.Dispatcher

	state  coreState
	emu    instEmulator
	halted error
}

// Mode returns the run mode of the engine.
func (e *Engine) Mode() Mode {
	return e.mode
}

// PC returns the index of the next instruction.
func (e *Engine) PC() int {
	return e.state.PC
}

// Vars returns the variable store.
func (e *Engine) Vars() *vars.Store {
	return e.state.Vars
}

// Executed returns how many instructions have run.
func (e *Engine) Executed() int {
	return e.state.Executed
}

// Skipped returns how many instructions were skipped by false conditions.
func (e *Engine) Skipped() int {
	return e.state.Skipped
}

// Done reports whether the program counter has run off the end of the
// program.
func (e *Engine) Done() bool {
	return e.state.PC >= e.state.Code.Len()
}

// Run executes the program to completion. It returns nil when the end of the
// program is reached, instr.ErrCancelled when ctx is done or the dispatcher
// asks to stop, and the first runtime error otherwise.
func (e *Engine) Run(ctx context.Context) error {
	for {
		done, err := e.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step executes the instruction at the program counter. It reports done once
// there is nothing left to execute.
func (e *Engine) Step(ctx context.Context) (done bool, err error) {
	if e.halted != nil {
		return true, e.halted
	}
	if e.Done() {
		return true, nil
	}

	if err := e.checkCancelled(ctx); err != nil {
		e.halted = err
		return true, err
	}

	pc := e.state.PC
	inst := e.state.Code.Insts[pc]

	if e.mode == ModeDryRun {
		slog.Info("instruction",
			"index", pc+1, "line", inst.Line, "kind", inst.Op.Name(), "text", inst.Text)
		e.state.PC++
		return e.Done(), nil
	}

	if e.state.SkipNext {
		e.state.SkipNext = false
		e.state.Skipped++
		e.state.PC++
		slog.Debug("skip", "pc", pc, "line", inst.Line, "inst", inst.Text)
		return e.Done(), nil
	}

	slog.Debug("exec", "pc", pc, "line", inst.Line, "inst", inst.Text)

	if err := e.emu.RunInst(ctx, inst, &e.state); err != nil {
		e.halted = &instr.ExecError{
			Index: pc,
			Line:  inst.Line,
			Op:    inst.Op.Name(),
			Text:  inst.Text,
			Err:   err,
		}
		return true, e.halted
	}
	e.state.Executed++

	return e.Done(), nil
}

func (e *Engine) checkCancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return instr.ErrCancelled
	}
	if e.dispatcher != nil && e.dispatcher.IsCancelled() {
		return instr.ErrCancelled
	}
	return nil
}
