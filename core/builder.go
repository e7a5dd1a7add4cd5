package core

import (
	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/vars"
)

// Builder can create new engines.
type Builder struct {
	dispatcher api.Dispatcher
	simulator  api.Dispatcher
	mode       Mode
}

// NewBuilder returns a builder for normal-mode engines that simulate with a
// NopDispatcher.
func NewBuilder() Builder {
	return Builder{
		mode:      ModeNormal,
		simulator: api.NopDispatcher{},
	}
}

// WithDispatcher sets the dispatcher that performs actions in normal mode.
func (b Builder) WithDispatcher(d api.Dispatcher) Builder {
	b.dispatcher = d
	return b
}

// WithSimulator sets the dispatcher that stands in for the real one in
// simulate mode.
func (b Builder) WithSimulator(d api.Dispatcher) Builder {
	b.simulator = d
	return b
}

// WithMode sets the run mode.
func (b Builder) WithMode(mode Mode) Builder {
	b.mode = mode
	return b
}

// Build creates an engine for the program.
func (b Builder) Build(prog *program.Program) *Engine {
	e := &Engine{
		mode: b.mode,
		state: coreState{
			Code: prog,
			Vars: vars.NewStore(),
		},
	}

	switch b.mode {
	case ModeNormal:
		if b.dispatcher == nil {
			panic("a dispatcher is required in normal mode")
		}
		e.dispatcher = b.dispatcher
	case ModeSimulate:
		if b.simulator == nil {
			panic("a simulator is required in simulate mode")
		}
		e.dispatcher = b.simulator
	case ModeDryRun:
	default:
		panic("invalid mode")
	}

	e.emu = instEmulator{dispatcher: e.dispatcher}

	return e
}
