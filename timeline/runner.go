// Package timeline runs macros in simulate mode on a discrete-event engine
// and measures how long they would take on a real desktop.
//
// The runner is a ticking component. Every tick executes one macro step.
// Sleeps and the pause after each input action stall the runner for as many
// ticks as they would last, so the engine time at the end of the run is the
// virtual duration of the macro.
package timeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/core"
	"github.com/sarchlab/gomacro/program"
)

// ErrStepLimit is returned when a run executes more steps than allowed.
var ErrStepLimit = errors.New("step limit reached")

// Runner executes one program on virtual time.
type Runner struct {
	*sim.TickingComponent

	engine sim.Engine
	macro  *core.Engine
	clock  *Clock
	freq   sim.Freq

	ctx      context.Context
	stall    int64
	steps    int
	maxSteps int
	err      error
	finished bool
}

// Builder can create runners.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	pauseMS   int64
	simulator api.Dispatcher
	maxSteps  int
}

// NewBuilder returns a builder for runners ticking once per millisecond.
func NewBuilder() Builder {
	return Builder{
		freq:      1 * sim.KHz,
		simulator: api.NopDispatcher{},
	}
}

// WithEngine sets the event engine. A serial engine is created when none is
// given.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPause sets the pause charged after every input action.
func (b Builder) WithPause(ms int64) Builder {
	b.pauseMS = ms
	return b
}

// WithSimulator sets the dispatcher that answers actions and template
// matches.
func (b Builder) WithSimulator(d api.Dispatcher) Builder {
	b.simulator = d
	return b
}

// WithMaxSteps bounds the number of steps. Zero means no bound.
func (b Builder) WithMaxSteps(n int) Builder {
	b.maxSteps = n
	return b
}

// Build creates a runner for the program.
func (b Builder) Build(name string, prog *program.Program) *Runner {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	r := &Runner{
		engine:   engine,
		clock:    NewClock(b.simulator, b.pauseMS),
		freq:     b.freq,
		maxSteps: b.maxSteps,
	}
	r.macro = core.NewBuilder().
		WithMode(core.ModeSimulate).
		WithSimulator(r.clock).
		Build(prog)
	r.TickingComponent = sim.NewTickingComponent(name, engine, b.freq, r)

	return r
}

// Macro returns the execution engine driven by the runner.
func (r *Runner) Macro() *core.Engine {
	return r.macro
}

// Steps returns the number of steps executed, skipped instructions included.
func (r *Runner) Steps() int {
	return r.steps
}

// Finished reports whether the program ran to its end.
func (r *Runner) Finished() bool {
	return r.finished
}

// SleptMS returns the virtual milliseconds spent sleeping and pausing.
func (r *Runner) SleptMS() int64 {
	return r.clock.TotalMS()
}

// Run simulates the program and returns its virtual duration. The duration
// is also returned when the run fails, covering the steps made until then.
func (r *Runner) Run(ctx context.Context) (time.Duration, error) {
	r.ctx = ctx

	r.TickNow()
	if err := r.engine.Run(); err != nil {
		return r.Duration(), err
	}

	return r.Duration(), r.err
}

// Duration returns the virtual time elapsed so far.
func (r *Runner) Duration() time.Duration {
	return time.Duration(float64(r.engine.CurrentTime()) * float64(time.Second))
}

// Tick executes one step, or waits out a stall.
func (r *Runner) Tick() bool {
	if r.finished || r.err != nil {
		return false
	}

	if r.stall > 0 {
		r.stall--
		return true
	}

	if r.macro.Done() {
		r.finished = true
		return false
	}

	if r.maxSteps > 0 && r.steps >= r.maxSteps {
		r.err = ErrStepLimit
		slog.Warn("StepLimit", "Name", r.Name(), "Steps", r.steps)
		return false
	}

	if _, err := r.macro.Step(r.ctx); err != nil {
		r.err = err
		return false
	}
	r.steps++

	r.stall = r.ticks(r.clock.Take())
	core.Trace("TimelineStep", "Name", r.Name(), "PC", r.macro.PC(), "Stall", r.stall)

	return true
}

func (r *Runner) ticks(ms int64) int64 {
	return int64(float64(ms) * float64(r.freq) / 1000)
}
