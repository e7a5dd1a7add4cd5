package api

import (
	"context"

	"github.com/sarchlab/gomacro/instr"
)

// Paced waits a fixed pause after every mouse and keyboard action of the
// wrapped dispatcher, giving the desktop time to react.
type Paced struct {
	Dispatcher
	PauseMS int64

	// sleep is replaced in tests.
	sleep func(ctx context.Context, ms int64) error
}

// NewPaced wraps d with a pause of pauseMS milliseconds.
func NewPaced(d Dispatcher, pauseMS int64) *Paced {
	return &Paced{
		Dispatcher: d,
		PauseMS:    pauseMS,
		sleep:      SleepContext,
	}
}

func (p *Paced) pause(ctx context.Context, err error) error {
	if err != nil || p.PauseMS <= 0 {
		return err
	}
	return p.sleep(ctx, p.PauseMS)
}

func (p *Paced) MoveMouse(ctx context.Context, x, y int32) error {
	return p.pause(ctx, p.Dispatcher.MoveMouse(ctx, x, y))
}

func (p *Paced) MouseButton(ctx context.Context, b instr.Button, a ButtonAction) error {
	return p.pause(ctx, p.Dispatcher.MouseButton(ctx, b, a))
}

func (p *Paced) KeyAction(ctx context.Context, key string, a KeyAction) error {
	return p.pause(ctx, p.Dispatcher.KeyAction(ctx, key, a))
}

func (p *Paced) TypeText(ctx context.Context, text string) error {
	return p.pause(ctx, p.Dispatcher.TypeText(ctx, text))
}
