package timeline

import (
	"context"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/instr"
)

// Clock is a dispatcher that forwards actions to a simulator and accounts
// for the time they would take instead of waiting.
type Clock struct {
	api.Dispatcher

	// PauseMS is charged after every input action, like api.Paced does in
	// real runs.
	PauseMS int64

	pendingMS int64
	totalMS   int64
}

// NewClock wraps a simulator dispatcher.
func NewClock(sim api.Dispatcher, pauseMS int64) *Clock {
	return &Clock{Dispatcher: sim, PauseMS: pauseMS}
}

func (c *Clock) charge(ms int64) {
	c.pendingMS += ms
	c.totalMS += ms
}

func (c *Clock) action(err error) error {
	if err == nil {
		c.charge(c.PauseMS)
	}
	return err
}

func (c *Clock) MoveMouse(ctx context.Context, x, y int32) error {
	return c.action(c.Dispatcher.MoveMouse(ctx, x, y))
}

func (c *Clock) MouseButton(ctx context.Context, b instr.Button, a api.ButtonAction) error {
	return c.action(c.Dispatcher.MouseButton(ctx, b, a))
}

func (c *Clock) KeyAction(ctx context.Context, key string, a api.KeyAction) error {
	return c.action(c.Dispatcher.KeyAction(ctx, key, a))
}

func (c *Clock) TypeText(ctx context.Context, text string) error {
	return c.action(c.Dispatcher.TypeText(ctx, text))
}

// Sleep records the delay without waiting.
func (c *Clock) Sleep(ctx context.Context, ms int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.charge(ms)
	return nil
}

// Take returns the milliseconds charged since the previous call.
func (c *Clock) Take() int64 {
	ms := c.pendingMS
	c.pendingMS = 0
	return ms
}

// TotalMS returns every millisecond charged so far.
func (c *Clock) TotalMS() int64 {
	return c.totalMS
}
