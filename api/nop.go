package api

import (
	"context"

	"github.com/sarchlab/gomacro/instr"
)

// NopDispatcher accepts every action without doing anything. It stands in
// for the real automation layer in simulate mode.
type NopDispatcher struct {
	// Match is reported as the location of every template. When nil every
	// template match misses.
	Match *instr.Position
}

func (NopDispatcher) MoveMouse(context.Context, int32, int32) error { return nil }

func (NopDispatcher) MouseButton(context.Context, instr.Button, ButtonAction) error { return nil }

func (NopDispatcher) KeyAction(context.Context, string, KeyAction) error { return nil }

func (NopDispatcher) TypeText(context.Context, string) error { return nil }

// Sleep returns immediately. Simulated runs do not wait.
func (NopDispatcher) Sleep(ctx context.Context, _ int64) error { return ctx.Err() }

func (d NopDispatcher) MatchTemplate(context.Context, string, int) (instr.Position, bool, error) {
	if d.Match == nil {
		return instr.Position{}, false, nil
	}
	return *d.Match, true, nil
}

func (NopDispatcher) IsCancelled() bool { return false }
