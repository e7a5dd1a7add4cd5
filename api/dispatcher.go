// Package api defines the boundary between the macro engine and the
// automation layer that actually moves the mouse, presses keys and looks at
// the screen.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/sarchlab/gomacro/instr"
)

// ButtonAction is what happens to a mouse button.
type ButtonAction int

const (
	ButtonDown ButtonAction = iota
	ButtonUp
	ButtonClick
)

func (a ButtonAction) String() string {
	switch a {
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case ButtonClick:
		return "click"
	default:
		panic(fmt.Sprintf("invalid button action %d", int(a)))
	}
}

// KeyAction is what happens to a key.
type KeyAction int

const (
	KeyDown KeyAction = iota
	KeyUp
	KeyPress
)

func (a KeyAction) String() string {
	switch a {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyPress:
		return "press"
	default:
		panic(fmt.Sprintf("invalid key action %d", int(a)))
	}
}

// Dispatcher performs the actions requested by a macro. All methods block
// until the action is complete.
type Dispatcher interface {
	// MoveMouse moves the pointer to absolute screen coordinates.
	MoveMouse(ctx context.Context, x, y int32) error

	// MouseButton presses, releases or clicks a mouse button at the current
	// pointer position.
	MouseButton(ctx context.Context, button instr.Button, action ButtonAction) error

	// KeyAction presses, releases or taps a key given by name.
	KeyAction(ctx context.Context, key string, action KeyAction) error

	// TypeText types a string.
	TypeText(ctx context.Context, text string) error

	// Sleep blocks for ms milliseconds or until ctx is done.
	Sleep(ctx context.Context, ms int64) error

	// MatchTemplate looks for the image at path on screen. It returns the
	// center of the best match when the similarity reaches thresholdPercent.
	// Not finding the image is not an error; failing to read or decode it is.
	MatchTemplate(ctx context.Context, path string, thresholdPercent int) (instr.Position, bool, error)

	// IsCancelled reports whether the automation layer wants the run to
	// stop, for example because a failsafe was triggered.
	IsCancelled() bool
}

// SleepContext waits for ms milliseconds unless ctx is done first.
func SleepContext(ctx context.Context, ms int64) error {
	if ms <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
