// Package xdo performs macro actions on an X11 desktop.
//
// Mouse and keyboard actions are sent with the xdotool command. Template
// matching captures the screen with an external command that writes an image
// to its standard output and searches it with package vision.
package xdo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/vision"
)

// DefaultScreenCommand captures the root window as PNG with ImageMagick.
var DefaultScreenCommand = []string{"import", "-window", "root", "png:-"}

// Dispatcher implements api.Dispatcher with xdotool.
type Dispatcher struct {
	runner    CommandRunner
	xdotool   string
	screenCmd []string
	failsafe  bool
	loadImage func(path string) (image.Image, error)
}

// Builder can create dispatchers.
type Builder struct {
	runner    CommandRunner
	xdotool   string
	screenCmd []string
	failsafe  bool
}

// NewBuilder returns a builder with the failsafe enabled.
func NewBuilder() Builder {
	return Builder{
		runner:    ExecRunner{},
		xdotool:   "xdotool",
		screenCmd: DefaultScreenCommand,
		failsafe:  true,
	}
}

// WithRunner replaces the command runner.
func (b Builder) WithRunner(r CommandRunner) Builder {
	b.runner = r
	return b
}

// WithXdotool sets the xdotool executable.
func (b Builder) WithXdotool(path string) Builder {
	b.xdotool = path
	return b
}

// WithScreenCommand sets the screen capture command.
func (b Builder) WithScreenCommand(cmd []string) Builder {
	b.screenCmd = cmd
	return b
}

// WithFailsafe sets whether moving the pointer to (0,0) cancels the run.
func (b Builder) WithFailsafe(on bool) Builder {
	b.failsafe = on
	return b
}

// Build creates the dispatcher.
func (b Builder) Build() *Dispatcher {
	if len(b.screenCmd) == 0 {
		panic("screen command must not be empty")
	}

	return &Dispatcher{
		runner:    b.runner,
		xdotool:   b.xdotool,
		screenCmd: b.screenCmd,
		failsafe:  b.failsafe,
		loadImage: vision.LoadImage,
	}
}

func (d *Dispatcher) xdo(ctx context.Context, args ...string) error {
	_, err := d.runner.Run(ctx, d.xdotool, args...)
	return err
}

func (d *Dispatcher) MoveMouse(ctx context.Context, x, y int32) error {
	return d.xdo(ctx, "mousemove", strconv.Itoa(int(x)), strconv.Itoa(int(y)))
}

func buttonNumber(b instr.Button) string {
	switch b {
	case instr.ButtonLeft:
		return "1"
	case instr.ButtonRight:
		return "3"
	default:
		panic("unknown button")
	}
}

func (d *Dispatcher) MouseButton(ctx context.Context, b instr.Button, a api.ButtonAction) error {
	var cmd string

	switch a {
	case api.ButtonClick:
		cmd = "click"
	case api.ButtonDown:
		cmd = "mousedown"
	case api.ButtonUp:
		cmd = "mouseup"
	default:
		panic("unknown button action")
	}

	return d.xdo(ctx, cmd, buttonNumber(b))
}

func (d *Dispatcher) KeyAction(ctx context.Context, key string, a api.KeyAction) error {
	var cmd string

	switch a {
	case api.KeyDown:
		cmd = "keydown"
	case api.KeyUp:
		cmd = "keyup"
	case api.KeyPress:
		cmd = "key"
	default:
		panic("unknown key action")
	}

	return d.xdo(ctx, cmd, KeySym(key))
}

func (d *Dispatcher) TypeText(ctx context.Context, text string) error {
	return d.xdo(ctx, "type", "--", text)
}

func (d *Dispatcher) Sleep(ctx context.Context, ms int64) error {
	return api.SleepContext(ctx, ms)
}

// MatchTemplate captures the screen and searches it for the image at path.
func (d *Dispatcher) MatchTemplate(
	ctx context.Context,
	path string,
	thresholdPercent int,
) (instr.Position, bool, error) {
	tmpl, err := d.loadImage(path)
	if err != nil {
		return instr.Position{}, false, err
	}

	out, err := d.runner.Run(ctx, d.screenCmd[0], d.screenCmd[1:]...)
	if err != nil {
		return instr.Position{}, false, fmt.Errorf("capture screen: %w", err)
	}

	screen, err := vision.Decode(bytes.NewReader(out))
	if err != nil {
		return instr.Position{}, false, fmt.Errorf("capture screen: %w", err)
	}

	center, score, ok := vision.Match(screen, tmpl, thresholdPercent)
	slog.Debug("TemplateMatch",
		"Path", path, "Threshold", thresholdPercent,
		"Score", score, "Found", ok, "X", center.X, "Y", center.Y)

	if !ok {
		return instr.Position{}, false, nil
	}

	return instr.Position{X: int32(center.X), Y: int32(center.Y)}, true, nil
}

// IsCancelled reports whether the failsafe is enabled and the pointer is in
// the top-left corner of the screen.
func (d *Dispatcher) IsCancelled() bool {
	if !d.failsafe {
		return false
	}

	x, y, err := d.PointerLocation(context.Background())
	if err != nil {
		slog.Warn("FailsafeCheck", "Error", err)
		return false
	}

	if x == 0 && y == 0 {
		slog.Warn("FailsafeTriggered")
		return true
	}

	return false
}

// PointerLocation asks xdotool where the pointer is.
func (d *Dispatcher) PointerLocation(ctx context.Context) (x, y int, err error) {
	out, err := d.runner.Run(ctx, d.xdotool, "getmouselocation", "--shell")
	if err != nil {
		return 0, 0, err
	}

	var foundX, foundY bool
	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}

		switch key {
		case "X":
			x, err = strconv.Atoi(value)
			foundX = err == nil
		case "Y":
			y, err = strconv.Atoi(value)
			foundY = err == nil
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parse pointer location: %w", err)
		}
	}

	if !foundX || !foundY {
		return 0, 0, fmt.Errorf("parse pointer location: %q", out)
	}

	return x, y, nil
}
