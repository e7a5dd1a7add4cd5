package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/sarchlab/gomacro/instr"
)

// Call is one recorded dispatcher call.
type Call struct {
	Method string
	Args   []interface{}
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Method + "(" + strings.Join(args, ", ") + ")"
}

// MatchResult is a scripted answer to MatchTemplate.
type MatchResult struct {
	Pos   instr.Position
	Found bool
	Err   error
}

// Recorder is a dispatcher that remembers every call instead of performing
// it. Template matches are answered from Matches in order, and miss once the
// list is used up.
type Recorder struct {
	Calls   []Call
	Matches []MatchResult

	// CancelAfter makes IsCancelled report true once that many calls have
	// been recorded. Zero disables it.
	CancelAfter int

	// Fail makes the named method return the error.
	Fail map[string]error
}

func (r *Recorder) record(method string, args ...interface{}) error {
	r.Calls = append(r.Calls, Call{Method: method, Args: args})
	return r.Fail[method]
}

func (r *Recorder) MoveMouse(_ context.Context, x, y int32) error {
	return r.record("MoveMouse", x, y)
}

func (r *Recorder) MouseButton(_ context.Context, b instr.Button, a ButtonAction) error {
	return r.record("MouseButton", b, a)
}

func (r *Recorder) KeyAction(_ context.Context, key string, a KeyAction) error {
	return r.record("KeyAction", key, a)
}

func (r *Recorder) TypeText(_ context.Context, text string) error {
	return r.record("TypeText", text)
}

func (r *Recorder) Sleep(ctx context.Context, ms int64) error {
	if err := r.record("Sleep", ms); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Recorder) MatchTemplate(_ context.Context, path string, threshold int) (instr.Position, bool, error) {
	if err := r.record("MatchTemplate", path, threshold); err != nil {
		return instr.Position{}, false, err
	}

	if len(r.Matches) == 0 {
		return instr.Position{}, false, nil
	}

	m := r.Matches[0]
	r.Matches = r.Matches[1:]

	return m.Pos, m.Found, m.Err
}

func (r *Recorder) IsCancelled() bool {
	return r.CancelAfter > 0 && len(r.Calls) >= r.CancelAfter
}

// Methods lists the names of the recorded calls.
func (r *Recorder) Methods() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Method
	}
	return out
}
