package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/gomacro/instr"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: ExitUsage, err: err}
}

func usageErrorf(format string, args ...interface{}) error {
	return usageError(fmt.Errorf(format, args...))
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	var ee *exitError

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, instr.ErrCancelled):
		return ExitCancelled
	case errors.As(err, &ee):
		return ee.code
	default:
		return ExitFailure
	}
}

// reportError describes err on w, naming the error kind and, for runtime
// errors, the source line.
func reportError(w io.Writer, err error) {
	var (
		execErr *instr.ExecError
		ee      *exitError
	)

	switch {
	case errors.Is(err, instr.ErrCancelled):
		fmt.Fprintln(w, warningStyle.Render("Macro execution cancelled"))
	case errors.As(err, &execErr):
		fmt.Fprintf(w, "%s %s at line %d (%s): %v\n",
			errorStyle.Render("error:"), instr.KindOf(err), execErr.Line, execErr.Text, execErr.Err)
	case errors.As(err, &ee) && ee.code == ExitUsage:
		fmt.Fprintf(w, "%s %v\n", errorStyle.Render("usage error:"), err)
	default:
		kind := instr.KindOf(err)
		if kind == "Error" {
			fmt.Fprintf(w, "%s %v\n", errorStyle.Render("error:"), err)
			return
		}
		fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("error:"), kind, err)
	}
}
