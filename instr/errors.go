package instr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a run is stopped from outside, by an
// interrupt or by the automation failsafe.
var ErrCancelled = errors.New("macro execution cancelled")

// ParseError reports a line that could not be turned into an instruction.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidLiteral reports text that does not parse as the expected literal.
type InvalidLiteral struct {
	Text     string
	Expected string
}

func (e *InvalidLiteral) Error() string {
	return fmt.Sprintf("invalid %s literal %q", e.Expected, e.Text)
}

// InvalidCondition reports a malformed `if` condition.
type InvalidCondition struct {
	Text   string
	Reason string
}

func (e *InvalidCondition) Error() string {
	return fmt.Sprintf("invalid condition %q: %s", e.Text, e.Reason)
}

// UndefinedVariable reports a read of a variable that was never set.
type UndefinedVariable struct {
	Name string
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable %s", e.Name)
}

// TypeMismatch reports a variable holding the wrong kind of value.
type TypeMismatch struct {
	Name     string
	Expected Kind
	Actual   Kind
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("variable %s holds %s, expected %s", e.Name, e.Actual, e.Expected)
}

// UndefinedCheckpoint reports a goto whose target does not exist.
type UndefinedCheckpoint struct {
	Name string
}

func (e *UndefinedCheckpoint) Error() string {
	return fmt.Sprintf("checkpoint %q not found", e.Name)
}

// ActionError wraps a failure of the action dispatcher.
type ActionError struct {
	Op  string
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// ExecError locates a runtime error in the program.
type ExecError struct {
	Index int
	Line  int
	Op    string
	Text  string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("line %d (instruction %d, %s): %v", e.Line, e.Index, e.Op, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// KindOf names the kind of a macro error, for reporting. Wrappers such as
// ExecError are looked through.
func KindOf(err error) string {
	var (
		parseErr     *ParseError
		undefVar     *UndefinedVariable
		mismatch     *TypeMismatch
		undefCkpt    *UndefinedCheckpoint
		badCond      *InvalidCondition
		badLiteral   *InvalidLiteral
		actionFailed *ActionError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "Cancelled"
	case errors.As(err, &parseErr):
		return "ParseError"
	case errors.As(err, &undefVar):
		return "UndefinedVariable"
	case errors.As(err, &mismatch):
		return "TypeMismatch"
	case errors.As(err, &undefCkpt):
		return "UndefinedCheckpoint"
	case errors.As(err, &badCond):
		return "InvalidCondition"
	case errors.As(err, &badLiteral):
		return "InvalidLiteral"
	case errors.As(err, &actionFailed):
		return "ActionError"
	default:
		return "Error"
	}
}
