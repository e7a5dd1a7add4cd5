// Package instr defines the data model of the macro language: values,
// operands, the closed set of instructions and the errors raised while
// parsing or running them.
package instr

import (
	"fmt"
	"strconv"
)

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		panic(fmt.Sprintf("invalid button %d", int(b)))
	}
}

// Op is the operation of a single instruction. The implementations in this
// file are the complete instruction set.
type Op interface {
	// Name returns the instruction kind as written in macro source, for
	// example "var set" or "mouse move".
	Name() string
	String() string

	sealed()
}

// VarSet assigns a literal to a variable.
type VarSet struct {
	Var   string
	Value Value
}

// VarIncrease adds Amount to an Integer variable.
type VarIncrease struct {
	Var    string
	Amount int64
}

// MouseMove moves the pointer to a literal position or to the Position stored
// in a variable.
type MouseMove struct {
	Target Operand
}

type MouseClick struct {
	Button Button
}

type MouseButtonDown struct {
	Button Button
}

type MouseButtonUp struct {
	Button Button
}

type KeyDown struct {
	Key string
}

type KeyUp struct {
	Key string
}

type KeyPress struct {
	Key string
}

// KeyType types a string of text.
type KeyType struct {
	Text string
}

// Checkpoint marks a jump target. It does nothing when executed.
type Checkpoint struct {
	Label string
}

// Goto jumps to the instruction following the named checkpoint.
type Goto struct {
	Label string
}

// If skips the next instruction when Cond evaluates to false.
type If struct {
	Cond Condition
}

// CvMatch looks for an image on screen. On a match the center is written to
// Var and the status variable is set to 0, otherwise the status variable is
// set to 1.
type CvMatch struct {
	Path      string
	Threshold int
	Var       string
}

// Sleep pauses for Millis milliseconds.
type Sleep struct {
	Millis int64
}

func (VarSet) Name() string          { return "var set" }
func (VarIncrease) Name() string     { return "var increase" }
func (MouseMove) Name() string       { return "mouse move" }
func (MouseClick) Name() string      { return "mouse click" }
func (MouseButtonDown) Name() string { return "mouse down" }
func (MouseButtonUp) Name() string   { return "mouse up" }
func (KeyDown) Name() string         { return "key down" }
func (KeyUp) Name() string           { return "key up" }
func (KeyPress) Name() string        { return "key press" }
func (KeyType) Name() string         { return "key type" }
func (Checkpoint) Name() string      { return "checkpoint" }
func (Goto) Name() string            { return "goto" }
func (If) Name() string              { return "if" }
func (CvMatch) Name() string         { return "cv match" }
func (Sleep) Name() string           { return "sleep" }

func (o VarSet) String() string          { return fmt.Sprintf("var set %s %s", o.Var, o.Value) }
func (o VarIncrease) String() string     { return fmt.Sprintf("var increase %s %d", o.Var, o.Amount) }
func (o MouseMove) String() string       { return "mouse move " + o.Target.String() }
func (o MouseClick) String() string      { return "mouse " + o.Button.String() + " click" }
func (o MouseButtonDown) String() string { return "mouse " + o.Button.String() + " down" }
func (o MouseButtonUp) String() string   { return "mouse " + o.Button.String() + " up" }
func (o KeyDown) String() string         { return "key down " + o.Key }
func (o KeyUp) String() string           { return "key up " + o.Key }
func (o KeyPress) String() string        { return "key press " + o.Key }
func (o KeyType) String() string         { return "key type " + strconv.Quote(o.Text) }
func (o Checkpoint) String() string      { return "checkpoint " + strconv.Quote(o.Label) }
func (o Goto) String() string            { return "goto " + strconv.Quote(o.Label) }
func (o If) String() string              { return "if " + o.Cond.String() }
func (o CvMatch) String() string {
	return fmt.Sprintf("cv match %s %d%% %s", o.Path, o.Threshold, o.Var)
}
func (o Sleep) String() string { return fmt.Sprintf("sleep %d", o.Millis) }

func (VarSet) sealed()          {}
func (VarIncrease) sealed()     {}
func (MouseMove) sealed()       {}
func (MouseClick) sealed()      {}
func (MouseButtonDown) sealed() {}
func (MouseButtonUp) sealed()   {}
func (KeyDown) sealed()         {}
func (KeyUp) sealed()           {}
func (KeyPress) sealed()        {}
func (KeyType) sealed()         {}
func (Checkpoint) sealed()      {}
func (Goto) sealed()            {}
func (If) sealed()              {}
func (CvMatch) sealed()         {}
func (Sleep) sealed()           {}

// Inst is one parsed instruction together with where it came from.
type Inst struct {
	// Line is the 1-based line number in the source.
	Line int
	// Text is the trimmed source text, without trailing comment.
	Text string
	Op   Op
}

func (i Inst) String() string {
	return fmt.Sprintf("%d: %s", i.Line, i.Text)
}
