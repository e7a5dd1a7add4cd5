package instr

import "fmt"

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	KindInteger Kind = iota
	KindPosition
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindPosition:
		return "Position"
	default:
		panic(fmt.Sprintf("invalid value kind %d", int(k)))
	}
}

// Value is the content of a variable. It is either an Integer or a Position.
// The set of implementations is closed; consumers switch on the concrete type.
type Value interface {
	Kind() Kind
	String() string

	sealed()
}

// Integer is a signed 64-bit integer value.
type Integer int64

func (Integer) Kind() Kind { return KindInteger }

func (i Integer) String() string { return fmt.Sprintf("%d", int64(i)) }

func (Integer) sealed() {}

// Position is a screen coordinate.
type Position struct {
	X, Y int32
}

func (Position) Kind() Kind { return KindPosition }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

func (Position) sealed() {}
