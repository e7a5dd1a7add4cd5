// Package vars implements the variable store of a macro run.
package vars

import (
	"sort"

	"github.com/sarchlab/gomacro/instr"
)

// Status is the value of the reserved status variable.
type Status int64

const (
	StatusOK     Status = 0
	StatusFailed Status = 1
)

// Store maps variable names to values. It holds the reserved status variable
// `$`, which starts at 0.
type Store struct {
	values map[string]instr.Value
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{
		values: make(map[string]instr.Value),
	}
	s.SetStatus(StatusOK)

	return s
}

// Get returns the value of a variable.
func (s *Store) Get(name string) (instr.Value, error) {
	v, ok := s.values[name]
	if !ok {
		return nil, &instr.UndefinedVariable{Name: name}
	}

	return v, nil
}

// Set binds a value to a variable, replacing any previous value.
func (s *Store) Set(name string, value instr.Value) {
	s.values[name] = value
}

// Increase adds amount to an Integer variable.
func (s *Store) Increase(name string, amount int64) error {
	v, err := s.Get(name)
	if err != nil {
		return err
	}

	switch v := v.(type) {
	case instr.Integer:
		s.values[name] = v + instr.Integer(amount)
		return nil
	case instr.Position:
		return &instr.TypeMismatch{
			Name:     name,
			Expected: instr.KindInteger,
			Actual:   instr.KindPosition,
		}
	default:
		panic("unknown value type")
	}
}

// SetStatus writes the status variable.
func (s *Store) SetStatus(code Status) {
	s.values[instr.StatusVar] = instr.Integer(code)
}

// Status reads the status variable.
func (s *Store) Status() Status {
	v, ok := s.values[instr.StatusVar].(instr.Integer)
	if !ok {
		panic("status variable does not hold an integer")
	}

	return Status(v)
}

// Names returns the defined variable names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Snapshot returns a copy of all bindings.
func (s *Store) Snapshot() map[string]instr.Value {
	out := make(map[string]instr.Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}

	return out
}
