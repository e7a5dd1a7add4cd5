// Package program turns macro source into an executable Program.
//
// Every non-blank, non-comment line becomes exactly one instruction. The
// first word of a line selects the instruction family:
//
//	var set $name <int> | (<int>,<int>)
//	var increase $name <int>
//	mouse move <int>,<int> | $name
//	mouse left|right click|down|up
//	key down|up|press <key>
//	key type "<text>"
//	checkpoint "<name>"
//	goto "<name>"
//	if (<lhs> <op> <rhs>)
//	cv match <image> <percent>% $name
//	sleep <ms>
//
// Lines starting with # are comments, and a # outside of a quoted string ends
// the instruction text. Checkpoints are indexed while parsing so a goto may
// refer to a checkpoint defined further down.
package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/gomacro/instr"
)

// Program is an immutable sequence of instructions plus the checkpoint index.
type Program struct {
	// Name identifies the source, usually the file path.
	Name string
	// Insts are the instructions in source order.
	Insts []instr.Inst
	// Checkpoints maps checkpoint names to instruction indices.
	Checkpoints map[string]int
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Insts)
}

// Checkpoint returns the index of a checkpoint instruction.
func (p *Program) Checkpoint(name string) (int, bool) {
	idx, ok := p.Checkpoints[name]
	return idx, ok
}

// LoadFile parses the macro file at path.
func LoadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}
	defer f.Close()

	return Parse(path, f)
}

// ParseString parses macro source held in a string.
func ParseString(src string) (*Program, error) {
	return Parse("<string>", strings.NewReader(src))
}

// Parse reads macro source from r. The name is recorded in the Program.
func Parse(name string, r io.Reader) (*Program, error) {
	return defaultISA.Parse(name, r)
}

// Parse reads macro source using the keywords of the ISA.
func (isa *ISA) Parse(name string, r io.Reader) (*Program, error) {
	prog := &Program{
		Name:        name,
		Checkpoints: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++

		raw := scanner.Text()
		if num == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}

		inst, err := isa.parseLine(num, raw)
		if err != nil {
			return nil, err
		}
		if inst == nil {
			continue
		}

		if err := prog.add(*inst); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("macro: %s: %w", name, err)
	}

	if n := len(prog.Insts); n > 0 {
		if _, ok := prog.Insts[n-1].Op.(instr.If); ok {
			return nil, &instr.ParseError{
				Line:   prog.Insts[n-1].Line,
				Reason: "if must be followed by an instruction",
			}
		}
	}

	return prog, nil
}

func (isa *ISA) parseLine(num int, raw string) (*instr.Inst, error) {
	l, err := newLine(num, raw)
	if err != nil {
		return nil, &instr.ParseError{Line: num, Reason: err.Error()}
	}
	if l == nil {
		return nil, nil
	}

	keyword := l.toks[0].text
	parser, ok := isa.lookup(keyword)
	if !ok || l.toks[0].quoted {
		return nil, &instr.ParseError{
			Line:   num,
			Reason: fmt.Sprintf("unknown command %q", keyword),
		}
	}

	op, err := parser(l)
	if err != nil {
		var pe *instr.ParseError
		if errors.As(err, &pe) {
			pe.Line = num
			return nil, pe
		}
		return nil, &instr.ParseError{Line: num, Reason: "invalid instruction", Err: err}
	}

	return &instr.Inst{Line: num, Text: l.text, Op: op}, nil
}

// add appends an instruction, keeping the checkpoint index and the placement
// rules of if up to date.
func (p *Program) add(inst instr.Inst) error {
	if n := len(p.Insts); n > 0 {
		if _, prevIsIf := p.Insts[n-1].Op.(instr.If); prevIsIf {
			if _, isIf := inst.Op.(instr.If); isIf {
				return &instr.ParseError{
					Line:   inst.Line,
					Reason: fmt.Sprintf("if cannot follow the if on line %d", p.Insts[n-1].Line),
				}
			}
		}
	}

	if ckpt, ok := inst.Op.(instr.Checkpoint); ok {
		if prev, dup := p.Checkpoints[ckpt.Label]; dup {
			return &instr.ParseError{
				Line: inst.Line,
				Reason: fmt.Sprintf("checkpoint %q already defined on line %d",
					ckpt.Label, p.Insts[prev].Line),
			}
		}
		p.Checkpoints[ckpt.Label] = len(p.Insts)
	}

	p.Insts = append(p.Insts, inst)

	return nil
}
