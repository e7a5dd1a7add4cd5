// Package cond parses and evaluates the conditions of `if` instructions.
//
// A condition is a single comparison between two integer operands:
//
//	(<lhs> <op> <rhs>)
//
// where each operand is a signed integer literal or a variable reference
// (`$name`, or `$` for the status variable) and op is one of <, >, <=, >=, ==
// or !=. Boolean connectives, calls and arithmetic are rejected.
package cond

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sarchlab/gomacro/instr"
)

var ops = []instr.CmpOp{
	instr.OpLE, instr.OpGE, instr.OpEQ, instr.OpNE, instr.OpLT, instr.OpGT,
}

// Parse parses the text of a condition, including the parentheses.
func Parse(text string) (instr.Condition, error) {
	c := instr.Condition{Text: text}

	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") || len(s) < 2 {
		return c, invalid(text, "condition must be enclosed in parentheses")
	}
	s = s[1 : len(s)-1]

	p := &scanner{src: s, text: text}

	lhs, err := p.operand()
	if err != nil {
		return c, err
	}

	op, err := p.op()
	if err != nil {
		return c, err
	}

	rhs, err := p.operand()
	if err != nil {
		return c, err
	}

	p.skipSpace()
	if p.pos < len(p.src) {
		return c, invalid(text, "unexpected "+strconv.Quote(p.src[p.pos:]))
	}

	c.LHS, c.Op, c.RHS = lhs, op, rhs

	return c, nil
}

// Eval evaluates a parsed condition against the variables in r.
func Eval(c instr.Condition, r instr.Resolver) (bool, error) {
	lhs, err := integer(c.LHS, r)
	if err != nil {
		return false, err
	}

	rhs, err := integer(c.RHS, r)
	if err != nil {
		return false, err
	}

	switch c.Op {
	case instr.OpLT:
		return lhs < rhs, nil
	case instr.OpGT:
		return lhs > rhs, nil
	case instr.OpLE:
		return lhs <= rhs, nil
	case instr.OpGE:
		return lhs >= rhs, nil
	case instr.OpEQ:
		return lhs == rhs, nil
	case instr.OpNE:
		return lhs != rhs, nil
	default:
		return false, invalid(c.Text, "unknown operator "+strconv.Quote(string(c.Op)))
	}
}

func integer(o instr.Operand, r instr.Resolver) (int64, error) {
	v, err := o.Resolve(r)
	if err != nil {
		return 0, err
	}

	switch v := v.(type) {
	case instr.Integer:
		return int64(v), nil
	case instr.Position:
		return 0, &instr.TypeMismatch{
			Name:     o.String(),
			Expected: instr.KindInteger,
			Actual:   instr.KindPosition,
		}
	default:
		panic("unknown value type")
	}
}

func invalid(text, reason string) error {
	return &instr.InvalidCondition{Text: text, Reason: reason}
}

type scanner struct {
	src  string
	pos  int
	text string
}

func (p *scanner) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func isWord(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

func (p *scanner) operand() (instr.Operand, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return instr.Operand{}, invalid(p.text, "missing operand")
	}

	start := p.pos

	if p.src[p.pos] == '$' {
		p.pos++
		for p.pos < len(p.src) && isWord(p.src[p.pos]) {
			p.pos++
		}
		return instr.VarRef(p.src[start:p.pos]), nil
	}

	if p.src[p.pos] == '-' || p.src[p.pos] == '+' {
		p.pos++
	}
	for p.pos < len(p.src) && isWord(p.src[p.pos]) {
		p.pos++
	}

	word := p.src[start:p.pos]
	if word == "" {
		return instr.Operand{}, invalid(p.text, "unexpected "+strconv.Quote(p.src[start:]))
	}

	n, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		return instr.Operand{}, invalid(p.text, "operand "+strconv.Quote(word)+" is not an integer or variable")
	}

	return instr.Literal(instr.Integer(n)), nil
}

func (p *scanner) op() (instr.CmpOp, error) {
	p.skipSpace()

	rest := p.src[p.pos:]
	for _, op := range ops {
		if strings.HasPrefix(rest, string(op)) {
			p.pos += len(op)
			return op, nil
		}
	}

	if rest == "" {
		return "", invalid(p.text, "missing comparison operator")
	}

	return "", invalid(p.text, "expected comparison operator at "+strconv.Quote(rest))
}
