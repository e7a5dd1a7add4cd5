package program

import "github.com/sarchlab/gomacro/instr"

// parseFunc turns the tokens of one line into an operation. toks[0] is the
// keyword that selected the function.
type parseFunc func(l *line) (instr.Op, error)

// ISA maps leading keywords to the functions that parse the rest of a line.
type ISA struct {
	// name of the ISA.
	isaName string
	// map from keyword to the parser of the instruction family.
	keywordToParser map[string]parseFunc
}

// NewISA creates an ISA with no keywords.
func NewISA(name string) *ISA {
	return &ISA{
		isaName:         name,
		keywordToParser: make(map[string]parseFunc),
	}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// Keywords lists the registered keywords.
func (isa *ISA) Keywords() []string {
	out := make([]string, 0, len(isa.keywordToParser))
	for k := range isa.keywordToParser {
		out = append(out, k)
	}

	return out
}

func (isa *ISA) registerNewInst(keyword string, parser parseFunc) {
	isa.keywordToParser[keyword] = parser
}

func (isa *ISA) lookup(keyword string) (parseFunc, bool) {
	p, ok := isa.keywordToParser[keyword]
	return p, ok
}

var defaultISA = newDefaultISA()

func newDefaultISA() *ISA {
	isa := NewISA("macro")

	isa.registerNewInst("var", parseVar)
	isa.registerNewInst("mouse", parseMouse)
	isa.registerNewInst("key", parseKey)
	isa.registerNewInst("checkpoint", parseCheckpoint)
	isa.registerNewInst("goto", parseGoto)
	isa.registerNewInst("if", parseIf)
	isa.registerNewInst("cv", parseCv)
	isa.registerNewInst("sleep", parseSleep)

	return isa
}
