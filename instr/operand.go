package instr

// StatusVar is the reserved variable that holds the outcome of the last
// fallible command.
const StatusVar = "$"

// Operand is an argument that is either known at parse time or read from a
// variable when the instruction runs.
type Operand struct {
	// Var is the variable name (including the leading '$'). Empty for
	// literals.
	Var string
	// Lit is the literal value. Nil for variable references.
	Lit Value
}

// VarRef creates an operand that reads a variable.
func VarRef(name string) Operand {
	return Operand{Var: name}
}

// Literal creates an operand with a constant value.
func Literal(v Value) Operand {
	return Operand{Lit: v}
}

// IsVar reports whether the operand reads a variable.
func (o Operand) IsVar() bool {
	return o.Var != ""
}

func (o Operand) String() string {
	if o.IsVar() {
		return o.Var
	}
	if o.Lit == nil {
		return "<nil>"
	}
	return o.Lit.String()
}

// Resolver gives read access to variables.
type Resolver interface {
	Get(name string) (Value, error)
}

// Resolve returns the operand value, reading variables from r.
func (o Operand) Resolve(r Resolver) (Value, error) {
	if o.IsVar() {
		return r.Get(o.Var)
	}
	return o.Lit, nil
}

// CmpOp is a comparison operator usable in a condition.
type CmpOp string

const (
	OpLT CmpOp = "<"
	OpGT CmpOp = ">"
	OpLE CmpOp = "<="
	OpGE CmpOp = ">="
	OpEQ CmpOp = "=="
	OpNE CmpOp = "!="
)

// Condition is a parsed `(lhs op rhs)` comparison.
type Condition struct {
	LHS  Operand
	Op   CmpOp
	RHS  Operand
	Text string
}

func (c Condition) String() string {
	return "(" + c.LHS.String() + " " + string(c.Op) + " " + c.RHS.String() + ")"
}
