package verify

import (
	"fmt"
	"sort"

	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
)

// RunLint performs static checks on a program without running it.
// Returns the issues ordered by instruction, or an empty list.
func RunLint(prog *program.Program) []Issue {
	var issues []Issue

	issues = append(issues, lintFlow(prog)...)
	issues = append(issues, lintVars(prog)...)
	issues = append(issues, lintStyle(prog)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Index < issues[j].Index
	})

	return issues
}

func newIssue(t IssueType, s Severity, index int, inst instr.Inst, msg string) Issue {
	return Issue{
		Type:     t,
		Severity: s,
		Index:    index,
		Line:     inst.Line,
		Message:  msg,
		Details:  map[string]interface{}{"inst": inst.Text},
	}
}

// lintFlow checks goto targets, unused checkpoints and code that no jump or
// fall-through can reach.
func lintFlow(prog *program.Program) []Issue {
	var issues []Issue

	targeted := make(map[string]bool)
	for i, inst := range prog.Insts {
		g, ok := inst.Op.(instr.Goto)
		if !ok {
			continue
		}

		targeted[g.Label] = true
		if _, ok := prog.Checkpoint(g.Label); !ok {
			issues = append(issues, newIssue(IssueFlow, SeverityError, i, inst,
				fmt.Sprintf("goto target %q is not defined", g.Label)))
		}
	}

	for i, inst := range prog.Insts {
		c, ok := inst.Op.(instr.Checkpoint)
		if ok && !targeted[c.Label] {
			issues = append(issues, newIssue(IssueFlow, SeverityWarning, i, inst,
				fmt.Sprintf("checkpoint %q is never targeted by a goto", c.Label)))
		}
	}

	unreachable := false
	for i, inst := range prog.Insts {
		if _, ok := inst.Op.(instr.Checkpoint); ok {
			unreachable = false
		}

		if unreachable {
			issues = append(issues, newIssue(IssueFlow, SeverityWarning, i, inst,
				"unreachable instruction after unconditional goto"))
			continue
		}

		if _, ok := inst.Op.(instr.Goto); ok && !guarded(prog, i) {
			unreachable = true
		}
	}

	return issues
}

// guarded reports whether the instruction at i is preceded by an if.
func guarded(prog *program.Program, i int) bool {
	if i == 0 {
		return false
	}
	_, ok := prog.Insts[i-1].Op.(instr.If)
	return ok
}

type varUse struct {
	assigned map[instr.Kind]bool
}

// lintVars checks that every variable read is assigned somewhere, with a
// value of the kind the reader needs.
func lintVars(prog *program.Program) []Issue {
	uses := make(map[string]*varUse)
	use := func(name string) *varUse {
		u, ok := uses[name]
		if !ok {
			u = &varUse{assigned: make(map[instr.Kind]bool)}
			uses[name] = u
		}
		return u
	}

	use(instr.StatusVar).assigned[instr.KindInteger] = true

	for _, inst := range prog.Insts {
		switch op := inst.Op.(type) {
		case instr.VarSet:
			use(op.Var).assigned[op.Value.Kind()] = true
		case instr.CvMatch:
			use(op.Var).assigned[instr.KindPosition] = true
		}
	}

	var issues []Issue
	check := func(i int, inst instr.Inst, name string, want instr.Kind) {
		u, ok := uses[name]
		if !ok || len(u.assigned) == 0 {
			issues = append(issues, newIssue(IssueVar, SeverityError, i, inst,
				fmt.Sprintf("variable %s is read but never assigned", name)))
			return
		}

		if !u.assigned[want] {
			issues = append(issues, newIssue(IssueVar, SeverityError, i, inst,
				fmt.Sprintf("variable %s is used as %s but only ever holds %s",
					name, want, otherKind(want))))
		}
	}

	for i, inst := range prog.Insts {
		switch op := inst.Op.(type) {
		case instr.VarIncrease:
			check(i, inst, op.Var, instr.KindInteger)
		case instr.MouseMove:
			if op.Target.IsVar() {
				check(i, inst, op.Target.Var, instr.KindPosition)
			}
		case instr.If:
			for _, o := range []instr.Operand{op.Cond.LHS, op.Cond.RHS} {
				if o.IsVar() {
					check(i, inst, o.Var, instr.KindInteger)
				}
			}
		}
	}

	return issues
}

func otherKind(k instr.Kind) instr.Kind {
	switch k {
	case instr.KindInteger:
		return instr.KindPosition
	case instr.KindPosition:
		return instr.KindInteger
	default:
		panic("unknown kind")
	}
}

func lintStyle(prog *program.Program) []Issue {
	var issues []Issue

	for i, inst := range prog.Insts {
		if s, ok := inst.Op.(instr.Sleep); ok && s.Millis == 0 {
			issues = append(issues, newIssue(IssueStyle, SeverityWarning, i, inst,
				"sleep 0 has no effect"))
		}
	}

	return issues
}
