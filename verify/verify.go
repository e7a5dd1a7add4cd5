// Package verify checks macros without touching the desktop.
//
// It has two complementary stages:
//
// 1. Static lint (lint.go): structural checks on the parsed program
//   - FLOW checks: goto targets, unused checkpoints, unreachable code
//   - VAR checks: variables read but never assigned, kind misuse
//   - STYLE checks: instructions that do nothing
//
// 2. Bounded simulation (report.go): the program is run in simulate mode on
// the virtual timeline for a limited number of steps. Runtime errors that
// depend on control flow show up here, as do loops that never end.
//
// # Usage Example
//
//	prog, err := program.LoadFile("login.macro")
//	if err != nil {
//	    return err
//	}
//
//	for _, issue := range verify.RunLint(prog) {
//	    fmt.Println(issue)
//	}
//
//	report := verify.GenerateReport(prog, 10000)
//	report.WriteReport(os.Stdout)
//
// # Limitations
//
// - Template matches are simulated. Every cv match hits at (0,0) unless a
//   different simulator is given.
// - The variable checks ignore control flow. A variable assigned anywhere in
//   the program counts as assigned everywhere.
package verify

import (
	"fmt"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueFlow  IssueType = "FLOW"  // Jumps and reachability
	IssueVar   IssueType = "VAR"   // Variable definition and kind
	IssueStyle IssueType = "STYLE" // Legal but suspicious code
)

// Severity tells whether an issue makes the macro fail.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Issue represents a single lint issue
type Issue struct {
	Type     IssueType
	Severity Severity
	Index    int    // Instruction index, -1 if not applicable
	Line     int    // Source line, 0 if not applicable
	Message  string // Human-readable description
	Details  map[string]interface{}
}

func (i Issue) String() string {
	if i.Line == 0 {
		return fmt.Sprintf("%s [%s] %s", i.Severity, i.Type, i.Message)
	}
	return fmt.Sprintf("line %d: %s [%s] %s", i.Line, i.Severity, i.Type, i.Message)
}

// CountBySeverity returns how many issues have the severity.
func CountBySeverity(issues []Issue, s Severity) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}
