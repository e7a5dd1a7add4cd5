package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/timeline"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name        string
	InstCount   int
	Checkpoints int
	LintIssues  []Issue
	Errors      int
	Warnings    int

	MaxSteps        int
	Steps           int
	SimulationErr   error
	SimulationOK    bool
	NonTerminating  bool
	VirtualDuration time.Duration
	Vars            map[string]instr.Value
}

// GenerateReport runs lint and a bounded simulation. Template matches hit at
// (0,0).
func GenerateReport(prog *program.Program, maxSteps int) *VerificationReport {
	return GenerateReportWithSimulator(prog, maxSteps, api.NopDispatcher{Match: &instr.Position{}})
}

// GenerateReportWithSimulator runs lint and a bounded simulation that sends
// actions to sim.
func GenerateReportWithSimulator(
	prog *program.Program,
	maxSteps int,
	sim api.Dispatcher,
) *VerificationReport {
	report := &VerificationReport{
		Name:        prog.Name,
		InstCount:   prog.Len(),
		Checkpoints: len(prog.Checkpoints),
		MaxSteps:    maxSteps,
	}

	report.LintIssues = RunLint(prog)
	report.Errors = CountBySeverity(report.LintIssues, SeverityError)
	report.Warnings = CountBySeverity(report.LintIssues, SeverityWarning)

	runner := timeline.NewBuilder().
		WithSimulator(sim).
		WithMaxSteps(maxSteps).
		Build("Verify", prog)

	var err error
	report.VirtualDuration, err = runner.Run(context.Background())
	report.Steps = runner.Steps()
	report.Vars = runner.Macro().Vars().Snapshot()
	report.SimulationErr = err
	report.SimulationOK = err == nil
	report.NonTerminating = errors.Is(err, timeline.ErrStepLimit)

	return report
}

// Passed reports whether the macro has no lint errors and simulates cleanly.
func (r *VerificationReport) Passed() bool {
	return r.Errors == 0 && r.SimulationOK
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "MACRO VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n%d instructions, %d checkpoints\n", r.InstCount, r.Checkpoints)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Line", "Severity", "Type", "Message"})
		for _, issue := range r.LintIssues {
			t.AppendRow(table.Row{issue.Line, issue.Severity, issue.Type, issue.Message})
		}
		t.Render()
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: BOUNDED SIMULATION")
	fmt.Fprintln(w, separator)

	switch {
	case r.SimulationOK:
		fmt.Fprintf(w, "Simulation completed in %d steps, virtual duration %s\n",
			r.Steps, r.VirtualDuration)
	case r.NonTerminating:
		fmt.Fprintf(w, "Simulation did not finish within %d steps; the macro may never terminate\n",
			r.MaxSteps)
	default:
		fmt.Fprintf(w, "Simulation error (%s): %v\n", instr.KindOf(r.SimulationErr), r.SimulationErr)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d errors, %d warnings)\n",
		len(r.LintIssues), r.Errors, r.Warnings)

	simStatus := "SUCCESS"
	if !r.SimulationOK {
		simStatus = "FAILED: " + r.SimulationErr.Error()
	}
	fmt.Fprintf(w, "Simulation Result: %s\n", simStatus)

	if r.Passed() {
		fmt.Fprintln(w, "MACRO PASSED ALL CHECKS")
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
