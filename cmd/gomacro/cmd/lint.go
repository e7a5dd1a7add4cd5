package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/gomacro/verify"
)

var errLintFailed = errors.New("verification failed")

func newLintCmd(a *app) *cobra.Command {
	lintCmd := &cobra.Command{
		Use:   "lint FILE",
		Short: "Check a macro without running it",
		Long: `lint parses a macro, reports static problems such as undefined goto
targets or variables that are never assigned, and simulates it for a bounded
number of steps.`,
		Args: exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prog, err := a.loadMacro(args[0])
			if err != nil {
				return err
			}

			report := verify.GenerateReport(prog, a.cfg.LintSteps)
			report.WriteReport(a.stdout)

			if !report.Passed() {
				return fmt.Errorf("%w: %d lint errors, simulation: %s",
					errLintFailed, report.Errors, simulationStatus(report))
			}

			return nil
		},
	}

	lintCmd.Flags().IntVar(&a.lintSteps, "steps", 0, "maximum simulation steps (default from config, 10000)")

	return lintCmd
}

func simulationStatus(r *verify.VerificationReport) string {
	switch {
	case r.SimulationOK:
		return "ok"
	case r.NonTerminating:
		return "did not terminate"
	default:
		return r.SimulationErr.Error()
	}
}
