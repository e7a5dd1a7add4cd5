package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/config"
	"github.com/sarchlab/gomacro/core"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/timeline"
)

type runOptions struct {
	dryRun      bool
	simulate    bool
	virtualTime bool
	pause       time.Duration
	noFailsafe  bool
}

func newRunCmd(a *app) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute a macro file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.runMacro(ctx, args[0])
		},
	}

	flags := runCmd.Flags()
	flags.BoolVar(&a.run.dryRun, "dry-run", false, "list the instructions without executing them")
	flags.BoolVar(&a.run.simulate, "simulate", false, "execute the logic but perform no actions")
	flags.BoolVar(&a.run.virtualTime, "virtual-time", false, "with --simulate, estimate how long the macro takes")
	flags.DurationVar(&a.run.pause, "pause", 0, "pause after every input action (default from config, 100ms)")
	flags.BoolVar(&a.run.noFailsafe, "no-failsafe", false, "do not abort when the pointer reaches the top-left corner")

	return runCmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// applyRunFlags overlays the run flags on the configuration. Commands
// without those flags leave it unchanged.
func (a *app) applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("dry-run") == nil {
		return nil
	}

	if a.run.dryRun && a.run.simulate {
		return usageErrorf("--dry-run and --simulate cannot be combined")
	}
	if a.run.dryRun {
		cfg.Mode = core.ModeDryRun.String()
	}
	if a.run.simulate {
		cfg.Mode = core.ModeSimulate.String()
	}

	if flags.Changed("virtual-time") {
		cfg.VirtualTime = a.run.virtualTime
	}
	if flags.Changed("pause") {
		cfg.PauseMS = a.run.pause.Milliseconds()
	}
	if a.run.noFailsafe {
		cfg.Failsafe = false
	}

	if mode, err := cfg.RunMode(); err == nil && cfg.VirtualTime && mode != core.ModeSimulate {
		return usageErrorf("virtual time requires simulate mode")
	}

	return nil
}

func (a *app) loadMacro(path string) (*program.Program, error) {
	prog, err := program.LoadFile(path)
	if err != nil {
		var parseErr *instr.ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, usageError(err)
	}

	slog.Info("MacroLoaded", "file", path, "instructions", prog.Len())

	return prog, nil
}

func (a *app) runMacro(ctx context.Context, path string) error {
	prog, err := a.loadMacro(path)
	if err != nil {
		return err
	}

	mode, err := a.cfg.RunMode()
	if err != nil {
		return usageError(err)
	}

	if a.cfg.Verbose || mode == core.ModeDryRun {
		program.PrintProgram(a.stdout, prog)
	}

	switch mode {
	case core.ModeDryRun:
		return a.dryRun(ctx, prog)
	case core.ModeSimulate:
		fmt.Fprintln(a.stdout, bannerStyle.Render("Simulation mode: the logic runs, no actions are performed"))
		if a.cfg.VirtualTime {
			return a.simulateOnTimeline(ctx, prog)
		}
		sim := api.NopDispatcher{Match: a.cfg.SimulatedMatch()}
		return a.runEngine(ctx, core.NewBuilder().WithMode(core.ModeSimulate).WithSimulator(sim), prog)
	default:
		fmt.Fprintln(a.stdout, bannerStyle.Render("Starting macro execution..."))
		if a.cfg.Failsafe {
			fmt.Fprintln(a.stdout, hintStyle.Render("Move the mouse to the top-left corner of the screen to abort"))
		}
		d := api.NewPaced(a.newDispatcher(a.cfg), a.cfg.PauseMS)
		return a.runEngine(ctx, core.NewBuilder().WithDispatcher(d), prog)
	}
}

func (a *app) dryRun(ctx context.Context, prog *program.Program) error {
	e := core.NewBuilder().WithMode(core.ModeDryRun).Build(prog)
	if err := e.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, successStyle.Render(
		fmt.Sprintf("Dry run: %d instructions, nothing executed", prog.Len())))

	return nil
}

func (a *app) runEngine(ctx context.Context, b core.Builder, prog *program.Program) error {
	e := b.Build(prog)

	err := e.Run(ctx)
	core.LogState(e)
	if err != nil {
		return err
	}

	a.finish(e)

	return nil
}

func (a *app) simulateOnTimeline(ctx context.Context, prog *program.Program) error {
	r := timeline.NewBuilder().
		WithPause(a.cfg.PauseMS).
		WithSimulator(api.NopDispatcher{Match: a.cfg.SimulatedMatch()}).
		Build("Timeline", prog)

	d, err := r.Run(ctx)
	core.LogState(r.Macro())
	if err != nil {
		return err
	}

	a.finish(r.Macro())
	fmt.Fprintf(a.stdout, "Estimated duration: %s (%d steps)\n", d.Round(time.Millisecond), r.Steps())

	return nil
}

func (a *app) finish(e *core.Engine) {
	if a.cfg.Verbose {
		core.PrintState(a.stdout, e.Vars())
	}

	fmt.Fprintln(a.stdout, successStyle.Render("Macro execution completed"))
	fmt.Fprintln(a.stdout, hintStyle.Render(core.Summary(e)))
}
