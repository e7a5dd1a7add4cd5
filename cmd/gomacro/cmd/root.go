package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/config"
	"github.com/sarchlab/gomacro/core"
	"github.com/sarchlab/gomacro/xdo"
)

// app is the state shared by the commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	verbose   bool
	logFormat string
	logFile   string

	run       runOptions
	lintSteps int

	cfg   config.Config
	runID string

	logCloser io.Closer

	// newDispatcher creates the dispatcher for normal mode.
	newDispatcher func(cfg config.Config) api.Dispatcher
}

func xdoDispatcher(cfg config.Config) api.Dispatcher {
	return xdo.NewBuilder().
		WithXdotool(cfg.Xdotool).
		WithScreenCommand(cfg.Screen.Command).
		WithFailsafe(cfg.Failsafe).
		Build()
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:        stdout,
		stderr:        stderr,
		newDispatcher: xdoDispatcher,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gomacro",
		Short: "Run GUI-automation macros",
		Long: `gomacro reads a macro file and performs the mouse, keyboard and
screen-matching actions it describes.

Macro commands:
  var set|increase   variables holding integers or positions
  mouse              move, click, press and release buttons
  key                press, hold, release keys and type text
  checkpoint, goto   jumps
  if                 skip the next instruction unless a condition holds
  cv match           find an image on screen
  sleep              wait`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "configuration file (.toml, .yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "print the parsed program and trace execution")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&a.logFile, "log-file", "", "write log records to a file")

	rootCmd.AddCommand(newRunCmd(a), newLintCmd(a), newVersionCmd(a))

	return rootCmd
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.Load(a.cfgFile)
		if err != nil {
			return usageError(err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}

	if err := a.applyRunFlags(cmd, &cfg); err != nil {
		return err
	}
	if flags.Changed("steps") {
		cfg.LintSteps = a.lintSteps
	}

	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}
	a.cfg = cfg
	a.runID = uuid.New().String()

	return a.setupLogging()
}

func (a *app) setupLogging() error {
	level := slog.LevelInfo
	if a.cfg.Verbose {
		level = core.LevelTrace
	}

	var w io.Writer = a.stderr
	if a.cfg.LogFile != "" {
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return usageErrorf("open log file: %w", err)
		}
		a.logCloser = f
		w = f
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch a.cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler).With("run", a.runID))

	return nil
}

func (a *app) teardown() error {
	if a.logCloser == nil {
		return nil
	}

	err := a.logCloser.Close()
	a.logCloser = nil

	return err
}

// execute runs the command line and returns the exit code.
func execute(a *app, args []string) int {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	_ = a.teardown()

	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		err = usageError(err)
	}

	if err != nil {
		reportError(a.stderr, err)
	}

	return exitCode(err)
}

// Execute runs the gomacro command line and returns the exit code.
func Execute() int {
	return execute(newApp(os.Stdout, os.Stderr), os.Args[1:])
}
