// Package config holds the settings of a macro run.
//
// Settings come from Default, optionally overlaid with a TOML or YAML file.
// Keys missing from the file keep their default value. Command-line flags
// are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/gomacro/core"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/xdo"
)

// Format is a configuration file format.
type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// Config is the configuration of a run.
type Config struct {
	// Mode is normal, dry-run or simulate.
	Mode    string `toml:"mode" yaml:"mode"`
	Verbose bool   `toml:"verbose" yaml:"verbose"`

	// LogFormat is text or json.
	LogFormat string `toml:"log_format" yaml:"log_format"`
	// LogFile receives log records instead of stderr when set.
	LogFile string `toml:"log_file" yaml:"log_file"`

	// PauseMS is the pause after every input action in normal mode.
	PauseMS int64 `toml:"pause_ms" yaml:"pause_ms"`
	// Failsafe cancels the run when the pointer reaches (0,0).
	Failsafe bool `toml:"failsafe" yaml:"failsafe"`
	// VirtualTime runs simulate mode on the virtual timeline and reports
	// the estimated duration.
	VirtualTime bool `toml:"virtual_time" yaml:"virtual_time"`

	Simulate SimulateConfig `toml:"simulate" yaml:"simulate"`
	Screen   ScreenConfig   `toml:"screen" yaml:"screen"`

	Xdotool string `toml:"xdotool" yaml:"xdotool"`

	// LintSteps bounds the simulation run by the lint command.
	LintSteps int `toml:"lint_steps" yaml:"lint_steps"`
}

// SimulateConfig decides how simulated template matches come out.
type SimulateConfig struct {
	Match bool  `toml:"match" yaml:"match"`
	X     int32 `toml:"x" yaml:"x"`
	Y     int32 `toml:"y" yaml:"y"`
}

// ScreenConfig configures screen capture for template matching.
type ScreenConfig struct {
	Command []string `toml:"command" yaml:"command"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Mode:      core.ModeNormal.String(),
		LogFormat: "text",
		PauseMS:   100,
		Failsafe:  true,
		Simulate:  SimulateConfig{Match: true},
		Screen: ScreenConfig{
			Command: append([]string(nil), xdo.DefaultScreenCommand...),
		},
		Xdotool:   "xdotool",
		LintSteps: 10000,
	}
}

// DetectFormat chooses the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Load reads a configuration file over the defaults and validates it.
func Load(path string) (Config, error) {
	format := DetectFormat(path)
	if format == FormatAuto {
		return Config{}, fmt.Errorf("config %s: unknown format, use .toml, .yaml or .yml", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg, err := LoadFromString(string(content), format)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromString parses configuration text over the defaults and validates
// it.
func LoadFromString(content string, format Format) (Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML, FormatAuto:
		md, err := toml.Decode(content, &cfg)
		if err != nil {
			return Config{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(strings.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if _, err := core.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if c.PauseMS < 0 {
		errs = append(errs, fmt.Errorf("pause_ms must not be negative, got %d", c.PauseMS))
	}

	if c.LintSteps <= 0 {
		errs = append(errs, fmt.Errorf("lint_steps must be positive, got %d", c.LintSteps))
	}

	if len(c.Screen.Command) == 0 || c.Screen.Command[0] == "" {
		errs = append(errs, errors.New("screen command must not be empty"))
	}

	if c.Xdotool == "" {
		errs = append(errs, errors.New("xdotool path must not be empty"))
	}

	return errors.Join(errs...)
}

// RunMode returns the configured mode.
func (c Config) RunMode() (core.Mode, error) {
	return core.ParseMode(c.Mode)
}

// Pause returns the pause after input actions.
func (c Config) Pause() time.Duration {
	return time.Duration(c.PauseMS) * time.Millisecond
}

// SimulatedMatch returns where simulated template matches hit, or nil when
// they miss.
func (c Config) SimulatedMatch() *instr.Position {
	if !c.Simulate.Match {
		return nil
	}
	return &instr.Position{X: c.Simulate.X, Y: c.Simulate.Y}
}
