// Package config provides the startbench configuration schema, loading and validation.
package config

import (
	"fmt"
	"regexp"
	"time"
)

// Defaults matching the benchmark contract of the target program.
const (
	DefaultBuildCommand = "cargo"
	DefaultBinaryPath   = "target/debug/ralph"
	DefaultBenchEnvVar  = "RALPH_STARTUP_BENCH"
	DefaultPattern      = `first_frame_ms=([0-9]+\.[0-9]+)`
	DefaultRunTimeout   = 15 * time.Second
	DefaultRuns         = 10
)

// DefaultBuildArgs are the arguments passed to DefaultBuildCommand
var DefaultBuildArgs = []string{"build", "--quiet"}

// Config holds everything needed to build and benchmark one target program
type Config struct {
	// ProjectDir is where the build runs and BinaryPath is resolved from
	ProjectDir string `mapstructure:"project_dir"`
	// BuildCommand and BuildArgs build the target non-interactively
	BuildCommand string   `mapstructure:"build_command"`
	BuildArgs    []string `mapstructure:"build_args"`
	// BuildTimeout bounds the build; zero means unbounded
	BuildTimeout time.Duration `mapstructure:"build_timeout"`
	// BinaryPath is relative to ProjectDir and may be a doublestar glob
	BinaryPath string `mapstructure:"binary"`
	// BenchEnvVar is set to "1" in the target's environment
	BenchEnvVar string `mapstructure:"bench_env"`
	// Pattern extracts the measurement; its first capture group is the value in ms
	Pattern string `mapstructure:"pattern"`
	// RunTimeout bounds each target launch
	RunTimeout time.Duration `mapstructure:"timeout"`
	// Runs is used when no run count is given on the command line
	Runs int `mapstructure:"runs"`
	// EnvFile holds extra KEY=VALUE pairs for the target (optional)
	EnvFile string `mapstructure:"env_file"`
	// MetricsFile receives a Prometheus text export of the summary (optional)
	MetricsFile string `mapstructure:"metrics_file"`
}

// Default returns a configuration populated with the built-in defaults
func Default() *Config {
	return &Config{
		ProjectDir:   ".",
		BuildCommand: DefaultBuildCommand,
		BuildArgs:    append([]string(nil), DefaultBuildArgs...),
		BinaryPath:   DefaultBinaryPath,
		BenchEnvVar:  DefaultBenchEnvVar,
		Pattern:      DefaultPattern,
		RunTimeout:   DefaultRunTimeout,
		Runs:         DefaultRuns,
	}
}

// Validate checks the configuration. The run count is deliberately not
// checked here: non-positive counts surface from the statistics step.
func (c *Config) Validate() error {
	if c.BuildCommand == "" {
		return fmt.Errorf("build_command is required")
	}
	if c.BinaryPath == "" {
		return fmt.Errorf("binary is required")
	}
	if c.BenchEnvVar == "" {
		return fmt.Errorf("bench_env is required")
	}
	if !IsValidEnvName(c.BenchEnvVar) {
		return fmt.Errorf("bench_env %q is not a valid environment variable name", c.BenchEnvVar)
	}
	if _, err := c.CompilePattern(); err != nil {
		return err
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.RunTimeout)
	}
	if c.BuildTimeout < 0 {
		return fmt.Errorf("build_timeout cannot be negative, got %s", c.BuildTimeout)
	}
	return nil
}

// CompilePattern compiles Pattern and checks that it captures a value
func (c *Config) CompilePattern() (*regexp.Regexp, error) {
	if c.Pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q must contain a capture group for the value", c.Pattern)
	}
	return re, nil
}

var envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidEnvName reports whether name can be used as an environment variable name
func IsValidEnvName(name string) bool {
	return envNameRegex.MatchString(name)
}
