package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bebsworthy/startbench/internal/debug"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the configuration file base name; .json, .yaml and .yml are recognized
	ConfigFileName = ".startbench"

	// ConfigEnvVar is the environment variable to specify custom config path
	ConfigEnvVar = "STARTBENCH_CONFIG"

	// EnvPrefix prefixes environment overrides, e.g. STARTBENCH_TIMEOUT=30s
	EnvPrefix = "STARTBENCH"
)

// FlagKeys maps command-line flag names to configuration keys
var FlagKeys = map[string]string{
	"project-dir":   "project_dir",
	"binary":        "binary",
	"bench-env":     "bench_env",
	"pattern":       "pattern",
	"timeout":       "timeout",
	"build-timeout": "build_timeout",
	"env-file":      "env_file",
	"metrics-file":  "metrics_file",
}

// Loader resolves configuration from defaults, a config file, environment
// variables and command-line flags, in increasing order of precedence.
type Loader struct {
	// SearchPaths contains the directories searched for ConfigFileName
	SearchPaths []string
	// Flags, when set, are bound to their configuration keys
	Flags *pflag.FlagSet
}

// NewLoader creates a loader that searches the current directory
func NewLoader(flags *pflag.FlagSet) *Loader {
	return &Loader{
		SearchPaths: []string{"."},
		Flags:       flags,
	}
}

// Load builds the effective configuration. An explicit path, or one named
// by ConfigEnvVar, must exist; a missing discovered file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	debug.LogSection("Configuration Loading")

	v := newViper()

	if path == "" {
		if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
			debug.Log("Loading config from environment variable %s: %s", ConfigEnvVar, envPath)
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		debug.Log("Using config file: %s", v.ConfigFileUsed())
	} else {
		v.SetConfigName(ConfigFileName)
		for _, searchPath := range l.SearchPaths {
			v.AddConfigPath(searchPath)
		}
		debug.Log("Searching for config in: %v", l.SearchPaths)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			debug.Log("No config file found, using defaults")
		} else {
			debug.Log("Using config file: %s", v.ConfigFileUsed())
		}
	}

	if err := l.bindFlags(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) bindFlags(v *viper.Viper) error {
	if l.Flags == nil {
		return nil
	}
	for name, key := range FlagKeys {
		flag := l.Flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Save writes cfg to path; the format follows the file extension
func Save(path string, cfg *Config) error {
	v := viper.New()
	if cfg.ProjectDir != "" && cfg.ProjectDir != "." {
		v.Set("project_dir", cfg.ProjectDir)
	}
	v.Set("build_command", cfg.BuildCommand)
	v.Set("build_args", cfg.BuildArgs)
	if cfg.BuildTimeout > 0 {
		v.Set("build_timeout", cfg.BuildTimeout.String())
	}
	v.Set("binary", cfg.BinaryPath)
	v.Set("bench_env", cfg.BenchEnvVar)
	v.Set("pattern", cfg.Pattern)
	v.Set("timeout", cfg.RunTimeout.String())
	v.Set("runs", cfg.Runs)
	if cfg.EnvFile != "" {
		v.Set("env_file", cfg.EnvFile)
	}
	if cfg.MetricsFile != "" {
		v.Set("metrics_file", cfg.MetricsFile)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	debug.Log("Wrote config file: %s", path)
	return nil
}

// newViper returns an isolated viper instance with defaults and
// environment overrides configured.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("project_dir", d.ProjectDir)
	v.SetDefault("build_command", d.BuildCommand)
	v.SetDefault("build_args", d.BuildArgs)
	v.SetDefault("build_timeout", d.BuildTimeout)
	v.SetDefault("binary", d.BinaryPath)
	v.SetDefault("bench_env", d.BenchEnvVar)
	v.SetDefault("pattern", d.Pattern)
	v.SetDefault("timeout", d.RunTimeout)
	v.SetDefault("runs", d.Runs)
	v.SetDefault("env_file", d.EnvFile)
	v.SetDefault("metrics_file", d.MetricsFile)
}
