// Package wizard provides the interactive configuration wizard for startbench
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bebsworthy/startbench/internal/config"
	"github.com/bebsworthy/startbench/internal/debug"
)

// DefaultOutputPath is where the wizard writes when no path is given
const DefaultOutputPath = config.ConfigFileName + ".json"

// ConfigWizard asks for the build and launch settings of a target program
// and writes them as a startbench config file.
type ConfigWizard struct {
	prompter Prompter
	out      io.Writer
}

// NewConfigWizard creates a wizard that prompts on the terminal
func NewConfigWizard(out io.Writer) *ConfigWizard {
	return NewConfigWizardWithPrompter(NewSurveyPrompter(), out)
}

// NewConfigWizardWithPrompter creates a wizard using p for all questions
func NewConfigWizardWithPrompter(p Prompter, out io.Writer) *ConfigWizard {
	return &ConfigWizard{prompter: p, out: out}
}

// Run runs the wizard and saves the result to outputPath
func (w *ConfigWizard) Run(outputPath string, force bool) error {
	debug.LogSection("Configuration Wizard")

	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	if !force {
		overwrite, err := w.checkExistingConfig(outputPath)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w.out, "Configuration wizard canceled.")
			return nil
		}
	}

	cfg, err := w.createConfiguration()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generated configuration is invalid: %w", err)
	}
	if err := config.Save(outputPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(w.out, "Configuration saved to %s\n", outputPath)
	fmt.Fprintf(w.out, "Run 'startbench' to benchmark %s\n", cfg.BinaryPath)
	return nil
}

// checkExistingConfig asks before overwriting an existing file
func (w *ConfigWizard) checkExistingConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	return w.prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path), false)
}

// createConfiguration starts from a preset and lets the user adjust it
func (w *ConfigWizard) createConfiguration() (*config.Config, error) {
	presetName, err := w.prompter.Select("Build system:", config.PresetNames(), "cargo")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Preset(presetName)
	if err != nil {
		return nil, err
	}
	debug.Log("Using preset %s", presetName)

	buildLine, err := w.prompter.Input("Build command:", strings.Join(append([]string{cfg.BuildCommand}, cfg.BuildArgs...), " "), requireFields)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(buildLine)
	cfg.BuildCommand = fields[0]
	cfg.BuildArgs = fields[1:]

	if cfg.BinaryPath, err = w.prompter.Input("Binary path (glob allowed):", cfg.BinaryPath, requireFields); err != nil {
		return nil, err
	}
	if cfg.BenchEnvVar, err = w.prompter.Input("Benchmark flag variable:", cfg.BenchEnvVar, validateEnvName); err != nil {
		return nil, err
	}

	runs, err := w.prompter.Input("Default run count:", strconv.Itoa(cfg.Runs), validatePositiveInt)
	if err != nil {
		return nil, err
	}
	cfg.Runs, _ = strconv.Atoi(strings.TrimSpace(runs))

	timeout, err := w.prompter.Input("Per-run timeout:", cfg.RunTimeout.String(), validateDuration)
	if err != nil {
		return nil, err
	}
	cfg.RunTimeout, _ = time.ParseDuration(strings.TrimSpace(timeout))

	return cfg, nil
}

func requireFields(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}

func validateEnvName(s string) error {
	if !config.IsValidEnvName(s) {
		return fmt.Errorf("%q is not a valid environment variable name", s)
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fmt.Errorf("enter a positive duration such as 15s")
	}
	return nil
}
