package main

import (
	"fmt"

	"github.com/bebsworthy/startbench/internal/config"
	"github.com/bebsworthy/startbench/internal/wizard"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	var (
		validateFlag bool
		outputPath   string
		forceFlag    bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"init"},
		Short:   "Configure startbench for your project",
		Long: `Configure startbench for your project through an interactive wizard.

The wizard starts from a build preset (cargo, go, make) and asks for the
build command, the binary to launch, the benchmark flag variable, the
default run count and the per-run timeout.`,
		Example: `  # Run interactive configuration wizard
  startbench config

  # Validate the effective configuration
  startbench config --validate

  # Write a YAML configuration
  startbench config --output .startbench.yaml

  # Force overwrite existing configuration
  startbench config --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validateFlag {
				return runValidateConfig(cmd)
			}
			return wizard.NewConfigWizard(cmd.OutOrStdout()).Run(outputPath, forceFlag)
		},
	}

	cmd.Flags().BoolVar(&validateFlag, "validate", false, "Validate the effective configuration")
	cmd.Flags().StringVar(&outputPath, "output", wizard.DefaultOutputPath, "Output path for configuration file")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Force overwrite existing configuration")

	return cmd
}

// runValidateConfig loads and validates the configuration, then prints it
func runValidateConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := config.NewLoader(nil).Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Fprintln(out, "Configuration is valid")
	fmt.Fprintf(out, "  build:    %s %v (in %s)\n", cfg.BuildCommand, cfg.BuildArgs, cfg.ProjectDir)
	fmt.Fprintf(out, "  binary:   %s\n", cfg.BinaryPath)
	fmt.Fprintf(out, "  flag:     %s=1\n", cfg.BenchEnvVar)
	fmt.Fprintf(out, "  pattern:  %s\n", cfg.Pattern)
	fmt.Fprintf(out, "  runs:     %d\n", cfg.Runs)
	fmt.Fprintf(out, "  timeout:  %s\n", cfg.RunTimeout)
	return nil
}
