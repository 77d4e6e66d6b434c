// Package main is the entry point for the startbench CLI tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/bebsworthy/startbench/internal/bench"
	"github.com/bebsworthy/startbench/internal/config"
	"github.com/bebsworthy/startbench/internal/debug"
	"github.com/bebsworthy/startbench/internal/metrics"
	"github.com/bebsworthy/startbench/internal/progress"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	debugFlag  bool
	configPath string
)

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	debugFlag = false
	configPath = ""

	cmd := &cobra.Command{
		Use:   "startbench [run_count]",
		Short: "Benchmark the startup latency of a program",
		Long: `Startbench builds a target program once, then launches it run_count times
(default 10) one after another with a benchmark flag set in its environment.

Each launch must print a line containing first_frame_ms=<milliseconds> and exit.
Startbench prints every sample and then the p50 and p95 of all samples.

Any failure (build, launch, timeout, or a missing measurement) aborts the
benchmark with a non-zero exit status.

CONFIGURATION:
  Settings come from, in increasing order of precedence: built-in defaults,
  .startbench.json/.yaml in the current directory (or --config), STARTBENCH_*
  environment variables, and command-line flags.

  $ startbench config   # create a configuration interactively`,
		Example: `  # Ten runs against the default cargo project
  startbench

  # Thirty runs
  startbench 30

  # A Go project with a custom binary and a longer timeout
  startbench --binary bin/app --timeout 30s 20

  # Export the summary for the node_exporter textfile collector
  startbench --metrics-file /var/lib/node_exporter/startbench.prom`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Enable()
			}
		},
		RunE: runBench,
	}

	// Global flags
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	// Benchmark flags, bound to configuration keys by config.Loader
	flags := cmd.Flags()
	flags.String("project-dir", ".", "Directory to build in and resolve the binary from")
	flags.String("binary", config.DefaultBinaryPath, "Path of the built binary, relative to the project directory (glob allowed)")
	flags.String("bench-env", config.DefaultBenchEnvVar, "Environment variable set to 1 for each run")
	flags.String("pattern", config.DefaultPattern, "Regular expression whose first group captures the measurement")
	flags.Duration("timeout", config.DefaultRunTimeout, "Timeout for each run")
	flags.Duration("build-timeout", 0, "Timeout for the build (0 for none)")
	flags.String("env-file", "", "File of KEY=VALUE pairs added to the target's environment")
	flags.String("metrics-file", "", "Write a Prometheus text export of the summary to this file")

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newManCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// parseRunCount returns the run count from the positional argument, or
// fallback when none is given. Zero and negative counts are passed through.
func parseRunCount(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid run count %q: must be an integer", args[0])
	}
	return n, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cmd.Flags()).Load(configPath)
	if err != nil {
		return err
	}

	runs, err := parseRunCount(args, cfg.Runs)
	if err != nil {
		return err
	}

	return benchmark(cmd.Context(), cfg, runs, cmd.OutOrStdout(), progress.New(os.Stderr))
}

// benchmark runs the benchmark and writes the optional metrics export
func benchmark(ctx context.Context, cfg *config.Config, runs int, out io.Writer, indicator progress.Indicator) error {
	runner, err := bench.NewRunner(cfg, out, bench.WithProgress(indicator))
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx, runs)
	if err != nil {
		return err
	}

	if cfg.MetricsFile == "" {
		return nil
	}
	binary, err := runner.BinaryPath()
	if err != nil {
		return err
	}
	if err := metrics.Export(cfg.MetricsFile, filepath.Base(binary), summary); err != nil {
		return err
	}
	debug.Log("Wrote metrics to %s", cfg.MetricsFile)
	return nil
}
