package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bebsworthy/startbench/internal/config"
	"github.com/bebsworthy/startbench/internal/debug"
	"github.com/bebsworthy/startbench/internal/executor"
	"github.com/bebsworthy/startbench/internal/progress"
	"github.com/joho/godotenv"
)

// BenchEnvValue is the value the benchmark flag variable is set to
const BenchEnvValue = "1"

// Runner builds the target once and launches it repeatedly, one process at
// a time. Launches are never overlapped: each sample must come from an
// uncontended process start.
type Runner struct {
	cfg      *config.Config
	pattern  *regexp.Regexp
	executor *executor.CommandExecutor
	reporter *Reporter
	progress progress.Indicator
	environ  func() []string
	extraEnv map[string]string
}

// Option customizes a Runner
type Option func(*Runner)

// WithProgress sets the indicator shown while building
func WithProgress(p progress.Indicator) Option {
	return func(r *Runner) { r.progress = p }
}

// WithEnviron replaces os.Environ as the source of the inherited environment
func WithEnviron(environ func() []string) Option {
	return func(r *Runner) { r.environ = environ }
}

// NewRunner validates cfg and prepares a runner that reports to out
func NewRunner(cfg *config.Config, out io.Writer, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	pattern, err := cfg.CompilePattern()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		pattern:  pattern,
		executor: executor.NewCommandExecutor(0),
		reporter: NewReporter(out),
		progress: progress.Noop{},
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}

	if cfg.EnvFile != "" {
		path := cfg.EnvFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.ProjectDir, path)
		}
		extra, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		debug.Log("Loaded %d variable(s) from %s", len(extra), path)
		r.extraEnv = extra
	}

	return r, nil
}

// Run builds the target, launches it n times and prints one line per run
// followed by the p50 and p95 summary. The first failure aborts the run;
// lines already printed stay, no summary is printed.
func (r *Runner) Run(ctx context.Context, n int) (*Summary, error) {
	if err := r.Build(ctx); err != nil {
		return nil, err
	}

	binary, err := r.BinaryPath()
	if err != nil {
		return nil, err
	}

	debug.LogSection("Benchmark")
	debug.Log("Binary: %s, runs: %d, timeout: %s", binary, n, r.cfg.RunTimeout)

	runs := make([]float64, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		value, err := r.runOnce(ctx, binary, i, n)
		if err != nil {
			debug.LogError(err, fmt.Sprintf("run %d/%d", i, n))
			return nil, err
		}
		runs = append(runs, value)
		r.reporter.Sample(i, n, value)
	}

	summary, err := Summarize(runs)
	if err != nil {
		return nil, err
	}
	r.reporter.Summary(summary)
	return summary, nil
}

// Build runs the configured build command in the project directory
func (r *Runner) Build(ctx context.Context) error {
	debug.LogSection("Build")
	debug.LogCommand(r.cfg.BuildCommand, r.cfg.BuildArgs, r.cfg.ProjectDir)

	r.progress.Start("Building " + r.cfg.BinaryPath)
	result, err := r.executor.Execute(ctx, r.cfg.BuildCommand, r.cfg.BuildArgs, executor.ExecOptions{
		WorkingDir:     r.cfg.ProjectDir,
		Timeout:        r.cfg.BuildTimeout,
		CombinedOutput: true,
	})
	r.progress.Stop()

	if err != nil {
		return newError(KindBuild, "build", err)
	}
	debug.LogTiming("build", result.Duration)

	if result.Error != nil {
		return &Error{Kind: KindBuild, Op: "build", Err: result.Error, Output: result.Output}
	}
	if result.ExitCode != 0 {
		return &Error{
			Kind:   KindBuild,
			Op:     "build",
			Err:    fmt.Errorf("%s exited with status %d", r.cfg.BuildCommand, result.ExitCode),
			Output: result.Output,
		}
	}
	return nil
}

// BinaryPath resolves the built binary's absolute path
func (r *Runner) BinaryPath() (string, error) {
	return ResolveBinary(r.cfg.ProjectDir, r.cfg.BinaryPath)
}

// RunOnce launches binary once with the benchmark flag set and returns the
// measurement it reports, in milliseconds.
func (r *Runner) RunOnce(ctx context.Context, binary string) (float64, error) {
	return r.runOnce(ctx, binary, 1, 1)
}

func (r *Runner) runOnce(ctx context.Context, binary string, index, total int) (float64, error) {
	op := fmt.Sprintf("run %d/%d", index, total)
	if err := ctx.Err(); err != nil {
		return 0, newError(KindLaunch, op, err)
	}

	injected := r.injectedEnv()
	env := executor.MergeEnvironment(r.environ(), injected)
	debug.LogCommand(binary, nil, "")
	debug.LogEnv(injected)
	if debug.IsEnabled() {
		flag, _ := executor.LookupEnvironment(env, r.cfg.BenchEnvVar)
		debug.Log("Launching with %s=%s", r.cfg.BenchEnvVar, flag)
	}

	result, err := r.executor.Execute(ctx, binary, nil, executor.ExecOptions{
		WorkingDir:     r.cfg.ProjectDir,
		Environment:    env,
		Timeout:        r.cfg.RunTimeout,
		CombinedOutput: true,
	})
	if err != nil {
		return 0, newError(KindLaunch, op, err)
	}
	debug.LogOutput("Target output", result.Output)

	if result.TimedOut {
		return 0, &Error{
			Kind:   KindTimeout,
			Op:     op,
			Err:    fmt.Errorf("%s did not exit within %s", binary, r.cfg.RunTimeout),
			Output: result.Output,
		}
	}
	if result.Error != nil {
		return 0, newError(KindLaunch, op, result.Error)
	}
	if err := ctx.Err(); err != nil {
		return 0, newError(KindLaunch, op, err)
	}
	if result.ExitCode != 0 {
		debug.Log("Target exited with status %d, parsing output anyway", result.ExitCode)
	}

	value, err := ParseMeasurement(r.pattern, result.Output)
	if err != nil {
		var be *Error
		if errors.As(err, &be) {
			be.Op = op
		}
		return 0, err
	}

	debug.LogSample(index, total, value, result.Duration)
	return value, nil
}

// injectedEnv returns the variables layered onto the inherited environment.
// The benchmark flag always wins over the env file.
func (r *Runner) injectedEnv() map[string]string {
	injected := make(map[string]string, len(r.extraEnv)+1)
	for k, v := range r.extraEnv {
		injected[k] = v
	}
	injected[r.cfg.BenchEnvVar] = BenchEnvValue
	return injected
}
