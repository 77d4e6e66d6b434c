// Package executor runs external commands for startbench.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes once the process has
// exited or been killed, when children it left behind still hold them open.
// Output written before the pipes are closed is kept.
const waitDelay = 500 * time.Millisecond

// ExecOptions defines options for command execution
type ExecOptions struct {
	// Working directory for the command
	WorkingDir string
	// Full environment in KEY=VALUE format. Nil inherits the parent environment.
	Environment []string
	// Timeout for command execution
	Timeout time.Duration
	// Capture stdout and stderr into a single interleaved stream
	CombinedOutput bool
}

// ExecResult contains the result of command execution
type ExecResult struct {
	// Standard output (empty when CombinedOutput is set)
	Stdout string
	// Standard error (empty when CombinedOutput is set)
	Stderr string
	// Output is the interleaved stream in combined mode, otherwise Stdout followed by Stderr
	Output string
	// Exit code of the command, -1 if it never ran to completion
	ExitCode int
	// Whether the command was killed by the timeout
	TimedOut bool
	// Wall-clock time between start and exit
	Duration time.Duration
	// Error if the command failed to start or timed out
	Error error
}

// CommandExecutor executes external commands
type CommandExecutor struct {
	// Default timeout for commands if not specified
	defaultTimeout time.Duration
}

// NewCommandExecutor creates a new command executor. A non-positive default
// timeout means commands are bounded only by their context.
func NewCommandExecutor(defaultTimeout time.Duration) *CommandExecutor {
	if defaultTimeout < 0 {
		defaultTimeout = 0
	}
	return &CommandExecutor{
		defaultTimeout: defaultTimeout,
	}
}

// Execute runs a command with the given options and waits for it to exit.
//
// Failing to start is reported through ExecResult.Error as a classified
// *ExecError; the returned error is reserved for invalid input.
func (e *CommandExecutor) Execute(ctx context.Context, command string, args []string, options ExecOptions) (*ExecResult, error) {
	if command == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.WaitDelay = waitDelay

	if options.WorkingDir != "" {
		dir, err := resolveWorkingDir(options.WorkingDir)
		if err != nil {
			return nil, err
		}
		cmd.Dir = dir
	}

	if options.Environment != nil {
		cmd.Env = options.Environment
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if options.CombinedOutput {
		// Same writer on both streams: exec serializes the writes.
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stdoutBuf
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return &ExecResult{
			ExitCode: -1,
			Error:    ClassifyError(err, command, args),
		}, nil
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil

	result := &ExecResult{
		ExitCode: 0,
		TimedOut: timedOut,
		Duration: duration,
	}
	if options.CombinedOutput {
		result.Output = stdoutBuf.String()
	} else {
		result.Stdout = stdoutBuf.String()
		result.Stderr = stderrBuf.String()
		result.Output = result.Stdout + result.Stderr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case errors.Is(waitErr, exec.ErrWaitDelay) && !timedOut:
			// The process exited cleanly; a leftover child still held the
			// output pipes and they were closed after waitDelay.
			result.ExitCode = cmd.ProcessState.ExitCode()
		case timedOut:
			result.ExitCode = -1
		default:
			result.ExitCode = -1
			result.Error = ClassifyError(waitErr, command, args)
		}
	}
	if timedOut && result.Error == nil {
		result.Error = &ExecError{
			Type:    ErrorTypeTimeout,
			Command: command,
			Args:    args,
			Err:     context.DeadlineExceeded,
		}
	}

	return result, nil
}

func resolveWorkingDir(dir string) (string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", &ExecError{Type: ErrorTypeWorkingDirectory, Details: err.Error(), Err: err}
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &ExecError{Type: ErrorTypeWorkingDirectory, Details: absPath + " does not exist", Err: err}
		}
		return "", &ExecError{Type: ErrorTypeWorkingDirectory, Details: err.Error(), Err: err}
	}
	if !info.IsDir() {
		return "", &ExecError{Type: ErrorTypeWorkingDirectory, Details: absPath + " is not a directory"}
	}
	return absPath, nil
}
