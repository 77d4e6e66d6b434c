package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"syscall"
)

// Sentinels matched by ExecError.Is, one per launch failure type
var (
	// ErrCommandNotFound means neither PATH nor the filesystem has the program
	ErrCommandNotFound = errors.New("command not found")

	// ErrPermissionDenied means the file exists but may not be executed
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotExecutable means the kernel rejected the file's format
	ErrNotExecutable = errors.New("not an executable")

	// ErrTimeout means the process was killed by its timeout
	ErrTimeout = errors.New("command timed out")

	// ErrInvalidWorkingDirectory means the working directory cannot be used
	ErrInvalidWorkingDirectory = errors.New("invalid working directory")
)

// ErrorType identifies why a process could not run to completion
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeCommandNotFound
	ErrorTypePermissionDenied
	ErrorTypeNotExecutable
	ErrorTypeTimeout
	ErrorTypeWorkingDirectory
	// ErrorTypeExecution covers every other start or wait failure
	ErrorTypeExecution
)

// String returns a short name for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeCommandNotFound:
		return "command-not-found"
	case ErrorTypePermissionDenied:
		return "permission-denied"
	case ErrorTypeNotExecutable:
		return "not-executable"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeWorkingDirectory:
		return "working-directory"
	case ErrorTypeExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// ExecError describes a process that could not be started or was killed
type ExecError struct {
	Type    ErrorType
	Command string
	Args    []string
	Err     error
	Details string
}

// Error implements the error interface
func (e *ExecError) Error() string {
	if e.Type == ErrorTypeWorkingDirectory {
		return "working directory error: " + e.Details
	}

	cmd := e.Command
	if len(e.Args) > 0 {
		cmd += " " + strings.Join(e.Args, " ")
	}

	switch e.Type {
	case ErrorTypeCommandNotFound:
		return fmt.Sprintf("command not found: %s", e.Command)
	case ErrorTypePermissionDenied:
		return fmt.Sprintf("permission denied: %s (is it executable?)", e.Command)
	case ErrorTypeNotExecutable:
		return fmt.Sprintf("%s is not a program this system can execute", e.Command)
	case ErrorTypeTimeout:
		return fmt.Sprintf("command timed out: %s", cmd)
	default:
		return fmt.Sprintf("failed to run %s: %v", cmd, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's type
func (e *ExecError) Is(target error) bool {
	switch target {
	case ErrCommandNotFound:
		return e.Type == ErrorTypeCommandNotFound
	case ErrPermissionDenied:
		return e.Type == ErrorTypePermissionDenied
	case ErrNotExecutable:
		return e.Type == ErrorTypeNotExecutable
	case ErrTimeout:
		return e.Type == ErrorTypeTimeout
	case ErrInvalidWorkingDirectory:
		return e.Type == ErrorTypeWorkingDirectory
	}
	return false
}

// ClassifyError wraps a start or wait error from os/exec in an ExecError.
// An error that already carries an ExecError is returned unchanged.
func ClassifyError(err error, command string, args []string) *ExecError {
	if err == nil {
		return nil
	}

	var existing *ExecError
	if errors.As(err, &existing) {
		return existing
	}

	execErr := &ExecError{
		Type:    ErrorTypeExecution,
		Command: command,
		Args:    args,
		Err:     err,
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		execErr.Type = ErrorTypeTimeout
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		execErr.Type = ErrorTypeCommandNotFound
	case errors.Is(err, fs.ErrPermission):
		execErr.Type = ErrorTypePermissionDenied
	case errors.Is(err, syscall.ENOEXEC):
		execErr.Type = ErrorTypeNotExecutable
	}

	return execErr
}
