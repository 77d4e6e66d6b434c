// Package bench builds a target program and measures its startup latency.
package bench

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure kind, for use with errors.Is
var (
	ErrBuild      = errors.New("build failed")
	ErrLaunch     = errors.New("launch failed")
	ErrTimeout    = errors.New("run timed out")
	ErrParse      = errors.New("measurement not found")
	ErrEmptyInput = errors.New("no samples")
)

// Kind identifies one of the fatal benchmark failures
type Kind int

const (
	// KindBuild means the build tool exited non-zero or could not start
	KindBuild Kind = iota + 1
	// KindLaunch means the target binary could not be started
	KindLaunch
	// KindTimeout means a single run exceeded its timeout
	KindTimeout
	// KindParse means the target output had no measurement line
	KindParse
	// KindEmptyInput means statistics were requested on no samples
	KindEmptyInput
)

// String returns the failure name
func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "BuildFailure"
	case KindLaunch:
		return "LaunchFailure"
	case KindTimeout:
		return "TimeoutFailure"
	case KindParse:
		return "ParseFailure"
	case KindEmptyInput:
		return "EmptyInputFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindBuild:
		return ErrBuild
	case KindLaunch:
		return ErrLaunch
	case KindTimeout:
		return ErrTimeout
	case KindParse:
		return ErrParse
	case KindEmptyInput:
		return ErrEmptyInput
	}
	return nil
}

// Error is a benchmark failure. Every Error is fatal to the invocation.
type Error struct {
	Kind Kind
	// Op describes what was being done, e.g. "run 3/10"
	Op string
	// Output is the captured process output, if any
	Output string
	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(" (")
		b.WriteString(e.Op)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Output != "" {
		b.WriteString("\noutput:\n")
		b.WriteString(strings.TrimRight(e.Output, "\n"))
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the failure kind of err, or 0 if err is not a benchmark failure
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}
