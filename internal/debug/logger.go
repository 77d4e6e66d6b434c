// Package debug provides opt-in diagnostic logging for startbench.
//
// Debug output goes to stderr so it never interleaves with the benchmark
// report on stdout.
package debug

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Logger provides debug logging capabilities
type Logger struct {
	enabled bool
	writer  io.Writer
	start   time.Time
}

// Global debug logger instance
var globalLogger = &Logger{
	enabled: false,
	writer:  os.Stderr,
}

// Enable enables debug logging
func Enable() {
	globalLogger.enabled = true
	globalLogger.start = time.Now()
}

// Disable turns debug logging off again
func Disable() {
	globalLogger.enabled = false
}

// IsEnabled returns whether debug logging is enabled
func IsEnabled() bool {
	return globalLogger.enabled
}

// SetWriter sets the output writer for debug logs
func SetWriter(w io.Writer) {
	globalLogger.writer = w
}

// Log writes a debug message if debugging is enabled
func Log(format string, args ...interface{}) {
	if !globalLogger.enabled {
		return
	}

	elapsed := time.Since(globalLogger.start)
	prefix := fmt.Sprintf("[DEBUG %s] ", formatDuration(elapsed))
	message := fmt.Sprintf(format, args...)

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	_, _ = fmt.Fprint(globalLogger.writer, prefix+message)
}

// LogSection writes a section header
func LogSection(title string) {
	if !globalLogger.enabled {
		return
	}

	Log("=== %s ===", title)
}

// LogCommand logs command execution details
func LogCommand(command string, args []string, workingDir string) {
	if !globalLogger.enabled {
		return
	}

	Log("Command: %s", command)
	if len(args) > 0 {
		Log("Arguments: %v", args)
	}
	if workingDir != "" {
		Log("Working Directory: %s", workingDir)
	}
}

// LogEnv logs the variables layered onto the inherited environment.
// Only the injected keys are printed, never the full environment.
func LogEnv(injected map[string]string) {
	if !globalLogger.enabled || len(injected) == 0 {
		return
	}

	keys := make([]string, 0, len(injected))
	for k := range injected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+injected[k])
	}
	Log("Injected Environment: %s", strings.Join(pairs, " "))
}

// LogTiming logs timing information
func LogTiming(operation string, duration time.Duration) {
	if !globalLogger.enabled {
		return
	}

	Log("Timing: %s took %s", operation, formatDuration(duration))
}

// LogSample logs one parsed measurement together with the wall-clock time
// the process took, which includes teardown the target does not report.
func LogSample(index, total int, valueMs float64, wall time.Duration) {
	if !globalLogger.enabled {
		return
	}

	Log("Sample %d/%d: first_frame=%.3fms wall=%s", index, total, valueMs, formatDuration(wall))
}

// LogOutput logs captured process output, truncated to a single line
func LogOutput(label, output string) {
	if !globalLogger.enabled {
		return
	}

	flat := strings.Join(strings.Fields(output), " ")
	Log("%s: %q", label, truncate(flat, 120))
}

// LogError logs error details
func LogError(err error, context string) {
	if !globalLogger.enabled {
		return
	}

	Log("Error in %s: %v", context, err)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
