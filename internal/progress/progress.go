// Package progress draws a terminal spinner while long steps such as the
// build are running.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Indicator shows that a step is in progress
type Indicator interface {
	// Start begins showing progress with the given message
	Start(message string)
	// Stop removes the indicator; it is safe to call when not started
	Stop()
}

// spinnerFrames defines the animation frames for the spinner
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 100 * time.Millisecond

// New returns a spinner drawing to f when f is a terminal, otherwise an
// indicator that prints nothing.
func New(f *os.File) Indicator {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return Noop{}
	}
	return NewSpinner(f)
}

// Noop is an Indicator that does nothing
type Noop struct{}

// Start implements Indicator
func (Noop) Start(string) {}

// Stop implements Indicator
func (Noop) Stop() {}

// Spinner animates a message with elapsed time on a single line
type Spinner struct {
	mu          sync.Mutex
	writer      io.Writer
	message     string
	startTime   time.Time
	running     bool
	stopChan    chan struct{}
	doneChan    chan struct{}
	spinnerIdx  int
	lastLineLen int
}

// NewSpinner creates a spinner that always draws to w
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{writer: w}
}

// Start implements Indicator. Starting a running spinner only updates its message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.running {
		return
	}
	s.running = true
	s.startTime = time.Now()
	s.spinnerIdx = 0
	s.lastLineLen = 0
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})

	s.drawLocked()
	go s.displayLoop(s.stopChan, s.doneChan)
}

// Stop implements Indicator and clears the spinner line
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stopChan, s.doneChan
	s.mu.Unlock()

	close(stop)
	<-done

	s.mu.Lock()
	s.clearLineLocked()
	s.mu.Unlock()
}

func (s *Spinner) displayLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.running {
				s.drawLocked()
			}
			s.mu.Unlock()
		}
	}
}

// drawLocked renders the current frame (must be called with lock held)
func (s *Spinner) drawLocked() {
	frame := spinnerFrames[s.spinnerIdx]
	s.spinnerIdx = (s.spinnerIdx + 1) % len(spinnerFrames)

	line := fmt.Sprintf("\r%s %s [%s]", frame, s.message, formatElapsed(time.Since(s.startTime)))
	if len(line) < s.lastLineLen {
		s.clearLineLocked()
	}
	s.lastLineLen = len(line)

	fmt.Fprint(s.writer, line) //nolint:errcheck // Display error is non-critical
}

// clearLineLocked clears the current line (must be called with lock held)
func (s *Spinner) clearLineLocked() {
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", s.lastLineLen)) //nolint:errcheck // Display error is non-critical
}

// formatElapsed formats a duration as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
