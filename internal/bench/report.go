package bench

import (
	"fmt"
	"io"
)

// Reporter writes the human-readable benchmark report
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Sample prints the progress line for run index (1-based) of total
func (r *Reporter) Sample(index, total int, valueMs float64) {
	fmt.Fprintf(r.w, "run %d/%d: %.2f ms\n", index, total, valueMs) //nolint:errcheck // Report output is best effort
}

// Summary prints the p50 and p95 lines
func (r *Reporter) Summary(s *Summary) {
	fmt.Fprintf(r.w, "p50: %.2f ms\n", s.P50) //nolint:errcheck // Report output is best effort
	fmt.Fprintf(r.w, "p95: %.2f ms\n", s.P95) //nolint:errcheck // Report output is best effort
}
