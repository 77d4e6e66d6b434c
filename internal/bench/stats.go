package bench

import (
	"fmt"
	"math"
	"slices"
)

// Summary holds the samples of one benchmark and the statistics derived from them
type Summary struct {
	// Runs are the samples in launch order
	Runs []float64
	// P50 is the median of Runs
	P50 float64
	// P95 is the nearest-rank 95th percentile of Runs
	P95 float64
}

// Summarize computes the statistics for runs without reordering it
func Summarize(runs []float64) (*Summary, error) {
	sorted := slices.Clone(runs)
	slices.Sort(sorted)

	p50, err := Median(sorted)
	if err != nil {
		return nil, err
	}
	p95, err := Percentile(sorted, 0.95)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Runs: slices.Clone(runs),
		P50:  p50,
		P95:  p95,
	}, nil
}

// Median returns the median of an ascending slice: the middle value for odd
// lengths, the mean of the two middle values for even lengths.
func Median(sorted []float64) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return 0, newError(KindEmptyInput, "median", fmt.Errorf("median of empty sequence"))
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Percentile returns the nearest-rank percentile p, in (0, 1], of an
// ascending slice: the element at index max(0, ceil(p*len)-1).
func Percentile(sorted []float64, p float64) (float64, error) {
	if len(sorted) == 0 {
		return 0, newError(KindEmptyInput, fmt.Sprintf("p%g", p*100), fmt.Errorf("percentile of empty sequence"))
	}
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return 0, fmt.Errorf("percentile fraction must be in (0, 1], got %g", p)
	}
	return sorted[PercentileIndex(len(sorted), p)], nil
}

// PercentileIndex is the 0-based nearest-rank index for fraction p over n
// elements, clamped to [0, n-1].
func PercentileIndex(n int, p float64) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	return max(0, min(idx, n-1))
}
