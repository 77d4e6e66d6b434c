// Package metrics exports a benchmark summary in the Prometheus text format,
// suitable for the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/bebsworthy/startbench/internal/bench"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one benchmark invocation
type Metrics struct {
	registry *prometheus.Registry

	FirstFrame *prometheus.GaugeVec
	Samples    *prometheus.HistogramVec
	Runs       *prometheus.GaugeVec
}

// New creates collectors registered on a private registry
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.FirstFrame = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "startbench_first_frame_ms",
			Help: "Startup latency quantiles reported by the target, in milliseconds",
		},
		[]string{"target", "quantile"},
	)

	m.Samples = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "startbench_first_frame_samples_ms",
			Help:    "Individual startup latency samples, in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
		[]string{"target"},
	)

	m.Runs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "startbench_runs",
			Help: "Number of target launches in the benchmark",
		},
		[]string{"target"},
	)

	m.registry.MustRegister(m.FirstFrame, m.Samples, m.Runs)
	return m
}

// Record loads a summary into the collectors
func (m *Metrics) Record(target string, s *bench.Summary) {
	m.FirstFrame.WithLabelValues(target, "0.5").Set(s.P50)
	m.FirstFrame.WithLabelValues(target, "0.95").Set(s.P95)
	m.Runs.WithLabelValues(target).Set(float64(len(s.Runs)))
	for _, v := range s.Runs {
		m.Samples.WithLabelValues(target).Observe(v)
	}
}

// WriteFile writes the collected metrics to path, replacing it atomically
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Export records s for target and writes it to path
func Export(path, target string, s *bench.Summary) error {
	m := New()
	m.Record(target, s)
	return m.WriteFile(path)
}
