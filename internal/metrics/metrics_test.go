package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bebsworthy/startbench/internal/bench"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	m := New()
	m.Record("ralph", &bench.Summary{Runs: []float64{4, 1, 3, 2}, P50: 2.5, P95: 4})

	assert.Equal(t, 2.5, testutil.ToFloat64(m.FirstFrame.WithLabelValues("ralph", "0.5")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.FirstFrame.WithLabelValues("ralph", "0.95")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Runs.WithLabelValues("ralph")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Samples))
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startbench.prom")

	require.NoError(t, Export(path, "ralph", &bench.Summary{Runs: []float64{10, 20}, P50: 15, P95: 20}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `startbench_first_frame_ms{quantile="0.5",target="ralph"} 15`)
	assert.Contains(t, text, `startbench_first_frame_ms{quantile="0.95",target="ralph"} 20`)
	assert.Contains(t, text, `startbench_runs{target="ralph"} 2`)
	assert.Contains(t, text, `startbench_first_frame_samples_ms_count{target="ralph"} 2`)
	assert.Contains(t, text, `startbench_first_frame_samples_ms_sum{target="ralph"} 30`)
}

func TestExport_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startbench.prom")

	require.NoError(t, Export(path, "ralph", &bench.Summary{Runs: []float64{1}, P50: 1, P95: 1}))
	require.NoError(t, Export(path, "ralph", &bench.Summary{Runs: []float64{9}, P50: 9, P95: 9}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `startbench_first_frame_ms{quantile="0.5",target="ralph"} 1`+"\n")
	assert.Contains(t, string(data), `startbench_runs{target="ralph"} 1`)
	assert.Contains(t, string(data), `startbench_first_frame_ms{quantile="0.5",target="ralph"} 9`)
}

func TestExport_BadDirectory(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"), "ralph", &bench.Summary{})
	assert.Error(t, err)
}
