package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("pages", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddPagesWritten(3)
	pr.AddCitations("journal", 2)
	pr.AddCitations("journal", 1)
	pr.SetLastBuild(time.Unix(1700000000, 0))

	assert.Equal(t, 3.0, testutil.ToFloat64(pr.pagesWritten))
	assert.Equal(t, 3.0, testutil.ToFloat64(pr.citations.WithLabelValues("journal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(pr.lastBuild))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.AddPagesWritten(1)
		pr.SetLastBuild(time.Now())
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.AddPagesWritten(2)

	path := filepath.Join(t.TempDir(), "textfile", "pagesmith.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pagesmith_pages_written_total 2")

	assert.NoError(t, WriteTextfile(reg, ""))
}
