package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("pages", time.Second)
		r.ObserveBuildDuration(time.Second)
		r.IncStageResult("pages", ResultSkipped)
		r.IncBuildOutcome(BuildOutcomeCanceled)
		r.AddPagesWritten(1)
		r.AddCitations("journal", 1)
		r.SetLastBuild(time.Now())
	})
}
