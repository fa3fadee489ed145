package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

func TestNewWithoutURLIsNoop(t *testing.T) {
	n, err := New(Options{Subject: "pagesmith.builds"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, n)
	assert.NoError(t, n.Publish(t.Context(), BuildEvent{BuildID: "b1"}))
	assert.NoError(t, n.Close())
}

func TestNewNATSUnreachable(t *testing.T) {
	_, err := NewNATS(Options{URL: "nats://127.0.0.1:1", Subject: "pagesmith.builds"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryIntegration))
}

func TestBuildEventJSON(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(BuildEvent{
		BuildID:    "b1",
		Trigger:    "watch",
		Outcome:    "success",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		DurationMS: 1000,
		Outputs:    []string{"out/index.html"},
		Citations:  3,
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "b1", fields["build_id"])
	assert.Equal(t, "2024-05-01T12:00:00Z", fields["started_at"])
	assert.Equal(t, float64(1000), fields["duration_ms"])
	assert.NotContains(t, fields, "changed")
	assert.NotContains(t, fields, "error")
}
