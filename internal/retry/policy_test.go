package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(ModeExponential, 2*time.Second, 10*time.Second, 5)
	assert.Equal(t, ModeExponential, p.Mode)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 10*time.Second, p.Max)
	assert.Equal(t, 5, p.MaxRetries)

	clamped := NewPolicy(ModeFixed, time.Minute, time.Second, -1)
	assert.Equal(t, time.Second, clamped.Initial)
	assert.Equal(t, 2, clamped.MaxRetries)

	unknown := NewPolicy("bogus", 0, 0, 0)
	assert.Equal(t, ModeLinear, unknown.Mode)
}

func TestDelayModes(t *testing.T) {
	tests := []struct {
		mode Mode
		want []time.Duration
	}{
		{ModeFixed, []time.Duration{time.Second, time.Second, time.Second, time.Second}},
		{ModeLinear, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second}},
		{ModeExponential, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := NewPolicy(tt.mode, time.Second, 4*time.Second, 3)
			for i, want := range tt.want {
				assert.Equal(t, want, p.Delay(i+1), "retry %d", i+1)
			}
			assert.Zero(t, p.Delay(0))
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Exp ")
	require.NoError(t, err)
	assert.Equal(t, ModeExponential, m)

	_, err = ParseMode("sometimes")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := p.Do(t.Context(), func(context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoReturnsLastError(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 1)
	calls := 0
	err := p.Do(t.Context(), func(context.Context) error {
		calls++
		return stderrors.New("down")
	})
	require.EqualError(t, err, "down")
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnCancel(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Hour, time.Hour, 5)
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return stderrors.New("down")
	})
	require.EqualError(t, err, "down")
	assert.Equal(t, 1, calls)
}
