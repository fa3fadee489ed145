package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatch(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "site")
	f := Filter{
		Root:    root,
		Include: []string{"**/*.html", "**/*.bib"},
		Exclude: []string{"drafts/**"},
		Ignore:  []string{out},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"blocks/main.html", true},
		{"index.html", true},
		{"refs.bib", true},
		{"notes.txt", false},
		{"drafts/new.html", false},
		{"site/index.html", false},
		{"blocks/.main.html.swp", false},
		{"blocks/main.html~", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(filepath.Join(root, tt.path)))
		})
	}

	assert.False(t, f.Match(filepath.Join(filepath.Dir(root), "elsewhere.html")))
}

func TestFilterEmptyIncludeMatchesAll(t *testing.T) {
	root := t.TempDir()
	assert.True(t, Filter{Root: root}.Match(filepath.Join(root, "a", "b.txt")))
}

func TestRunnerCollapsesRequestsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls atomic.Int32

	r := NewRunner(func(ctx context.Context, trigger string) error {
		calls.Add(1)
		started <- struct{}{}
		<-release
		return nil
	})
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go r.Run(ctx)

	r.Request(TriggerChange)
	<-started

	// One rebuild is running; these collapse into a single pending one.
	for range 5 {
		r.Request(TriggerChange)
	}
	release <- struct{}{}
	<-started
	release <- struct{}{}

	assert.Never(t, func() bool { return calls.Load() > 2 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })
	for range 10 {
		d.Trigger()
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return calls.Load() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	assert.Never(t, func() bool { return calls.Load() > 0 }, 80*time.Millisecond, 10*time.Millisecond)
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blocks"), 0o750))

	var mu sync.Mutex
	var triggers []string
	w, err := New(Options{
		Filter:   Filter{Root: root, Include: []string{"**/*.html"}},
		Debounce: 20 * time.Millisecond,
		Initial:  true,
	}, func(_ context.Context, trigger string) error {
		mu.Lock()
		defer mu.Unlock()
		triggers = append(triggers, trigger)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	seen := func(trigger string) func() bool {
		return func() bool {
			mu.Lock()
			defer mu.Unlock()
			for _, tr := range triggers {
				if tr == trigger {
					return true
				}
			}
			return false
		}
	}
	require.Eventually(t, seen(TriggerInitial), 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "blocks", "main.html"), []byte("x"), 0o600))
	require.Eventually(t, seen(TriggerChange), 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(Options{Filter: Filter{Root: t.TempDir()}, Schedule: "not a cron"},
		func(context.Context, string) error { return nil })
	require.Error(t, err)
}

func TestNewRejectsMissingRoot(t *testing.T) {
	_, err := New(Options{Filter: Filter{Root: filepath.Join(t.TempDir(), "missing")}},
		func(context.Context, string) error { return nil })
	require.Error(t, err)
}
