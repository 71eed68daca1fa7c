package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoineDubuc/wingman-ai/internal/provider"
	"github.com/AntoineDubuc/wingman-ai/internal/usage"
)

func TestUsageEstimatedWhenProviderOmitsCounts(t *testing.T) {
	t.Parallel()

	tracker := usage.NewTracker(filepath.Join(t.TempDir(), "usage.json"))
	caller := &mockCaller{
		respond: func(provider.Request) (*provider.Result, error) {
			return &provider.Result{Text: "Mention the annual discount."}, nil
		},
	}
	opts := testOptions(caller, newFakeClock())
	opts.Usage = tracker
	s := NewSession(opts)

	got := s.ProcessTranscript(context.Background(), "we need to think about budget", "customer", true)
	require.NotNil(t, got)

	stats := tracker.Stats()
	assert.Greater(t, stats.Total.Input, int64(0))
	assert.Greater(t, stats.Total.Output, int64(0))
}

func TestUsageReportedCountsPreferred(t *testing.T) {
	t.Parallel()

	tracker := usage.NewTracker(filepath.Join(t.TempDir(), "usage.json"))
	caller := &mockCaller{
		respond: func(provider.Request) (*provider.Result, error) {
			return &provider.Result{
				Text:  "Mention the annual discount.",
				Usage: provider.Usage{InputTokens: 77, OutputTokens: 11},
			}, nil
		},
	}
	opts := testOptions(caller, newFakeClock())
	opts.Usage = tracker
	s := NewSession(opts)

	require.NotNil(t, s.ProcessTranscript(context.Background(), "we need to think about budget", "customer", true))

	stats := tracker.Stats()
	assert.Equal(t, int64(77), stats.Total.Input)
	assert.Equal(t, int64(11), stats.Total.Output)
}
