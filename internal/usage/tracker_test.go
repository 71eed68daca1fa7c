package usage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerAggregates(t *testing.T) {
	t.Parallel()

	tr := NewTracker(filepath.Join(t.TempDir(), "usage.json"))
	tr.Track(Event{
		Timestamp:    time.Now(),
		Provider:     "gemini",
		Model:        "gemini-2.0-flash",
		InputTokens:  1000,
		OutputTokens: 200,
		Operation:    "suggestion",
		SessionID:    "s1",
	})
	tr.Track(Event{
		Provider:     "groq",
		Model:        "llama-3.3-70b-versatile",
		InputTokens:  500,
		OutputTokens: 100,
		Operation:    "summary",
		SessionID:    "s1",
	})

	stats := tr.Stats()
	assert.Equal(t, int64(1500), stats.Total.Input)
	assert.Equal(t, int64(300), stats.Total.Output)
	assert.Equal(t, int64(1800), stats.Total.Total)
	assert.Equal(t, int64(1200), stats.ByProvider["gemini"].Total)
	assert.Equal(t, int64(600), stats.ByOperation["summary"].Total)
	assert.Equal(t, int64(1800), stats.BySession["s1"].Total)
	assert.Greater(t, stats.Total.Cost, 0.0)
}

func TestTrackerPersistsAndReloads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "usage.json")

	tr := NewTracker(path)
	tr.Track(Event{Provider: "gemini", Model: "gemini-2.0-flash", InputTokens: 10, OutputTokens: 5, Operation: "suggestion"})
	require.NoError(t, tr.Save())

	reloaded := NewTracker(path)
	stats := reloaded.Stats()
	assert.Equal(t, int64(15), stats.Total.Total)
	assert.Equal(t, int64(15), stats.ByProvider["gemini"].Total)
}

func TestTrackerMissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	tr := NewTracker(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, int64(0), tr.Stats().Total.Total)
}

func TestTrackerUnknownModelZeroCost(t *testing.T) {
	t.Parallel()

	tr := NewTracker(filepath.Join(t.TempDir(), "usage.json"))
	tr.Track(Event{Provider: "openai", Model: "gpt-99", InputTokens: 1000, OutputTokens: 1000, Operation: "suggestion"})
	assert.Equal(t, 0.0, tr.Stats().Total.Cost)
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short ascii", "word", 1},
		{"ascii sentence", "The quick brown fox jumps over.", 8},
		{"cjk", "你好世界", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, EstimateTokens(tc.text))
		})
	}
}
