package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkRecordsSuggestions(t *testing.T) {
	t.Parallel()

	sink := NewMemorySink()
	ctx := context.Background()

	require.NoError(t, sink.RecordSuggestion(ctx, SuggestionRecord{
		SessionID: "s1",
		Text:      "Ask about their timeline.",
		Type:      "question",
		Timestamp: time.Now(),
	}))
	require.NoError(t, sink.RecordSuggestion(ctx, SuggestionRecord{
		SessionID: "s1",
		Text:      "Mention the annual discount.",
		Type:      "answer",
	}))
	require.NoError(t, sink.RecordSuggestion(ctx, SuggestionRecord{
		SessionID: "s2",
		Text:      "other session",
	}))

	got := sink.Suggestions("s1")
	require.Len(t, got, 2)
	assert.Equal(t, "Ask about their timeline.", got[0].Text)
	assert.Len(t, sink.Suggestions("s2"), 1)
	assert.Empty(t, sink.Suggestions("s3"))
}

func TestMemorySinkRecordsSummary(t *testing.T) {
	t.Parallel()

	sink := NewMemorySink()
	_, ok := sink.Summary("s1")
	assert.False(t, ok)

	require.NoError(t, sink.RecordSummary(context.Background(), SummaryRecord{
		SessionID:       "s1",
		Summary:         []byte(`{"topics":[]}`),
		TranscriptCount: 12,
	}))

	rec, ok := sink.Summary("s1")
	require.True(t, ok)
	assert.Equal(t, 12, rec.TranscriptCount)
}

func TestMemorySinkSuggestionsReturnsCopy(t *testing.T) {
	t.Parallel()

	sink := NewMemorySink()
	require.NoError(t, sink.RecordSuggestion(context.Background(), SuggestionRecord{SessionID: "s1", Text: "a"}))

	got := sink.Suggestions("s1")
	got[0].Text = "mutated"
	assert.Equal(t, "a", sink.Suggestions("s1")[0].Text)
}
