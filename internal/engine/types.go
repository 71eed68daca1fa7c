// Package engine owns the per-call decision logic: when a transcript line
// earns a generation attempt, how the attempt runs, and what comes back to
// the caller. One Session exists per active call and nothing is shared
// between sessions.
package engine

import "time"

// SilenceSentinel is the exact reserved string a model returns to mean "no
// suggestion warranted." Compared after trimming, never fuzzily.
const SilenceSentinel = "NO_SUGGESTION"

// suggestionConfidence is a fixed placeholder; no model-reported signal is
// available to derive a real one from.
const suggestionConfidence = 0.85

// SuggestionType is derived by content sniffing, never reported by the model.
type SuggestionType string

const (
	TypeAnswer    SuggestionType = "answer"
	TypeQuestion  SuggestionType = "question"
	TypeObjection SuggestionType = "objection"
	TypeInfo      SuggestionType = "info"
)

// Turn is one line of conversation history. Kept in a bounded ring, never
// persisted.
type Turn struct {
	Speaker   string
	Text      string
	Timestamp time.Time
}

// Suggestion is the engine's sole output for a transcript line. Immutable
// once produced.
type Suggestion struct {
	Text       string
	Confidence float64
	Type       SuggestionType
	Source     string
	Timestamp  time.Time
	KBSource   string
}

// ActionItem is one owner-attributed follow-up from the call summary.
type ActionItem struct {
	Owner string `json:"owner"`
	Text  string `json:"text"`
}

// KeyMoment is one notable point in the call.
type KeyMoment struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// SummaryMetadata describes the call the summary covers.
type SummaryMetadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	SpeakerCount    int     `json:"speaker_count"`
	TranscriptCount int     `json:"transcript_count"`
}

// CallSummary is the end-of-call artifact. Built once; a shape-invalid
// model response discards the whole thing rather than salvaging parts.
type CallSummary struct {
	Topics      []string        `json:"topics"`
	ActionItems []ActionItem    `json:"actionItems"`
	KeyMoments  []KeyMoment     `json:"keyMoments"`
	Metadata    SummaryMetadata `json:"metadata"`
}
