// Package archive persists what a session produced: every emitted
// suggestion and the end-of-call summary. Archiving is fire-and-forget;
// callers log sink errors and move on.
package archive

import (
	"context"
	"time"
)

// SuggestionRecord is one archived suggestion.
type SuggestionRecord struct {
	SessionID  string    `json:"session_id"`
	Text       string    `json:"text"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	KBSource   string    `json:"kb_source,omitempty"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// SummaryRecord is the archived end-of-call summary, stored as the raw
// validated JSON plus headline metadata.
type SummaryRecord struct {
	SessionID       string    `json:"session_id"`
	Summary         []byte    `json:"summary"`
	DurationSeconds float64   `json:"duration_seconds"`
	TranscriptCount int       `json:"transcript_count"`
	Timestamp       time.Time `json:"timestamp"`
}

// Sink receives session artifacts.
type Sink interface {
	RecordSuggestion(ctx context.Context, rec SuggestionRecord) error
	RecordSummary(ctx context.Context, rec SummaryRecord) error
	Close() error
}
