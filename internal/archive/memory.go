package archive

import (
	"context"
	"sync"
)

// MemorySink keeps records in process memory. Default sink, also used by
// tests and the simulator.
type MemorySink struct {
	mu          sync.Mutex
	suggestions map[string][]SuggestionRecord
	summaries   map[string]SummaryRecord
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		suggestions: make(map[string][]SuggestionRecord),
		summaries:   make(map[string]SummaryRecord),
	}
}

func (m *MemorySink) RecordSuggestion(ctx context.Context, rec SuggestionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions[rec.SessionID] = append(m.suggestions[rec.SessionID], rec)
	return nil
}

func (m *MemorySink) RecordSummary(ctx context.Context, rec SummaryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[rec.SessionID] = rec
	return nil
}

// Suggestions returns the archived suggestions for a session.
func (m *MemorySink) Suggestions(sessionID string) []SuggestionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SuggestionRecord, len(m.suggestions[sessionID]))
	copy(out, m.suggestions[sessionID])
	return out
}

// Summary returns the archived summary for a session, if any.
func (m *MemorySink) Summary(sessionID string) (SummaryRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.summaries[sessionID]
	return rec, ok
}

func (m *MemorySink) Close() error { return nil }

var _ Sink = (*MemorySink)(nil)
