package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Tracker accumulates usage events and persists aggregates to disk.
type Tracker struct {
	mu       sync.Mutex
	data     Data
	filePath string
}

// NewTracker opens (or initializes) the usage file at path. A corrupt or
// missing file starts fresh rather than failing; usage accounting is never
// worth blocking a session over.
func NewTracker(path string) *Tracker {
	t := &Tracker{
		filePath: path,
		data: Data{
			Version: "1.0",
			Aggregate: AggregatedStats{
				ByProvider:  make(map[string]TokenCounts),
				ByModel:     make(map[string]TokenCounts),
				ByOperation: make(map[string]TokenCounts),
				BySession:   make(map[string]TokenCounts),
			},
		},
	}
	t.load()
	return t
}

func (t *Tracker) load() {
	b, err := os.ReadFile(t.filePath)
	if err != nil {
		return
	}
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return
	}
	t.data = data
	if t.data.Aggregate.ByProvider == nil {
		t.data.Aggregate.ByProvider = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.ByModel == nil {
		t.data.Aggregate.ByModel = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.ByOperation == nil {
		t.data.Aggregate.ByOperation = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.BySession == nil {
		t.data.Aggregate.BySession = make(map[string]TokenCounts)
	}
}

// Track records one event against every aggregate dimension.
func (t *Tracker) Track(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cost := estimateCost(ev.Model, ev.InputTokens, ev.OutputTokens)
	t.data.Aggregate.Total.Add(ev.InputTokens, ev.OutputTokens, cost)
	addToMap(t.data.Aggregate.ByProvider, ev.Provider, ev.InputTokens, ev.OutputTokens, cost)
	addToMap(t.data.Aggregate.ByModel, ev.Model, ev.InputTokens, ev.OutputTokens, cost)
	addToMap(t.data.Aggregate.ByOperation, ev.Operation, ev.InputTokens, ev.OutputTokens, cost)
	if ev.SessionID != "" {
		addToMap(t.data.Aggregate.BySession, ev.SessionID, ev.InputTokens, ev.OutputTokens, cost)
	}
}

// Save writes the aggregates to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal usage: %w", err)
	}
	if err := os.WriteFile(t.filePath, b, 0o644); err != nil {
		return fmt.Errorf("write usage: %w", err)
	}
	return nil
}

// Stats returns a copy of the aggregates.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := t.data.Aggregate
	stats.ByProvider = copyCounts(stats.ByProvider)
	stats.ByModel = copyCounts(stats.ByModel)
	stats.ByOperation = copyCounts(stats.ByOperation)
	stats.BySession = copyCounts(stats.BySession)
	return stats
}

func addToMap(m map[string]TokenCounts, key string, input, output int, cost float64) {
	entry := m[key]
	entry.Add(input, output, cost)
	m[key] = entry
}

func copyCounts(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
