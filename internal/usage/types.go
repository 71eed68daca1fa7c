// Package usage records token consumption per provider, model, and
// operation, with a rough cost estimate, persisted as JSON alongside the
// workspace config.
package usage

import "time"

// Data is the root structure stored in persistence.
type Data struct {
	Version   string          `json:"version"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// Event is a single provider transaction.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Operation    string    `json:"operation"` // suggestion, summary, embedding
	SessionID    string    `json:"session_id"`
}

// AggregatedStats holds counters broken down by dimension.
type AggregatedStats struct {
	Total       TokenCounts            `json:"total"`
	ByProvider  map[string]TokenCounts `json:"by_provider"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"`
	BySession   map[string]TokenCounts `json:"by_session"`
}

// TokenCounts holds input/output sums and an estimated spend.
type TokenCounts struct {
	Input  int64   `json:"input"`
	Output int64   `json:"output"`
	Total  int64   `json:"total"`
	Cost   float64 `json:"cost_est_usd,omitempty"`
}

func (tc *TokenCounts) Add(input, output int, cost float64) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
	tc.Cost += cost
}

// modelPrice is USD per million tokens.
type modelPrice struct {
	Input  float64
	Output float64
}

// priceTable covers the models the registry defaults to. Unlisted models
// record zero cost, not an error.
var priceTable = map[string]modelPrice{
	"gemini-2.0-flash":        {Input: 0.10, Output: 0.40},
	"gemini-embedding-001":    {Input: 0.15},
	"gpt-4o-mini":             {Input: 0.15, Output: 0.60},
	"llama-3.3-70b-versatile": {Input: 0.59, Output: 0.79},
}

func estimateCost(model string, input, output int) float64 {
	p, ok := priceTable[model]
	if !ok {
		return 0
	}
	return p.Input*float64(input)/1e6 + p.Output*float64(output)/1e6
}
