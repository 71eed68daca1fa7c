// Package kb retrieves knowledge-base context for suggestion prompts. The
// store is vector-backed; lookups embed the query text and run a filtered
// similarity search. Every failure in this package is absorbed by callers,
// retrieval is strictly best-effort.
package kb

import "context"

// Result is the outcome of one retrieval.
type Result struct {
	// Matched reports whether any chunk cleared the score threshold.
	Matched bool

	// Context is the concatenated chunk text, ready to prepend to a prompt.
	Context string

	// Source names the source document of the best-scoring chunk.
	Source string
}

// Searcher retrieves context for a query, optionally restricted to a set of
// source ids. An empty source set means unrestricted.
type Searcher interface {
	Search(ctx context.Context, query string, sourceIDs []string) (Result, error)
	Close() error
}

// Chunk is one ingestible piece of source material.
type Chunk struct {
	ID       string
	SourceID string
	Content  string
}

// Embedder turns text into vectors. Implementations talk to an external
// embedding endpoint.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
