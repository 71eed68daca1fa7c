package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultEmbedBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiEmbedder calls the Gemini embedContent endpoints.
type GeminiEmbedder struct {
	baseURL string
	model   string
	apiKey  string
	hc      *http.Client
	backoff time.Duration
	log     *zap.Logger
}

func NewGeminiEmbedder(model, apiKey string, log *zap.Logger) *GeminiEmbedder {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiEmbedder{
		baseURL: defaultEmbedBaseURL,
		model:   model,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 15 * time.Second},
		backoff: time.Second,
		log:     log,
	}
}

type embedPart struct {
	Text string `json:"text"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

func newEmbedContent(text string) embedContent {
	return embedContent{Parts: []embedPart{{Text: text}}}
}

type embedRequest struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// EmbedQuery embeds a single query text. Single-shot, no retries; query
// embedding sits on the suggestion hot path and a failure there is absorbed
// upstream anyway.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", e.baseURL, e.model, e.apiKey)
	body, err := json.Marshal(embedRequest{
		Model:   "models/" + e.model,
		Content: newEmbedContent(text),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	respBody, err := e.post(ctx, url, body)
	if err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds a batch of texts for ingestion. Bulk embedding is an
// offline path, so transient failures retry with a doubling backoff before
// giving up.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqs := make([]embedRequest, 0, len(texts))
	for _, t := range texts {
		reqs = append(reqs, embedRequest{
			Model:   "models/" + e.model,
			Content: newEmbedContent(t),
		})
	}
	body, err := json.Marshal(batchEmbedRequest{Requests: reqs})
	if err != nil {
		return nil, fmt.Errorf("marshal batch embed request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s", e.baseURL, e.model, e.apiKey)

	var respBody []byte
	backoff := e.backoff
	for attempt := 1; ; attempt++ {
		respBody, err = e.post(ctx, url, body)
		if err == nil {
			break
		}
		if attempt >= 3 {
			return nil, fmt.Errorf("batch embed after %d attempts: %w", attempt, err)
		}
		e.log.Warn("batch embed attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}

	var resp batchEmbedResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode batch embed response: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}

func (e *GeminiEmbedder) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embed endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embed endpoint returned status %d", resp.StatusCode)
	}
	return respBody, nil
}

var _ Embedder = (*GeminiEmbedder)(nil)
