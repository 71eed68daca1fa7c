package kb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmbedder(t *testing.T, handler http.Handler) (*GeminiEmbedder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e := NewGeminiEmbedder("gemini-embedding-001", "test-key", nil)
	e.baseURL = srv.URL
	e.backoff = time.Millisecond
	return e, srv
}

func TestEmbedQuery(t *testing.T) {
	t.Parallel()

	e, _ := testEmbedder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":embedContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "models/gemini-embedding-001", req.Model)
		assert.Equal(t, "pricing objection", req.Content.Parts[0].Text)

		json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.1, 0.2, 0.3}},
		})
	}))

	vec, err := e.EmbedQuery(context.Background(), "pricing objection")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedQueryEmptyEmbedding(t *testing.T) {
	t.Parallel()

	e, _ := testEmbedder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":{"values":[]}}`))
	}))

	_, err := e.EmbedQuery(context.Background(), "x")
	require.Error(t, err)
}

func TestEmbedBatchRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	e, _ := testEmbedder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": []map[string]any{
				{"values": []float32{0.1}},
				{"values": []float32{0.2}},
			},
		})
	}))

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbedBatchGivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	e, _ := testEmbedder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := e.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	t.Parallel()

	e, _ := testEmbedder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings":[{"values":[0.1]}]}`))
	}))

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	t.Parallel()

	e := NewGeminiEmbedder("gemini-embedding-001", "k", nil)
	vecs, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}
