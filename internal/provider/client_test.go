package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInfo(url string) Info {
	return Info{
		Name:         "groq",
		Family:       FamilyOpenAI,
		BaseURL:      url,
		DefaultModel: "llama-3.3-70b-versatile",
	}
}

func TestClientDoSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"choices":[{"message":{"role":"assistant","content":"Ask about budget."}}],
			"usage":{"prompt_tokens":50,"completion_tokens":8}
		}`))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, nil)
	res, err := c.Do(context.Background(), testInfo(srv.URL), "k", Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Ask about budget.", res.Text)
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 8}, res.Usage)
}

func TestClientDoRateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "9")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, nil)
	_, err := c.Do(context.Background(), testInfo(srv.URL), "k", Request{Prompt: "hi"})
	require.Error(t, err)

	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 9*time.Second, rle.Delay)
	assert.Equal(t, "groq", rle.Provider)
}

func TestClientDoStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"backend exploded"}}`))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, nil)
	_, err := c.Do(context.Background(), testInfo(srv.URL), "k", Request{Prompt: "hi"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Contains(t, se.Body, "backend exploded")
}

func TestClientDoContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(5*time.Second, nil)
	_, err := c.Do(ctx, testInfo(srv.URL), "k", Request{Prompt: "hi"})
	require.Error(t, err)
}
