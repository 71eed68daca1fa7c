package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RateLimitError reports a 429 with the backoff the backend asked for.
type RateLimitError struct {
	Provider string
	Delay    time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, retry after %s", e.Provider, e.Delay)
}

// StatusError reports a non-2xx, non-429 response.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, truncateForLog(e.Body))
}

func truncateForLog(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// Result is a decoded 2xx generation response.
type Result struct {
	Text  string
	Usage Usage
}

// Client executes adapter-built requests against a backend.
type Client struct {
	hc  *http.Client
	log *zap.Logger
}

func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		hc:  &http.Client{Timeout: timeout},
		log: log,
	}
}

// Do builds the provider-shaped request, sends it, and decodes the result.
// A 429 comes back as *RateLimitError with the parsed delay; other non-2xx
// statuses come back as *StatusError.
func (c *Client) Do(ctx context.Context, info Info, apiKey string, req Request) (*Result, error) {
	hreq, err := BuildRequest(info, apiKey, req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, hreq.URL, bytes.NewReader(hreq.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header = hreq.Header

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", info.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", info.Name, err)
	}

	c.log.Debug("provider call",
		zap.String("provider", info.Name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			Provider: info.Name,
			Delay:    RetryDelay(info.Family, body, resp.Header),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Provider: info.Name, Code: resp.StatusCode, Body: string(body)}
	}

	text, err := ExtractText(info.Family, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.Name, err)
	}
	return &Result{Text: text, Usage: ExtractUsage(info.Family, body)}, nil
}
