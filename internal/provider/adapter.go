package provider

import (
	"fmt"
	"net/http"
	"time"
)

// Role labels for format-neutral messages. The adapter maps these onto the
// family's own role vocabulary ("model" vs "assistant").
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn in the format-neutral request.
type Message struct {
	Role    string
	Content string
}

// Request is the format-neutral instruction handed to the adapter. Either
// SystemPrompt+Messages (conversation shape) or Prompt (standalone shape,
// used by the summary path) is set, never both.
type Request struct {
	SystemPrompt string
	Messages     []Message
	Prompt       string
	Model        string
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// HTTPRequest is the provider-shaped outgoing call.
type HTTPRequest struct {
	URL    string
	Header http.Header
	Body   []byte
}

// Usage holds the token counts extracted from a provider response.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// defaultRetryDelay applies when a 429 carries no parseable delay.
const defaultRetryDelay = 60 * time.Second

// BuildRequest produces the provider-shaped HTTP request for the given
// backend. Dispatch is by family membership only.
func BuildRequest(info Info, apiKey string, req Request) (HTTPRequest, error) {
	model := req.Model
	if model == "" {
		model = info.DefaultModel
	}
	switch info.Family {
	case FamilyNative:
		return buildNativeRequest(info, apiKey, model, req)
	case FamilyOpenAI:
		return buildOpenAIRequest(info, apiKey, model, req)
	default:
		return HTTPRequest{}, fmt.Errorf("unsupported provider family %q", info.Family)
	}
}

// ExtractText pulls the generated text out of a 2xx response body. An empty
// string with a nil error means the provider answered with no content.
func ExtractText(family Family, body []byte) (string, error) {
	switch family {
	case FamilyNative:
		return extractNativeText(body)
	case FamilyOpenAI:
		return extractOpenAIText(body)
	default:
		return "", fmt.Errorf("unsupported provider family %q", family)
	}
}

// ExtractUsage pulls token counts out of a 2xx response body. Missing usage
// blocks yield zero counts, not an error.
func ExtractUsage(family Family, body []byte) Usage {
	switch family {
	case FamilyNative:
		return extractNativeUsage(body)
	case FamilyOpenAI:
		return extractOpenAIUsage(body)
	default:
		return Usage{}
	}
}

// RetryDelay extracts the backoff a 429 response asks for. Family native
// embeds it in a structured field of the JSON error body; the OpenAI family
// sends a Retry-After header and never puts it in the body. Unparseable
// responses fall back to a fixed default.
func RetryDelay(family Family, body []byte, header http.Header) time.Duration {
	switch family {
	case FamilyNative:
		if d, ok := parseNativeRetryDelay(body); ok {
			return d
		}
	case FamilyOpenAI:
		if d, ok := parseRetryAfterHeader(header); ok {
			return d
		}
	}
	return defaultRetryDelay
}
