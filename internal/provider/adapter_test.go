package provider

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiInfo(t *testing.T) Info {
	t.Helper()
	info, err := Lookup("gemini")
	require.NoError(t, err)
	return info
}

func groqInfo(t *testing.T) Info {
	t.Helper()
	info, err := Lookup("groq")
	require.NoError(t, err)
	return info
}

func TestBuildRequestNativeShape(t *testing.T) {
	t.Parallel()

	req := Request{
		SystemPrompt: "You are a sales assistant.",
		Messages: []Message{
			{Role: RoleUser, Content: "They asked about pricing."},
			{Role: RoleAssistant, Content: "Mention the annual discount."},
			{Role: RoleUser, Content: "What about support tiers?"},
		},
		Model:       "gemini-2.0-flash",
		MaxTokens:   256,
		Temperature: 0.7,
	}

	hreq, err := BuildRequest(geminiInfo(t), "test-key", req)
	require.NoError(t, err)

	assert.Contains(t, hreq.URL, "models/gemini-2.0-flash:generateContent")
	assert.Contains(t, hreq.URL, "key=test-key")
	assert.Empty(t, hreq.Header.Get("Authorization"))

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(hreq.Body, &payload))

	// System prompt lives in its own field, never in the turn list.
	require.Contains(t, payload, "systemInstruction")
	assert.NotContains(t, string(payload["contents"]), "sales assistant")

	var contents []nativeContent
	require.NoError(t, json.Unmarshal(payload["contents"], &contents))
	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "Mention the annual discount.", contents[1].Parts[0].Text)

	var full nativeRequest
	require.NoError(t, json.Unmarshal(hreq.Body, &full))
	require.NotNil(t, full.GenerationConfig)
	assert.Equal(t, 256, full.GenerationConfig.MaxOutputTokens)
	assert.Empty(t, full.GenerationConfig.ResponseMimeType)
}

func TestBuildRequestNativeJSONMode(t *testing.T) {
	t.Parallel()

	hreq, err := BuildRequest(geminiInfo(t), "k", Request{
		Prompt:   "Summarize the call.",
		JSONMode: true,
	})
	require.NoError(t, err)

	var full nativeRequest
	require.NoError(t, json.Unmarshal(hreq.Body, &full))
	require.NotNil(t, full.GenerationConfig)
	assert.Equal(t, "application/json", full.GenerationConfig.ResponseMimeType)
	require.Len(t, full.Contents, 1)
	assert.Equal(t, "Summarize the call.", full.Contents[0].Parts[0].Text)
	assert.Nil(t, full.SystemInstruction)
}

func TestBuildRequestOpenAIShape(t *testing.T) {
	t.Parallel()

	req := Request{
		SystemPrompt: "You are a sales assistant.",
		Messages: []Message{
			{Role: RoleUser, Content: "They asked about pricing."},
			{Role: RoleAssistant, Content: "Mention the annual discount."},
		},
		Model:       "llama-3.3-70b-versatile",
		MaxTokens:   256,
		Temperature: 0.7,
		JSONMode:    true,
	}

	hreq, err := BuildRequest(groqInfo(t), "test-key", req)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(hreq.URL, "/chat/completions"))
	assert.NotContains(t, hreq.URL, "test-key")
	assert.Equal(t, "Bearer test-key", hreq.Header.Get("Authorization"))

	var payload openAIRequest
	require.NoError(t, json.Unmarshal(hreq.Body, &payload))
	require.Len(t, payload.Messages, 3)
	assert.Equal(t, "system", payload.Messages[0].Role)
	assert.Equal(t, "You are a sales assistant.", payload.Messages[0].Content)
	assert.Equal(t, "assistant", payload.Messages[2].Role)
	assert.Equal(t, 256, payload.MaxTokens)
	require.NotNil(t, payload.ResponseFormat)
	assert.Equal(t, "json_object", payload.ResponseFormat.Type)
}

func TestBuildRequestDefaultModel(t *testing.T) {
	t.Parallel()

	hreq, err := BuildRequest(geminiInfo(t), "k", Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Contains(t, hreq.URL, "models/gemini-2.0-flash:")
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		family Family
		body   string
		want   string
	}{
		{
			name:   "native",
			family: FamilyNative,
			body:   `{"candidates":[{"content":{"parts":[{"text":"Ask about their timeline."}]}}]}`,
			want:   "Ask about their timeline.",
		},
		{
			name:   "native empty candidates",
			family: FamilyNative,
			body:   `{"candidates":[]}`,
			want:   "",
		},
		{
			name:   "openai",
			family: FamilyOpenAI,
			body:   `{"choices":[{"message":{"role":"assistant","content":"Ask about their timeline."}}]}`,
			want:   "Ask about their timeline.",
		},
		{
			name:   "openai empty choices",
			family: FamilyOpenAI,
			body:   `{"choices":[]}`,
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractText(tc.family, []byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractUsage(t *testing.T) {
	t.Parallel()

	native := []byte(`{"usageMetadata":{"promptTokenCount":120,"candidatesTokenCount":34}}`)
	got := ExtractUsage(FamilyNative, native)
	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 34}, got)

	openai := []byte(`{"usage":{"prompt_tokens":120,"completion_tokens":34}}`)
	got = ExtractUsage(FamilyOpenAI, openai)
	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 34}, got)

	assert.Equal(t, Usage{}, ExtractUsage(FamilyNative, []byte(`{}`)))
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		family Family
		body   string
		header http.Header
		want   time.Duration
	}{
		{
			name:   "native retry info in body",
			family: FamilyNative,
			body: `{"error":{"code":429,"details":[
				{"@type":"type.googleapis.com/google.rpc.ErrorInfo"},
				{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"7s"}
			]}}`,
			want: 7 * time.Second,
		},
		{
			name:   "native unparseable body falls back",
			family: FamilyNative,
			body:   `overloaded`,
			want:   60 * time.Second,
		},
		{
			name:   "openai retry-after header",
			family: FamilyOpenAI,
			body:   `{"error":{"message":"rate limit"}}`,
			header: http.Header{"Retry-After": []string{"12"}},
			want:   12 * time.Second,
		},
		{
			name:   "openai missing header falls back",
			family: FamilyOpenAI,
			body:   `{"error":{"message":"rate limit"}}`,
			want:   60 * time.Second,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := tc.header
			if h == nil {
				h = http.Header{}
			}
			assert.Equal(t, tc.want, RetryDelay(tc.family, []byte(tc.body), h))
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()

	_, err := Lookup("acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
