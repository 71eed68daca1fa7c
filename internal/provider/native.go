package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gemini generateContent wire shapes. The system prompt rides in its own
// systemInstruction field, turns are parts-based, and the assistant role is
// called "model" on this wire.

type nativePart struct {
	Text string `json:"text"`
}

type nativeContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []nativePart `json:"parts"`
}

type nativeGenerationConfig struct {
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type nativeRequest struct {
	Contents          []nativeContent         `json:"contents"`
	SystemInstruction *nativeContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *nativeGenerationConfig `json:"generationConfig,omitempty"`
}

func buildNativeRequest(info Info, apiKey, model string, req Request) (HTTPRequest, error) {
	payload := nativeRequest{}

	if req.Prompt != "" {
		payload.Contents = []nativeContent{
			{Role: "user", Parts: []nativePart{{Text: req.Prompt}}},
		}
	} else {
		if req.SystemPrompt != "" {
			payload.SystemInstruction = &nativeContent{Parts: []nativePart{{Text: req.SystemPrompt}}}
		}
		for _, m := range req.Messages {
			role := m.Role
			if role == RoleAssistant {
				role = "model"
			}
			payload.Contents = append(payload.Contents, nativeContent{
				Role:  role,
				Parts: []nativePart{{Text: m.Content}},
			})
		}
	}

	cfg := &nativeGenerationConfig{
		MaxOutputTokens: req.MaxTokens,
		Temperature:     req.Temperature,
	}
	if req.JSONMode {
		cfg.ResponseMimeType = "application/json"
	}
	payload.GenerationConfig = cfg

	body, err := json.Marshal(payload)
	if err != nil {
		return HTTPRequest{}, fmt.Errorf("marshal request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	return HTTPRequest{
		URL:    fmt.Sprintf("%s/models/%s:generateContent?key=%s", info.BaseURL, model, apiKey),
		Header: header,
		Body:   body,
	}, nil
}

type nativeResponse struct {
	Candidates []struct {
		Content struct {
			Parts []nativePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func extractNativeText(body []byte) (string, error) {
	var resp nativeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func extractNativeUsage(body []byte) Usage {
	var resp nativeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	}
}

// nativeErrorBody is the shape of a generateContent error response. On 429
// the details array carries a RetryInfo entry whose retryDelay is a duration
// string like "7s".
type nativeErrorBody struct {
	Error struct {
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}

func parseNativeRetryDelay(body []byte) (time.Duration, bool) {
	var eb nativeErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return 0, false
	}
	for _, d := range eb.Error.Details {
		if d.RetryDelay == "" {
			continue
		}
		if dur, err := time.ParseDuration(d.RetryDelay); err == nil && dur > 0 {
			return dur, true
		}
	}
	return 0, false
}
