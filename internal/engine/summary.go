package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AntoineDubuc/wingman-ai/internal/archive"
	"github.com/AntoineDubuc/wingman-ai/internal/provider"
	"github.com/AntoineDubuc/wingman-ai/internal/tuning"
)

// summaryTemperature is fixed. Tuning profiles must never override it;
// summaries need stable, conservative output.
const summaryTemperature = 0.2

// Head/tail windows for very long transcripts, in characters. The middle
// gets elided rather than the ends; openings and closings carry most of a
// call's decisions.
const (
	summaryHeadChars = 6000
	summaryTailChars = 4000
)

// GenerateCallSummary builds the end-of-call summary with a single
// standalone-prompt request. Any failure, transport or shape, returns nil;
// a missing summary is never fatal to the session.
func (s *Session) GenerateCallSummary(ctx context.Context, transcripts []Turn, meta SummaryMetadata) *CallSummary {
	if s.apiKey == "" {
		s.log.Warn("no api key for provider, skipping summary",
			zap.String("provider", s.info.Name))
		return nil
	}
	if len(transcripts) == 0 {
		return nil
	}

	prompt := buildSummaryPrompt(transcripts, meta)
	if s.mode == tuning.ModeAuto {
		prompt = s.profile.ApplySummary(prompt)
	}

	req := provider.Request{
		Prompt:      prompt,
		Model:       s.model,
		MaxTokens:   1024,
		Temperature: summaryTemperature,
		JSONMode:    true,
	}

	res, err := s.caller.Do(ctx, s.info, s.apiKey, req)
	if err != nil {
		s.log.Warn("summary generation failed",
			zap.String("provider", s.info.Name),
			zap.Error(err))
		return nil
	}

	s.trackUsage(req, res, "summary")

	summary, err := parseSummary(res.Text)
	if err != nil {
		s.log.Warn("summary response rejected", zap.Error(err))
		return nil
	}
	summary.Metadata = meta

	if s.sink != nil {
		raw, _ := json.Marshal(summary)
		rec := archive.SummaryRecord{
			SessionID:       s.id,
			Summary:         raw,
			DurationSeconds: meta.DurationSeconds,
			TranscriptCount: meta.TranscriptCount,
			Timestamp:       s.now(),
		}
		if err := s.sink.RecordSummary(ctx, rec); err != nil {
			s.log.Warn("archive summary failed", zap.Error(err))
		}
	}

	return summary
}

func buildSummaryPrompt(transcripts []Turn, meta SummaryMetadata) string {
	var b strings.Builder
	for _, t := range transcripts {
		b.WriteString(t.Speaker)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	text := truncateMiddle(b.String(), summaryHeadChars, summaryTailChars)

	return fmt.Sprintf(`Summarize this call transcript as JSON with exactly these fields:
- "topics": array of short topic strings in the order discussed
- "actionItems": array of {"owner", "text"} objects
- "keyMoments": array of {"text", "type"} objects

Call length: %.0f seconds, %d speakers, %d transcript lines.

Transcript:
%s`, meta.DurationSeconds, meta.SpeakerCount, meta.TranscriptCount, text)
}

// truncateMiddle keeps the head and tail windows and elides the middle.
func truncateMiddle(text string, head, tail int) string {
	if len(text) <= head+tail {
		return text
	}
	return text[:head] + "\n...[middle of call omitted]...\n" + text[len(text)-tail:]
}

// parseSummary decodes the model output, tolerating markdown fencing but
// nothing else. All three array fields must be present arrays or the whole
// summary is rejected.
func parseSummary(text string) (*CallSummary, error) {
	cleaned := stripFences(text)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	for _, key := range []string{"topics", "actionItems", "keyMoments"} {
		raw, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("summary missing %q", key)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, fmt.Errorf("summary field %q is not an array: %w", key, err)
		}
	}

	var summary CallSummary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, fmt.Errorf("decode summary fields: %w", err)
	}
	return &summary, nil
}

func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
