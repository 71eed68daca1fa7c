package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AntoineDubuc/wingman-ai/internal/archive"
	"github.com/AntoineDubuc/wingman-ai/internal/provider"
	"github.com/AntoineDubuc/wingman-ai/internal/tuning"
	"github.com/AntoineDubuc/wingman-ai/internal/usage"
)

// defaultSilenceHint is the per-turn reminder appended after the
// conversation; profiles may substitute their own wording.
const defaultSilenceHint = "If nothing useful can be added right now, reply with exactly " + SilenceSentinel + "."

// generate runs one suggestion attempt. No internal retries; every failure
// degrades to a nil suggestion.
func (s *Session) generate(ctx context.Context, text string) *Suggestion {
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if s.apiKey == "" {
		s.log.Warn("no api key for provider, skipping attempt",
			zap.String("provider", s.info.Name))
		return nil
	}

	systemPrompt := s.systemPrompt
	kbSource := ""
	if s.kb != nil {
		result, err := s.kb.Search(ctx, s.kbQuery(text), s.kbFilter)
		switch {
		case err != nil:
			s.log.Debug("kb lookup failed, proceeding without grounding", zap.Error(err))
		case result.Matched:
			systemPrompt = fmt.Sprintf(
				"Reference material for this call. Use its specific facts verbatim when relevant:\n\n%s\n\n%s",
				result.Context, systemPrompt)
			kbSource = result.Source
		}
	}

	temperature := s.temperature
	hint := defaultSilenceHint
	if s.mode == tuning.ModeAuto {
		systemPrompt = s.profile.ApplySystem(systemPrompt)
		temperature = s.profile.Temperature(temperature)
		hint = s.profile.Hint(hint)
	}

	req := provider.Request{
		SystemPrompt: systemPrompt,
		Messages:     s.buildMessages(hint),
		Model:        s.model,
		MaxTokens:    s.maxTokens,
		Temperature:  temperature,
	}

	res, err := s.caller.Do(ctx, s.info, s.apiKey, req)
	if err != nil {
		var rle *provider.RateLimitError
		if errors.As(err, &rle) {
			s.mu.Lock()
			s.rateLimitedUntil = s.now().Add(rle.Delay)
			s.mu.Unlock()
			s.log.Info("provider rate limited, backing off",
				zap.String("provider", s.info.Name),
				zap.Duration("delay", rle.Delay))
			return nil
		}
		s.log.Warn("generation attempt failed",
			zap.String("provider", s.info.Name),
			zap.Error(err))
		return nil
	}

	// Usage is recorded for every parsed response, silent ones included.
	s.trackUsage(req, res, "suggestion")

	out := strings.TrimSpace(res.Text)
	if out == "" || out == SilenceSentinel {
		return nil
	}

	sug := &Suggestion{
		Text:       out,
		Confidence: suggestionConfidence,
		Type:       s.classify(out),
		Source:     s.info.Name,
		Timestamp:  s.now(),
		KBSource:   kbSource,
	}

	if s.sink != nil {
		rec := archive.SuggestionRecord{
			SessionID:  s.id,
			Text:       sug.Text,
			Type:       string(sug.Type),
			Source:     sug.Source,
			KBSource:   sug.KBSource,
			Confidence: sug.Confidence,
			Timestamp:  sug.Timestamp,
		}
		if err := s.sink.RecordSuggestion(ctx, rec); err != nil {
			s.log.Warn("archive suggestion failed", zap.Error(err))
		}
	}

	return sug
}

// trackUsage feeds the cost accounting collaborator. Providers that omit
// the usage block get a character-based estimate instead of zeros.
func (s *Session) trackUsage(req provider.Request, res *provider.Result, operation string) {
	if s.tracker == nil {
		return
	}

	in, out := res.Usage.InputTokens, res.Usage.OutputTokens
	if in == 0 && out == 0 {
		var b strings.Builder
		b.WriteString(req.SystemPrompt)
		b.WriteString(req.Prompt)
		for _, m := range req.Messages {
			b.WriteString(m.Content)
		}
		in = usage.EstimateTokens(b.String())
		out = usage.EstimateTokens(res.Text)
	}

	s.tracker.Track(usage.Event{
		Timestamp:    s.now(),
		Provider:     s.info.Name,
		Model:        s.model,
		InputTokens:  in,
		OutputTokens: out,
		Operation:    operation,
		SessionID:    s.id,
	})
}

// kbQuery combines the tail of the history with the current line so
// retrieval sees recent context, not just one utterance.
func (s *Session) kbQuery(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	const window = 3
	start := len(s.history) - 1 - window
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, t := range s.history[start : len(s.history)-1] {
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	b.WriteString(text)
	return b.String()
}

// buildMessages renders the history window as user turns with speaker
// labels, followed by the per-turn silence hint.
func (s *Session) buildMessages(hint string) []provider.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]provider.Message, 0, len(s.history)+1)
	for _, t := range s.history {
		msgs = append(msgs, provider.Message{
			Role:    provider.RoleUser,
			Content: fmt.Sprintf("%s: %s", t.Speaker, t.Text),
		})
	}
	if hint != "" {
		msgs = append(msgs, provider.Message{Role: provider.RoleUser, Content: hint})
	}
	return msgs
}
