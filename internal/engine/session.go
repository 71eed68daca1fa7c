package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AntoineDubuc/wingman-ai/internal/archive"
	"github.com/AntoineDubuc/wingman-ai/internal/kb"
	"github.com/AntoineDubuc/wingman-ai/internal/provider"
	"github.com/AntoineDubuc/wingman-ai/internal/tuning"
	"github.com/AntoineDubuc/wingman-ai/internal/usage"
)

// Caller issues one generation request. Satisfied by *provider.Client.
type Caller interface {
	Do(ctx context.Context, info provider.Info, apiKey string, req provider.Request) (*provider.Result, error)
}

// Options configures a new Session. Everything is read once at session
// start; mid-session changes to the source of these values have no effect.
type Options struct {
	Provider     provider.Info
	APIKey       string
	Model        string
	CooldownMS   int
	SystemPrompt string
	MaxTurns     int
	MaxTokens    int
	Temperature  float64
	TuningMode   tuning.Mode
	KBSourceIDs  []string

	// SpeakerFilter suppresses generation for lines spoken by SelfSpeaker;
	// those lines still enter history.
	SpeakerFilter bool
	SelfSpeaker   string

	Caller   Caller
	KB       kb.Searcher
	Archive  archive.Sink
	Usage    *usage.Tracker
	Classify Classifier
	Logger   *zap.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Session holds all per-call state. One live instance per active call.
type Session struct {
	id           string
	info         provider.Info
	apiKey       string
	model        string
	cooldown     time.Duration
	systemPrompt string
	maxTurns     int
	maxTokens    int
	temperature  float64
	mode         tuning.Mode
	profile      tuning.Profile
	kbFilter     []string

	speakerFilter bool
	selfSpeaker   string

	caller   Caller
	kb       kb.Searcher
	sink     archive.Sink
	tracker  *usage.Tracker
	classify Classifier
	log      *zap.Logger
	now      func() time.Time

	mu               sync.Mutex
	history          []Turn
	lastSuggestionAt time.Time
	rateLimitedUntil time.Time
	inFlight         bool
}

// NewSession builds a fresh session. The configured cooldown may widen the
// provider's default spacing but never narrow it.
func NewSession(opts Options) *Session {
	model := opts.Model
	if model == "" {
		model = opts.Provider.DefaultModel
	}

	cooldown := time.Duration(opts.CooldownMS) * time.Millisecond
	if cooldown < opts.Provider.DefaultCooldown {
		cooldown = opts.Provider.DefaultCooldown
	}

	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 10
	}

	classify := opts.Classify
	if classify == nil {
		classify = ClassifySuggestion
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Session{
		id:            uuid.NewString(),
		info:          opts.Provider,
		apiKey:        opts.APIKey,
		model:         model,
		cooldown:      cooldown,
		systemPrompt:  opts.SystemPrompt,
		maxTurns:      maxTurns,
		maxTokens:     opts.MaxTokens,
		temperature:   opts.Temperature,
		mode:          opts.TuningMode,
		profile:       tuning.Resolve(model, opts.TuningMode),
		kbFilter:      append([]string(nil), opts.KBSourceIDs...),
		speakerFilter: opts.SpeakerFilter,
		selfSpeaker:   opts.SelfSpeaker,
		caller:        opts.Caller,
		kb:            opts.KB,
		sink:          opts.Archive,
		tracker:       opts.Usage,
		classify:      classify,
		log:           log,
		now:           now,
	}
}

// ID returns the session identifier used for archival and usage grouping.
func (s *Session) ID() string { return s.id }

// History returns a copy of the current conversation window.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Clear resets every piece of mutable state so the session can be reused
// for a new call with no carry-over.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.history = nil
	s.lastSuggestionAt = time.Time{}
	s.rateLimitedUntil = time.Time{}
	s.inFlight = false
}

// ProcessTranscript is the decision gate. It returns a suggestion, or nil
// when the line does not earn one; nil is the normal case, not an error.
func (s *Session) ProcessTranscript(ctx context.Context, text, speaker string, isFinal bool) *Suggestion {
	if !isFinal {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	if len(strings.Fields(trimmed)) < 2 {
		return nil
	}

	s.mu.Lock()

	s.history = append(s.history, Turn{Speaker: speaker, Text: trimmed, Timestamp: s.now()})
	if len(s.history) > s.maxTurns {
		s.history = s.history[len(s.history)-s.maxTurns:]
	}

	if s.speakerFilter && speaker == s.selfSpeaker {
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	if now.Before(s.rateLimitedUntil) {
		s.mu.Unlock()
		return nil
	}
	if !s.lastSuggestionAt.IsZero() && now.Sub(s.lastSuggestionAt) < s.cooldown {
		s.mu.Unlock()
		return nil
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil
	}

	// Spacing is consumed at initiation, not completion, so a failed
	// attempt still holds the line. The in-flight flag is taken under the
	// same lock as the checks; releasing it is the pipeline's job.
	s.lastSuggestionAt = now
	s.inFlight = true
	s.mu.Unlock()

	return s.generate(ctx, trimmed)
}
