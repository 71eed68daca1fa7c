package tuning

import "strings"

// Mode controls whether and how profiles apply.
type Mode string

const (
	// ModeOff disables tuning entirely.
	ModeOff Mode = "off"
	// ModeOnce marks prompts whose tuning was baked in when the prompt was
	// authored; the resolver treats it like off so no fragment is ever
	// reapplied at request time.
	ModeOnce Mode = "once"
	// ModeAuto resolves and applies the profile on every suggestion call.
	ModeAuto Mode = "auto"
)

// ParseMode normalizes a config string to a Mode, defaulting to off.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeOnce:
		return ModeOnce
	case ModeAuto:
		return ModeAuto
	default:
		return ModeOff
	}
}

// Resolve maps a model id and mode to a profile. Anything other than auto
// mode, and any unmapped model family, yields the neutral profile.
func Resolve(modelID string, mode Mode) Profile {
	if mode != ModeAuto {
		return Neutral
	}
	return profileFor(modelID)
}

// ApplySystem wraps a system prompt with the profile's prefix, suffix, and
// silence reinforcement. Prompts that already carry the prefix are returned
// adjusted for the remaining fragments only, so a prompt can never
// accumulate the prefix twice.
func (p Profile) ApplySystem(systemPrompt string) string {
	if p.IsNeutral() {
		return systemPrompt
	}
	out := systemPrompt
	if p.PromptPrefix != "" && !strings.HasPrefix(out, p.PromptPrefix) {
		out = p.PromptPrefix + out
	}
	if p.PromptSuffix != "" && !strings.Contains(out, p.PromptSuffix) {
		out = out + p.PromptSuffix
	}
	if p.SilenceReinforcement != "" && !strings.Contains(out, p.SilenceReinforcement) {
		out = out + "\n\n" + p.SilenceReinforcement
	}
	return out
}

// ApplySummary wraps the standalone summary prompt with the summary-only
// fragments. The summary temperature is owned by the summary generator and
// deliberately has no counterpart here.
func (p Profile) ApplySummary(prompt string) string {
	if p.IsNeutral() {
		return prompt
	}
	out := prompt
	if p.SummaryPrefix != "" && !strings.HasPrefix(out, p.SummaryPrefix) {
		out = p.SummaryPrefix + out
	}
	if p.SummaryJSONHint != "" && !strings.Contains(out, p.SummaryJSONHint) {
		out = out + "\n\n" + p.SummaryJSONHint
	}
	return out
}

// Temperature returns the suggestion temperature for this call, falling
// back to the configured value when the profile has no override.
func (p Profile) Temperature(configured float64) float64 {
	if p.SuggestionTemperature > 0 {
		return p.SuggestionTemperature
	}
	return configured
}

// Hint returns the per-turn silence hint, or the fallback when the profile
// does not supply one.
func (p Profile) Hint(fallback string) string {
	if p.SilenceHint != "" {
		return p.SilenceHint
	}
	return fallback
}
