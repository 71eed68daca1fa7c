// Package tuning maps model ids onto per-family prompt adjustments. The
// resolver is a pure lookup over a static table; session code decides when
// a profile actually applies.
package tuning

import "strings"

// Profile carries the runtime prompt adjustments for one model family.
// Structural prompt formatting happens when the prompt is authored and is
// never a tuning concern.
type Profile struct {
	Family string

	// SuggestionTemperature overrides the configured temperature for
	// suggestion calls only. Zero means no override.
	SuggestionTemperature float64

	// SilenceReinforcement is appended to the system prompt to push the
	// model toward the silence sentinel when it has nothing useful.
	SilenceReinforcement string

	// SilenceHint replaces the generic per-turn silence reminder.
	SilenceHint string

	PromptPrefix string
	PromptSuffix string

	// SummaryPrefix and SummaryJSONHint apply to the standalone summary
	// prompt only.
	SummaryPrefix   string
	SummaryJSONHint string
}

// IsNeutral reports whether the profile changes nothing.
func (p Profile) IsNeutral() bool {
	return p == Profile{}
}

// Neutral is the no-op profile used when tuning is off or the model family
// is unmapped.
var Neutral = Profile{}

var gemmaProfile = Profile{
	Family:                "gemma",
	SuggestionTemperature: 0.4,
	SilenceReinforcement:  "If no suggestion is warranted, respond with exactly NO_SUGGESTION and nothing else.",
	SilenceHint:           "Reply NO_SUGGESTION unless you have something concrete to add.",
	PromptPrefix:          "Be brief and direct. One actionable sentence.\n\n",
	PromptSuffix:          "\n\nNever explain your reasoning. Output the suggestion only.",
	SummaryPrefix:         "Return only a JSON object, no prose before or after.\n\n",
	SummaryJSONHint:       "Respond with raw JSON. Do not wrap the output in markdown fences.",
}

var llamaProfile = Profile{
	Family:                "llama",
	SuggestionTemperature: 0.5,
	SilenceReinforcement:  "When the conversation does not call for input, output exactly NO_SUGGESTION.",
	PromptSuffix:          "\n\nKeep suggestions under 25 words.",
	SummaryJSONHint:       "Output valid JSON only.",
}

// familyMarkers maps a substring of the model id to its family table entry.
// Checked in order so more specific markers can shadow general ones.
var familyMarkers = []struct {
	marker  string
	profile Profile
}{
	{"gemma", gemmaProfile},
	{"gemini", gemmaProfile},
	{"llama", llamaProfile},
}

func profileFor(modelID string) Profile {
	id := strings.ToLower(modelID)
	for _, fm := range familyMarkers {
		if strings.Contains(id, fm.marker) {
			return fm.profile
		}
	}
	return Neutral
}
