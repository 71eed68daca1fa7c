package engine

import "strings"

// Classifier derives a suggestion type from its text. Pure and swappable;
// the default is a keyword heuristic, and tests assert determinism rather
// than semantic correctness.
type Classifier func(text string) SuggestionType

var objectionMarkers = []string{
	"objection",
	"concern",
	"pushback",
	"hesitant",
	"too expensive",
	"competitor",
	"risk",
	"blocker",
}

var answerMarkers = []string{
	"consider ",
	"recommend",
	"suggest ",
	"mention ",
	"explain ",
	"point out",
	"highlight ",
	"you can ",
	"offer ",
	"propose ",
}

// ClassifySuggestion is the default Classifier. Question beats objection
// beats answer; anything unmatched is plain info.
func ClassifySuggestion(text string) SuggestionType {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "?") {
		return TypeQuestion
	}
	if strings.HasPrefix(lower, "ask ") || strings.HasPrefix(lower, "find out ") {
		return TypeQuestion
	}
	for _, m := range objectionMarkers {
		if strings.Contains(lower, m) {
			return TypeObjection
		}
	}
	for _, m := range answerMarkers {
		if strings.Contains(lower, m) {
			return TypeAnswer
		}
	}
	return TypeInfo
}
