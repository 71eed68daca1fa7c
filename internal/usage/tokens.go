package usage

// EstimateTokens estimates the token count for a text with a Unicode-aware
// heuristic. ASCII runs at roughly 4 characters per token; non-ASCII (CJK,
// Cyrillic, emoji) is counted conservatively at 1 character per token.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		if r <= 127 {
			weight++
		} else {
			weight += 4
		}
	}
	return (weight + 3) / 4
}
