package ml

import "strings"

// Headline heuristic constants. These are empirically chosen: short,
// structurally flat text lacks the narrative context the model was
// trained on, so its raw confidence deserves less trust.
const (
	// headlineMaxWordsNoEnding flags text with no sentence endings
	headlineMaxWordsNoEnding = 15
	// headlineMaxWordsOneEnding flags text with at most one sentence ending
	headlineMaxWordsOneEnding = 20
)

// CountSentenceEndings counts sentence-terminator characters (., !, ?).
func CountSentenceEndings(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}

// IsHeadlineOnly reports whether cleaned text is likely just a headline:
// very short with no sentence structure, or short with at most one
// sentence. Headline-only input is held to a stricter acceptance
// threshold by the decision policy.
func IsHeadlineOnly(cleaned string) bool {
	endings := CountSentenceEndings(cleaned)
	words := len(strings.Fields(cleaned))

	if words < headlineMaxWordsNoEnding && endings == 0 {
		return true
	}
	if words < headlineMaxWordsOneEnding && endings <= 1 {
		return true
	}
	return false
}
