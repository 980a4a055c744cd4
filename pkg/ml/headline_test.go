package ml

import "testing"

func TestIsHeadlineOnly(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"short no punctuation", "Shocking Truth Revealed", true},
		{"short with one period", "Shocking truth revealed today.", true},
		{"empty string", "", true},
		{
			"long multi-sentence article",
			"Scientists at MIT developed a new battery technology, according to a peer-reviewed study published this week. The team reported a 40% improvement in energy density. Commercial production could begin within five years.",
			false,
		},
		{
			// 16 words, zero endings: misses the first rule but is caught by the second.
			"sixteen words no endings",
			"sixteen words with no punctuation at all stretched out to clear the very first heuristic rule",
			true,
		},
		{
			// 20 words, one ending: clears both rules.
			"twenty words one ending",
			"twenty whole words in this single sentence which is just long enough to escape both of the headline heuristic rules.",
			false,
		},
		{
			// Short but with two sentence endings.
			"two endings",
			"Really? No way! Unbelievable stuff happening downtown right now with police and reporters everywhere watching the scene unfold closely today",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsHeadlineOnly(tt.text)
			if result != tt.expected {
				t.Errorf("IsHeadlineOnly(%q) = %t, want %t", tt.text, result, tt.expected)
			}
		})
	}
}

func TestCountSentenceEndings(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"No endings here", 0},
		{"One sentence.", 1},
		{"Two! Sentences?", 2},
		{"Ellipsis...", 3},
		{"", 0},
	}

	for _, tt := range tests {
		if got := CountSentenceEndings(tt.input); got != tt.expected {
			t.Errorf("CountSentenceEndings(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
