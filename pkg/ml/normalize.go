package ml

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxInputWords bounds how many words are fed to the model. BERT-family
// models truncate at 512 tokens anyway; pre-truncating avoids tokenizing
// arbitrarily long payloads.
const MaxInputWords = 512

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	urlRe        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe      = regexp.MustCompile(`\S+@\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeUnicode applies NFKC normalization to fold stylistic Unicode
// variants (fullwidth, mathematical bold, circled letters) into their
// ASCII equivalents before any other cleaning runs.
func NormalizeUnicode(text string) (normalized string, wasNormalized bool) {
	normalized = norm.NFKC.String(text)
	wasNormalized = normalized != text
	return
}

// CleanText prepares raw user text for inference. Steps, in order:
// NFKC fold, decode HTML entities, strip HTML tags, strip URLs, strip
// email-like tokens, collapse whitespace runs to a single space, trim.
//
// Entity decoding runs before tag stripping, so an entity-encoded tag
// (&lt;script&gt;) becomes a real tag and is then removed with the rest
// of the markup.
//
// CleanText is total: it never fails, worst case it returns "".
func CleanText(text string) string {
	text, _ = NormalizeUnicode(text)
	text = html.UnescapeString(text)
	text = htmlTagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// TruncateWords keeps at most maxWords space-delimited tokens, rejoined
// with single spaces. maxWords <= 0 falls back to MaxInputWords.
func TruncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = MaxInputWords
	}
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}

// WordCount returns the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
