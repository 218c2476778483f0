package textproc

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stopWords covers the high-frequency Korean particles and English function words
// the corpus carries. Matching on these alone says nothing about overlap.
var stopWords = map[string]struct{}{
	"그": {}, "이": {}, "저": {}, "것": {}, "들": {}, "에": {}, "를": {},
	"가": {}, "은": {}, "는": {}, "의": {}, "와": {}, "과": {}, "도": {}, "만": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

// Normalize lowercases text, strips everything outside letters, digits, underscore
// and whitespace, collapses whitespace runs to single spaces and trims. Idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// RemoveStopWords drops stop words from already-normalized text.
func RemoveStopWords(text string) string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := stopWords[w]; !ok {
			filtered = append(filtered, w)
		}
	}
	return strings.Join(filtered, " ")
}

// IsStopWord reports whether the word carries no matching signal on its own.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
