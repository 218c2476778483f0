package textproc

import (
	"sort"
	"strings"
)

var sentenceTerminators = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, '。': {}, '！': {}, '？': {},
}

// Sentences splits text on Latin and CJK sentence terminators, trimming each
// sentence and dropping empties.
func Sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		_, ok := sentenceTerminators[r]
		return ok
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// WordFrequency counts occurrences of each non-stop-word token in a normalized text.
func WordFrequency(normalized string) map[string]int {
	freq := make(map[string]int)
	for _, w := range Tokenize(normalized) {
		if IsStopWord(w) {
			continue
		}
		freq[w]++
	}
	return freq
}

// KeyPhrases returns up to topK tokens ranked by frequency, longer tokens winning
// ties, then lexicographic order for determinism. Used by the corpus growth hint
// to suggest crawl keywords.
func KeyPhrases(normalized string, topK int) []string {
	if topK <= 0 {
		return nil
	}
	freq := WordFrequency(normalized)
	words := make([]string, 0, len(freq))
	for w := range freq {
		if len([]rune(w)) >= 2 {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		li, lj := len([]rune(words[i])), len([]rune(words[j]))
		if li != lj {
			return li > lj
		}
		return words[i] < words[j]
	})
	if len(words) > topK {
		words = words[:topK]
	}
	return words
}
