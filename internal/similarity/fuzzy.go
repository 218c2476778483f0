package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// FuzzyRatio computes 1 - editDistance(a,b) / max(len(a), len(b)) over runes.
// Two empty strings are identical (1.0).
func FuzzyRatio(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
