package textproc

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrInvalidNGramSize is returned when an n-gram length is not positive.
	ErrInvalidNGramSize = errors.New("n-gram size must be positive")

	// ErrInvalidShingleSize is returned when a shingle length is not positive.
	ErrInvalidShingleSize = errors.New("shingle size must be positive")
)

// Processor derives token-level features with fixed n-gram and shingle sizes.
// Sizes are validated once at construction so the derivation functions never
// fail at call time.
type Processor struct {
	ngramSize   int
	shingleSize int
}

// NewProcessor creates a Processor, rejecting non-positive sizes up front.
func NewProcessor(ngramSize, shingleSize int) (*Processor, error) {
	if ngramSize <= 0 {
		return nil, ErrInvalidNGramSize
	}
	if shingleSize <= 0 {
		return nil, ErrInvalidShingleSize
	}
	return &Processor{ngramSize: ngramSize, shingleSize: shingleSize}, nil
}

// NGramSize returns the configured word n-gram length.
func (p *Processor) NGramSize() int { return p.ngramSize }

// ShingleSize returns the configured character shingle length.
func (p *Processor) ShingleSize() int { return p.shingleSize }

// NGrams applies the configured n-gram length to a token sequence.
func (p *Processor) NGrams(tokens []string) []string {
	return NGrams(tokens, p.ngramSize)
}

// CharShingles applies the configured shingle length to a text.
func (p *Processor) CharShingles(text string) []string {
	return CharShingles(text, p.shingleSize)
}

// Tokenize splits normalized text into word tokens on whitespace.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}

// MeaningfulTokens returns the tokens worth matching on: at least two characters
// and not purely numeric. Single letters and bare numbers match everything.
func MeaningfulTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) < 2 || isNumeric(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// NGrams produces the sliding-window word n-grams of a token sequence, joined by
// single spaces. Fewer than n tokens yields an empty slice, not an error.
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}

// CharShingles produces the set of k-length character shingles of a text with all
// whitespace removed. Order is the order of first occurrence; duplicates are dropped.
func CharShingles(text string, k int) []string {
	if k <= 0 {
		return nil
	}
	compact := []rune(whitespacePattern.ReplaceAllString(text, ""))
	if len(compact) < k {
		return nil
	}
	seen := make(map[string]struct{}, len(compact))
	shingles := make([]string, 0, len(compact)-k+1)
	for i := 0; i+k <= len(compact); i++ {
		s := string(compact[i : i+k])
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		shingles = append(shingles, s)
	}
	return shingles
}

// WordSet returns the unique meaningful tokens of a normalized text, in order of
// first occurrence.
func WordSet(normalized string) []string {
	tokens := MeaningfulTokens(Tokenize(normalized))
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
