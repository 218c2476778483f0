package engine

import (
	"fmt"
	"time"
)

// Strictness selects how deep a check digs per candidate document.
type Strictness string

const (
	// StrictnessFast runs word-overlap and n-gram matching only.
	StrictnessFast Strictness = "fast"
	// StrictnessStandard adds sentence-level matching and TF-IDF confirmation.
	StrictnessStandard Strictness = "standard"
	// StrictnessThorough adds phrase windows, fuzzy verification and MinHash
	// near-duplicate detection.
	StrictnessThorough Strictness = "thorough"
)

// ParseStrictness maps a config/request string to a tier, defaulting to standard.
func ParseStrictness(s string) Strictness {
	switch Strictness(s) {
	case StrictnessFast, StrictnessStandard, StrictnessThorough:
		return Strictness(s)
	default:
		return StrictnessStandard
	}
}

// Options carries every tunable of a check. The source system scattered these
// thresholds across call sites with inconsistent values; here they live in one
// place with the observed behavior as defaults.
type Options struct {
	// MinSimilarity is the word-set Jaccard acceptance threshold in percent.
	MinSimilarity float64
	// MinCommonWords accepts a document regardless of Jaccard when the raw
	// intersection is at least this many words.
	MinCommonWords int
	// MaxMatches caps the spans kept in the final report.
	MaxMatches int
	// MatchedWordLimit caps how many common words build a word-overlap span text.
	MatchedWordLimit int
	// CommonWordBonus is the per-common-word confidence bonus added to the
	// Jaccard percentage of a word-overlap span.
	CommonWordBonus float64
	// ScoreCeiling bounds every span and the overall score. Kept below 100 so a
	// pure word-bag signal never claims exact duplication.
	ScoreCeiling float64
	// MatchCountBonusCap bounds the overall-score bonus for corroborating matches.
	MatchCountBonusCap float64
	// DedupeBucketChars groups spans from one document whose starts fall in the
	// same bucket, so keyword noise cannot flood the report.
	DedupeBucketChars int
	// SentenceScoreCap and PhraseScoreCap bound the refinement tiers. These are
	// tuning choices inherited from the source system, not derived bounds.
	SentenceScoreCap float64
	PhraseScoreCap   float64
	// NGramThreshold is the minimum n-gram Jaccard for an ngram span.
	NGramThreshold float64
	// FuzzyVerifyThreshold is the Levenshtein ratio a sentence pair must reach
	// before a fuzzy span is accepted.
	FuzzyVerifyThreshold float64
	// NearDuplicateMinHash is the MinHash estimate above which the whole query is
	// flagged as a near duplicate of one document.
	NearDuplicateMinHash float64
	// MinHashCount is the number of independent hash seeds.
	MinHashCount int
	// Strictness selects the matching tiers to run.
	Strictness Strictness
	// Timeout bounds the scan. Zero means no deadline. On expiry the check
	// returns the best partial report instead of failing.
	Timeout time.Duration
}

// DefaultOptions mirrors the observed behavior of the source system.
func DefaultOptions() Options {
	return Options{
		MinSimilarity:        2.0,
		MinCommonWords:       2,
		MaxMatches:           20,
		MatchedWordLimit:     15,
		CommonWordBonus:      2.0,
		ScoreCeiling:         95.0,
		MatchCountBonusCap:   15.0,
		DedupeBucketChars:    20,
		SentenceScoreCap:     80.0,
		PhraseScoreCap:       75.0,
		NGramThreshold:       0.1,
		FuzzyVerifyThreshold: 0.85,
		NearDuplicateMinHash: 0.9,
		MinHashCount:         100,
		Strictness:           StrictnessStandard,
		Timeout:              30 * time.Second,
	}
}

// Validate fails fast on configurations that would otherwise surface as silent
// misbehavior at call time.
func (o Options) Validate() error {
	if o.MinSimilarity < 0 {
		return fmt.Errorf("minimum similarity must not be negative, got %v", o.MinSimilarity)
	}
	if o.MinCommonWords < 0 {
		return fmt.Errorf("minimum common words must not be negative, got %d", o.MinCommonWords)
	}
	if o.MaxMatches <= 0 {
		return fmt.Errorf("max matches must be positive, got %d", o.MaxMatches)
	}
	if o.MatchedWordLimit <= 0 {
		return fmt.Errorf("matched word limit must be positive, got %d", o.MatchedWordLimit)
	}
	if o.ScoreCeiling <= 0 || o.ScoreCeiling > 100 {
		return fmt.Errorf("score ceiling must be in (0,100], got %v", o.ScoreCeiling)
	}
	if o.DedupeBucketChars <= 0 {
		return fmt.Errorf("dedupe bucket size must be positive, got %d", o.DedupeBucketChars)
	}
	if o.MinHashCount <= 0 {
		return fmt.Errorf("minhash count must be positive, got %d", o.MinHashCount)
	}
	return nil
}

// merged returns a copy of o with request-level overrides applied.
func (o Options) merged(minSimilarity float64, minCommonWords, maxMatches int, strictness string, timeout time.Duration) Options {
	out := o
	if minSimilarity > 0 {
		out.MinSimilarity = minSimilarity
	}
	if minCommonWords > 0 {
		out.MinCommonWords = minCommonWords
	}
	if maxMatches > 0 {
		out.MaxMatches = maxMatches
	}
	if strictness != "" {
		out.Strictness = ParseStrictness(strictness)
	}
	if timeout > 0 {
		out.Timeout = timeout
	}
	return out
}
