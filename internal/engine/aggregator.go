package engine

import (
	"fmt"
	"sort"

	"github.com/scribeworks/veritas/internal/models"
)

// Aggregator turns the raw span stream from the scan workers into the final
// ordered, deduplicated report. Its ranking rules are deterministic given the
// same spans, so worker scheduling order never changes the output.
type Aggregator struct {
	opts Options
}

func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{opts: opts}
}

// Aggregate deduplicates, ranks and truncates spans, then computes the overall
// score. The match-count bonus is a deliberate heuristic: more independent
// corroborating matches raise confidence in genuine overlap over coincidental
// word reuse. It is a replaceable policy, not a law.
func (a *Aggregator) Aggregate(spans []models.MatchSpan) ([]models.MatchSpan, float64) {
	ranked := append([]models.MatchSpan(nil), spans...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Length() != ranked[j].Length() {
			return ranked[i].Length() > ranked[j].Length()
		}
		if ranked[i].StartIndex != ranked[j].StartIndex {
			return ranked[i].StartIndex < ranked[j].StartIndex
		}
		return ranked[i].SourceDocumentID < ranked[j].SourceDocumentID
	})

	seen := make(map[string]struct{}, len(ranked))
	unique := make([]models.MatchSpan, 0, len(ranked))
	for _, span := range ranked {
		key := fmt.Sprintf("%s_%d", span.SourceDocumentID, span.StartIndex/a.opts.DedupeBucketChars)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, span)
		if len(unique) == a.opts.MaxMatches {
			break
		}
	}

	return unique, a.overallScore(unique)
}

func (a *Aggregator) overallScore(matches []models.MatchSpan) float64 {
	if len(matches) == 0 {
		return 0
	}

	sum := 0.0
	for _, m := range matches {
		sum += m.Score
	}
	avg := sum / float64(len(matches))

	bonus := float64(len(matches)) * 2
	if bonus > a.opts.MatchCountBonusCap {
		bonus = a.opts.MatchCountBonusCap
	}

	overall := avg + bonus
	if overall > a.opts.ScoreCeiling {
		overall = a.opts.ScoreCeiling
	}
	if overall < 0 {
		overall = 0
	}
	return overall
}
