package engine

import (
	"testing"

	"github.com/scribeworks/veritas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(docID string, start int, score float64) models.MatchSpan {
	return models.MatchSpan{
		SourceDocumentID: docID,
		MatchedText:      "matched",
		StartIndex:       start,
		EndIndex:         start + 10,
		MetricType:       models.MetricWordOverlap,
		Score:            score,
	}
}

func TestAggregate(t *testing.T) {
	opts := DefaultOptions()

	t.Run("deduplicates spans in the same document bucket", func(t *testing.T) {
		a := NewAggregator(opts)
		spans := []models.MatchSpan{
			span("docA", 5, 90),
			span("docA", 15, 80), // same 20-char bucket as start 5
			span("docA", 45, 70),
			span("docB", 0, 85),
		}

		unique, overall := a.Aggregate(spans)
		require.Len(t, unique, 3)
		assert.Equal(t, 90.0, unique[0].Score)
		assert.Equal(t, 85.0, unique[1].Score)
		assert.Equal(t, 70.0, unique[2].Score)

		// avg(90,85,70) + 2 per match
		assert.InDelta(t, (90.0+85.0+70.0)/3+6, overall, 1e-9)
	})

	t.Run("orders by score descending", func(t *testing.T) {
		a := NewAggregator(opts)
		unique, _ := a.Aggregate([]models.MatchSpan{
			span("docA", 0, 40),
			span("docB", 0, 90),
			span("docC", 0, 60),
		})

		require.Len(t, unique, 3)
		assert.Equal(t, "docB", unique[0].SourceDocumentID)
		assert.Equal(t, "docC", unique[1].SourceDocumentID)
		assert.Equal(t, "docA", unique[2].SourceDocumentID)
	})

	t.Run("deterministic tie break", func(t *testing.T) {
		a := NewAggregator(opts)
		longer := span("docB", 100, 50)
		longer.EndIndex = longer.StartIndex + 30

		unique, _ := a.Aggregate([]models.MatchSpan{
			span("docA", 100, 50),
			longer,
		})

		require.Len(t, unique, 2)
		// Equal scores rank the longer span first.
		assert.Equal(t, "docB", unique[0].SourceDocumentID)
	})

	t.Run("truncates to max matches", func(t *testing.T) {
		capped := opts
		capped.MaxMatches = 2
		a := NewAggregator(capped)

		unique, _ := a.Aggregate([]models.MatchSpan{
			span("docA", 0, 90),
			span("docB", 0, 80),
			span("docC", 0, 70),
		})

		assert.Len(t, unique, 2)
	})

	t.Run("match count bonus is capped", func(t *testing.T) {
		a := NewAggregator(opts)
		spans := make([]models.MatchSpan, 0, 10)
		for i := 0; i < 10; i++ {
			spans = append(spans, span(string(rune('a'+i)), 0, 50))
		}

		_, overall := a.Aggregate(spans)
		// avg 50 + min(2*10, 15)
		assert.InDelta(t, 65.0, overall, 1e-9)
	})

	t.Run("overall never exceeds ceiling", func(t *testing.T) {
		a := NewAggregator(opts)
		_, overall := a.Aggregate([]models.MatchSpan{
			span("docA", 0, 95),
			span("docB", 0, 95),
		})

		assert.InDelta(t, opts.ScoreCeiling, overall, 1e-9)
	})

	t.Run("no spans scores zero", func(t *testing.T) {
		a := NewAggregator(opts)
		unique, overall := a.Aggregate(nil)
		assert.Empty(t, unique)
		assert.Zero(t, overall)
	})
}
