package engine

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/textproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) *textproc.Processor {
	t.Helper()
	proc, err := textproc.NewProcessor(5, 5)
	require.NoError(t, err)
	return proc
}

// newTestDoc derives document features the same way ingestion does.
func newTestDoc(proc *textproc.Processor, id, content string) *models.Document {
	normalized := textproc.Normalize(content)
	tokens := textproc.MeaningfulTokens(textproc.Tokenize(normalized))
	return &models.Document{
		ID:                id,
		Title:             "Title " + id,
		Content:           content,
		NormalizedContent: normalized,
		WordSet:           textproc.WordSet(normalized),
		NGramSet:          proc.NGrams(tokens),
		ShingleSet:        proc.CharShingles(normalized),
		Active:            true,
	}
}

func metricsOf(spans []models.MatchSpan) map[models.MetricType]bool {
	seen := make(map[models.MetricType]bool)
	for _, s := range spans {
		seen[s.MetricType] = true
	}
	return seen
}

func TestScanDocumentPruning(t *testing.T) {
	proc := newTestProcessor(t)

	t.Run("zero intersection yields no spans", func(t *testing.T) {
		m := NewMatcher(DefaultOptions(), proc)
		q := m.BuildQueryFeatures("quantum entanglement experiments verified")
		doc := newTestDoc(proc, "doc-1", "Cooking pasta requires salted boiling water and patience.")

		assert.Empty(t, m.ScanDocument(q, doc))
	})

	t.Run("below both thresholds yields no spans", func(t *testing.T) {
		m := NewMatcher(DefaultOptions(), proc)
		q := m.BuildQueryFeatures("alpha beta gamma delta")

		// One shared word against a large vocabulary keeps the Jaccard
		// percentage under the floor and the raw intersection under two.
		var sb strings.Builder
		sb.WriteString("alpha")
		for i := 0; i < 60; i++ {
			fmt.Fprintf(&sb, " filler%02d", i)
		}
		doc := newTestDoc(proc, "doc-1", sb.String())

		assert.Empty(t, m.ScanDocument(q, doc))
	})

	t.Run("two common words pass regardless of jaccard", func(t *testing.T) {
		m := NewMatcher(DefaultOptions(), proc)
		q := m.BuildQueryFeatures("alpha beta gamma delta")

		var sb strings.Builder
		sb.WriteString("alpha beta")
		for i := 0; i < 60; i++ {
			fmt.Fprintf(&sb, " filler%02d", i)
		}
		doc := newTestDoc(proc, "doc-1", sb.String())

		assert.NotEmpty(t, m.ScanDocument(q, doc))
	})
}

func TestScanDocumentWordOverlap(t *testing.T) {
	proc := newTestProcessor(t)
	m := NewMatcher(DefaultOptions(), proc)

	query := "Machine learning systems learn statistical patterns from training data."
	q := m.BuildQueryFeatures(query)
	doc := newTestDoc(proc, "doc-1", "Modern machine learning systems learn statistical patterns automatically.")

	spans := m.ScanDocument(q, doc)
	require.NotEmpty(t, spans)

	var overlap *models.MatchSpan
	for i := range spans {
		if spans[i].MetricType == models.MetricWordOverlap {
			overlap = &spans[i]
			break
		}
	}
	require.NotNil(t, overlap)

	assert.Equal(t, "doc-1", overlap.SourceDocumentID)
	assert.GreaterOrEqual(t, overlap.StartIndex, 0)
	assert.Greater(t, overlap.EndIndex, overlap.StartIndex)
	assert.LessOrEqual(t, overlap.EndIndex, len(query))
	assert.Greater(t, overlap.Score, 0.0)
	assert.LessOrEqual(t, overlap.Score, DefaultOptions().ScoreCeiling)

	// Matched words are reported sorted for a stable wire format.
	words := strings.Fields(overlap.MatchedText)
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, words)
}

func TestScanDocumentStrictnessTiers(t *testing.T) {
	proc := newTestProcessor(t)

	query := "The quick brown fox jumps over the lazy dog. Completely unrelated closing words here."
	content := "Many pangrams exist in print. The quick brown fox jumps over the lazy dog."

	t.Run("fast skips sentence matching", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strictness = StrictnessFast
		m := NewMatcher(opts, proc)

		spans := m.ScanDocument(m.BuildQueryFeatures(query), newTestDoc(proc, "doc-1", content))
		assert.False(t, metricsOf(spans)[models.MetricSentence])
	})

	t.Run("standard adds sentence spans", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strictness = StrictnessStandard
		m := NewMatcher(opts, proc)

		spans := m.ScanDocument(m.BuildQueryFeatures(query), newTestDoc(proc, "doc-1", content))
		require.True(t, metricsOf(spans)[models.MetricSentence])

		for _, s := range spans {
			if s.MetricType != models.MetricSentence {
				continue
			}
			assert.Equal(t, 0, s.StartIndex)
			assert.InDelta(t, opts.SentenceScoreCap, s.Score, 1e-9)
		}
	})

	t.Run("thorough flags near duplicates", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strictness = StrictnessThorough
		m := NewMatcher(opts, proc)

		q := m.BuildQueryFeatures(content)
		spans := m.ScanDocument(q, newTestDoc(proc, "doc-1", content))

		var whole *models.MatchSpan
		for i := range spans {
			if spans[i].StartIndex == 0 && spans[i].EndIndex == len(content) && spans[i].MetricType == models.MetricFuzzy {
				whole = &spans[i]
			}
		}
		require.NotNil(t, whole, "expected a whole-query near-duplicate span")
		assert.InDelta(t, opts.ScoreCeiling, whole.Score, 1e-9)
	})

	t.Run("thorough finds verbatim phrases", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strictness = StrictnessThorough
		m := NewMatcher(opts, proc)

		spans := m.ScanDocument(m.BuildQueryFeatures(query), newTestDoc(proc, "doc-1", content))
		assert.True(t, metricsOf(spans)[models.MetricPhrase])
	})
}

func TestScanDocumentSpanBounds(t *testing.T) {
	proc := newTestProcessor(t)

	// Lowercasing 'Ⱥ' widens it from two bytes to three, so positions found in
	// the lowered query sit past their raw counterparts. Every span must still
	// land inside the raw query.
	query := "Ⱥ zebra. The quick brown fox jumps over the lazy dog"
	content := "Many pangrams exist in print. The quick brown fox jumps over the lazy dog."

	for _, strictness := range []Strictness{StrictnessStandard, StrictnessThorough} {
		t.Run(string(strictness), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Strictness = strictness
			m := NewMatcher(opts, proc)

			spans := m.ScanDocument(m.BuildQueryFeatures(query), newTestDoc(proc, "doc-1", content))
			require.NotEmpty(t, spans)
			for _, s := range spans {
				assert.GreaterOrEqual(t, s.StartIndex, 0)
				assert.Less(t, s.StartIndex, s.EndIndex)
				assert.LessOrEqual(t, s.EndIndex, len(query), "metric %s", s.MetricType)
			}
		})
	}
}

func TestScanDocumentFaultIsolation(t *testing.T) {
	proc := newTestProcessor(t)
	m := NewMatcher(DefaultOptions(), proc)

	q := m.BuildQueryFeatures("shared words appear here")

	// Half-formed records come out of the corpus over time. Scanning one
	// must never take down the whole check.
	doc := &models.Document{
		ID:      "broken",
		WordSet: []string{"shared", "words", "appear", "here"},
	}

	assert.NotPanics(t, func() {
		m.ScanDocument(q, doc)
	})
}
