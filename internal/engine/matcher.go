package engine

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/similarity"
	"github.com/scribeworks/veritas/internal/textproc"
)

// QueryFeatures holds everything derived from the query text, computed once per
// check and shared read-only by all scan workers.
type QueryFeatures struct {
	Raw        string
	RawLower   string
	Normalized string
	Tokens     []string
	WordSet    []string
	NGrams     []string
	Shingles   []string
	MinHashSig []uint32
	Sentences  []string
}

// Matcher scans one document at a time against precomputed query features and
// emits candidate match spans. It is stateless and safe for concurrent use.
type Matcher struct {
	opts Options
	proc *textproc.Processor
}

func NewMatcher(opts Options, proc *textproc.Processor) *Matcher {
	return &Matcher{opts: opts, proc: proc}
}

// BuildQueryFeatures normalizes and tokenizes the query once per check.
func (m *Matcher) BuildQueryFeatures(query string) *QueryFeatures {
	normalized := textproc.Normalize(query)
	tokens := textproc.MeaningfulTokens(textproc.Tokenize(normalized))

	q := &QueryFeatures{
		Raw:        query,
		RawLower:   strings.ToLower(query),
		Normalized: normalized,
		Tokens:     tokens,
		WordSet:    textproc.WordSet(normalized),
		NGrams:     m.proc.NGrams(tokens),
		Sentences:  textproc.Sentences(query),
	}
	if m.opts.Strictness == StrictnessThorough {
		q.Shingles = m.proc.CharShingles(normalized)
		q.MinHashSig = similarity.MinHashSignature(q.Shingles, m.opts.MinHashCount)
	}
	return q
}

// ScanDocument runs the zero-intersection pruning step and, for surviving
// candidates, the metric tiers selected by strictness. A fault while scoring one
// document is contained to that document: the corpus is untrusted input over
// time and one malformed record must not fail every query against it.
func (m *Matcher) ScanDocument(q *QueryFeatures, doc *models.Document) (spans []models.MatchSpan) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("documentId", doc.ID).
				Interface("panic", r).
				Msg("Scoring fault isolated, document skipped")
			spans = nil
		}
	}()

	docWords := doc.WordLookup()
	common := similarity.Intersection(q.WordSet, docWords)
	if len(common) == 0 {
		// Dominant-cost pruning: no shared vocabulary, no metric invocation.
		return nil
	}

	jaccardPct := similarity.Jaccard(q.WordSet, doc.WordSet) * 100
	if jaccardPct < m.opts.MinSimilarity && len(common) < m.opts.MinCommonWords {
		return nil
	}

	if span, ok := m.wordOverlapSpan(q, doc, common, jaccardPct); ok {
		spans = append(spans, span)
	}
	if span, ok := m.ngramSpan(q, doc); ok {
		spans = append(spans, span)
	}

	if m.opts.Strictness == StrictnessStandard || m.opts.Strictness == StrictnessThorough {
		spans = append(spans, m.sentenceSpans(q, doc)...)
	}
	if m.opts.Strictness == StrictnessThorough {
		spans = append(spans, m.phraseSpans(q, doc)...)
		spans = append(spans, m.fuzzySpans(q, doc)...)
		if span, ok := m.nearDuplicateSpan(q, doc); ok {
			spans = append(spans, span)
		}
	}

	return spans
}

// wordOverlapSpan builds the representative span for a matched document: the top
// common words joined in sorted order, anchored at the first common word of the
// query. The score blends Jaccard with a per-word confidence bonus, and TF-IDF
// cosine may raise (never lower) it in the standard and thorough tiers.
func (m *Matcher) wordOverlapSpan(q *QueryFeatures, doc *models.Document, common []string, jaccardPct float64) (models.MatchSpan, bool) {
	sorted := append([]string(nil), common...)
	sort.Strings(sorted)
	if len(sorted) > m.opts.MatchedWordLimit {
		sorted = sorted[:m.opts.MatchedWordLimit]
	}
	matchedText := strings.Join(sorted, " ")

	commonSet := make(map[string]struct{}, len(common))
	for _, w := range common {
		commonSet[w] = struct{}{}
	}

	start := 0
	for _, tok := range q.Tokens {
		if _, ok := commonSet[tok]; !ok {
			continue
		}
		if pos := strings.Index(q.RawLower, tok); pos >= 0 {
			start = pos
			break
		}
	}

	end := start + len(matchedText)
	if end > len(q.Raw) {
		end = len(q.Raw)
	}
	if end <= start {
		return models.MatchSpan{}, false
	}

	score := jaccardPct + float64(len(common))*m.opts.CommonWordBonus

	if m.opts.Strictness != StrictnessFast {
		docTokens := textproc.MeaningfulTokens(textproc.Tokenize(doc.NormalizedContent))
		if cos := similarity.TFIDFCosine(q.Tokens, docTokens) * 100; cos > score {
			score = cos
		}
	}

	return models.MatchSpan{
		SourceDocumentID: doc.ID,
		SourceTitle:      doc.Title,
		SourceURL:        doc.SourceURL,
		MatchedText:      matchedText,
		StartIndex:       start,
		EndIndex:         end,
		MetricType:       models.MetricWordOverlap,
		Score:            m.cap(score),
	}, true
}

// ngramSpan captures phrase-level overlap that the word-bag signal misses.
func (m *Matcher) ngramSpan(q *QueryFeatures, doc *models.Document) (models.MatchSpan, bool) {
	if len(q.NGrams) == 0 || len(doc.NGramSet) == 0 {
		return models.MatchSpan{}, false
	}
	nj := similarity.Jaccard(q.NGrams, doc.NGramSet)
	if nj < m.opts.NGramThreshold {
		return models.MatchSpan{}, false
	}

	docGrams := doc.NGramLookup()
	for _, gram := range q.NGrams {
		if _, ok := docGrams[gram]; !ok {
			continue
		}
		start := strings.Index(q.RawLower, gram)
		if start < 0 {
			// Punctuation differs between the raw query and the normalized gram;
			// fall back to the first word of the gram.
			start = strings.Index(q.RawLower, strings.Fields(gram)[0])
			if start < 0 {
				start = 0
			}
		}
		end := start + len(gram)
		if end > len(q.Raw) {
			end = len(q.Raw)
		}
		if end <= start {
			break
		}
		return models.MatchSpan{
			SourceDocumentID: doc.ID,
			SourceTitle:      doc.Title,
			SourceURL:        doc.SourceURL,
			MatchedText:      gram,
			StartIndex:       start,
			EndIndex:         end,
			MetricType:       models.MetricNGram,
			Score:            m.cap(nj * 100),
		}, true
	}
	return models.MatchSpan{}, false
}

// sentenceSpans compares each query sentence against the document's sentences
// on word overlap, keeping the first sufficiently similar pairing per sentence.
func (m *Matcher) sentenceSpans(q *QueryFeatures, doc *models.Document) []models.MatchSpan {
	// Sentence terminators do not survive normalization, so split the raw
	// content and normalize per sentence.
	docSentences := textproc.Sentences(doc.Content)
	var spans []models.MatchSpan

	for _, sentence := range q.Sentences {
		if len([]rune(sentence)) < 10 {
			continue
		}
		sentWords := textproc.WordSet(textproc.Normalize(sentence))
		if len(sentWords) == 0 {
			continue
		}
		sentLookup := make(map[string]struct{}, len(sentWords))
		for _, w := range sentWords {
			sentLookup[w] = struct{}{}
		}

		for _, docSentence := range docSentences {
			docSentWords := textproc.WordSet(textproc.Normalize(docSentence))
			common := similarity.Intersection(docSentWords, sentLookup)
			ratio := float64(len(common)) / float64(len(sentWords))
			if len(common) < 2 || ratio < 0.3 {
				continue
			}

			start, end, ok := m.anchorSpan(q, sentence)
			if !ok {
				continue
			}
			score := ratio*70 + float64(len(common))*2
			if score > m.opts.SentenceScoreCap {
				score = m.opts.SentenceScoreCap
			}
			spans = append(spans, models.MatchSpan{
				SourceDocumentID: doc.ID,
				SourceTitle:      doc.Title,
				SourceURL:        doc.SourceURL,
				MatchedText:      sentence,
				StartIndex:       start,
				EndIndex:         end,
				MetricType:       models.MetricSentence,
				Score:            m.cap(score),
			})
			break
		}
	}
	return spans
}

// phraseSpans slides 2..7-word windows over the query and keeps those that occur
// verbatim in the document. Longer phrases score higher, bounded by the phrase cap.
func (m *Matcher) phraseSpans(q *QueryFeatures, doc *models.Document) []models.MatchSpan {
	var spans []models.MatchSpan
	docContent := doc.NormalizedContent

	for length := 7; length >= 2; length-- {
		for i := 0; i+length <= len(q.Tokens); i++ {
			phrase := strings.Join(q.Tokens[i:i+length], " ")
			if !strings.Contains(docContent, phrase) {
				continue
			}
			start := strings.Index(q.RawLower, phrase)
			if start < 0 {
				start = strings.Index(q.RawLower, q.Tokens[i])
			}
			if start < 0 {
				continue
			}
			end := start + len(phrase)
			if end > len(q.Raw) {
				end = len(q.Raw)
			}
			if end <= start {
				continue
			}
			score := 30 + float64(length)*5
			if score > m.opts.PhraseScoreCap {
				score = m.opts.PhraseScoreCap
			}
			spans = append(spans, models.MatchSpan{
				SourceDocumentID: doc.ID,
				SourceTitle:      doc.Title,
				SourceURL:        doc.SourceURL,
				MatchedText:      phrase,
				StartIndex:       start,
				EndIndex:         end,
				MetricType:       models.MetricPhrase,
				Score:            m.cap(score),
			})
		}
	}
	return spans
}

// fuzzySpans verifies near-exact sentence equality with the Levenshtein ratio
// before granting a high score, anchoring the span with the longest common
// substring of the pair.
func (m *Matcher) fuzzySpans(q *QueryFeatures, doc *models.Document) []models.MatchSpan {
	docSentences := textproc.Sentences(doc.Content)
	var spans []models.MatchSpan

	for _, sentence := range q.Sentences {
		if len([]rune(sentence)) < 10 {
			continue
		}
		normSentence := textproc.Normalize(sentence)

		best := 0.0
		bestDocSentence := ""
		for _, docSentence := range docSentences {
			ratio := similarity.FuzzyRatio(normSentence, textproc.Normalize(docSentence))
			if ratio > best {
				best = ratio
				bestDocSentence = docSentence
			}
		}
		if best < m.opts.FuzzyVerifyThreshold {
			continue
		}

		start, end, ok := m.anchorSpan(q, sentence)
		if !ok {
			continue
		}
		matched := sentence
		if lcs := similarity.LongestCommonSubstring(sentence, bestDocSentence); lcs.Text != "" {
			matched = lcs.Text
		}
		spans = append(spans, models.MatchSpan{
			SourceDocumentID: doc.ID,
			SourceTitle:      doc.Title,
			SourceURL:        doc.SourceURL,
			MatchedText:      matched,
			StartIndex:       start,
			EndIndex:         end,
			MetricType:       models.MetricFuzzy,
			Score:            m.cap(best * 100),
		})
	}
	return spans
}

// nearDuplicateSpan flags the whole query when the MinHash estimate says the two
// shingle sets are nearly identical.
func (m *Matcher) nearDuplicateSpan(q *QueryFeatures, doc *models.Document) (models.MatchSpan, bool) {
	if len(q.MinHashSig) == 0 || len(doc.ShingleSet) == 0 || len(q.Raw) == 0 {
		return models.MatchSpan{}, false
	}
	docSig := similarity.MinHashSignature(doc.ShingleSet, m.opts.MinHashCount)
	estimate := similarity.MinHashSimilarity(q.MinHashSig, docSig)
	if estimate < m.opts.NearDuplicateMinHash {
		return models.MatchSpan{}, false
	}
	return models.MatchSpan{
		SourceDocumentID: doc.ID,
		SourceTitle:      doc.Title,
		SourceURL:        doc.SourceURL,
		MatchedText:      q.Raw,
		StartIndex:       0,
		EndIndex:         len(q.Raw),
		MetricType:       models.MetricFuzzy,
		Score:            m.cap(estimate * 100),
	}, true
}

// anchorSpan locates a sentence in the query case-insensitively and bounds the
// resulting offsets. Case folding can change byte widths (ToLower expands some
// runes), so positions found in the lowered query must be clamped to the raw
// query before they become span offsets.
func (m *Matcher) anchorSpan(q *QueryFeatures, sentence string) (int, int, bool) {
	start := strings.Index(q.RawLower, strings.ToLower(sentence))
	if start < 0 || start >= len(q.Raw) {
		return 0, 0, false
	}
	end := start + len(sentence)
	if end > len(q.Raw) {
		end = len(q.Raw)
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func (m *Matcher) cap(score float64) float64 {
	if score > m.opts.ScoreCeiling {
		return m.opts.ScoreCeiling
	}
	if score < 0 {
		return 0
	}
	return score
}
