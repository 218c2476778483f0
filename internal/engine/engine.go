// Package engine implements the similarity check core: candidate pruning,
// metric scoring across a worker pool, and aggregation into one report.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/scribeworks/veritas/internal/corpus"
	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/textproc"
)

var (
	// ErrStoreRequired is returned when no corpus store is provided.
	ErrStoreRequired = errors.New("corpus store required")

	// ErrProcessorRequired is returned when no text processor is provided.
	ErrProcessorRequired = errors.New("text processor required")
)

// ReportSink persists completed check reports. Implementations must tolerate
// being called after the check deadline has expired.
type ReportSink interface {
	InsertCheckReport(ctx context.Context, report *models.CheckReport) error
}

// StateTracker publishes check lifecycle transitions for external pollers.
type StateTracker interface {
	Update(ctx context.Context, checkID string, state models.CheckState) error
}

// Engine runs similarity checks against a corpus store. It never mutates the
// corpus: growth is the ingestion collaborator's job, advertised through
// GrowthHint, and scoring performs no ingestion side effects.
type Engine struct {
	store        corpus.Store
	proc         *textproc.Processor
	pool         *WorkerPool
	defaults     Options
	sink         ReportSink
	tracker      StateTracker
	growthTarget int
}

// Option configures optional collaborators on the engine.
type Option func(*Engine)

// WithReportSink persists every completed report.
func WithReportSink(sink ReportSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithStateTracker publishes check state transitions.
func WithStateTracker(tracker StateTracker) Option {
	return func(e *Engine) { e.tracker = tracker }
}

// WithGrowthTarget sets the corpus size below which GrowthHint asks for more data.
func WithGrowthTarget(target int) Option {
	return func(e *Engine) { e.growthTarget = target }
}

// New creates an engine, failing fast on invalid default options.
func New(store corpus.Store, proc *textproc.Processor, pool *WorkerPool, defaults Options, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if proc == nil {
		return nil, ErrProcessorRequired
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}

	e := &Engine{
		store:        store,
		proc:         proc,
		pool:         pool,
		defaults:     defaults,
		growthTarget: 50,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Defaults returns the engine's default options, for request-level overriding.
func (e *Engine) Defaults() Options {
	return e.defaults
}

// CheckWithOverrides merges request-level overrides into the defaults and runs
// the check.
func (e *Engine) CheckWithOverrides(ctx context.Context, query string, req models.CheckRequest) (*models.CheckReport, error) {
	opts := e.defaults.merged(
		req.MinSimilarity,
		req.MinCommonWords,
		req.MaxMatches,
		req.Strictness,
		time.Duration(req.TimeoutSeconds)*time.Second,
	)
	return e.Check(ctx, query, opts)
}

// Check scans the query against a point-in-time snapshot of the active corpus.
// On deadline expiry it returns the best partial report computed so far, with
// DocumentsScanned communicating partial coverage, rather than failing outright.
func (e *Engine) Check(ctx context.Context, query string, opts Options) (*models.CheckReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid check options: %w", err)
	}

	checkID := uuid.NewString()
	started := time.Now()
	e.publishState(ctx, checkID, models.StatePending)

	docs, err := e.store.ActiveDocuments(ctx)
	if err != nil {
		e.publishState(ctx, checkID, models.StateFailed)
		return nil, fmt.Errorf("failed to snapshot corpus: %w", err)
	}

	e.publishState(ctx, checkID, models.StateScanning)
	log.Info().
		Str("checkId", checkID).
		Int("corpusSize", len(docs)).
		Str("strictness", string(opts.Strictness)).
		Msg("Similarity check started")

	matcher := NewMatcher(opts, e.proc)
	features := matcher.BuildQueryFeatures(query)

	scanCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	spans, scanned := e.scanCorpus(scanCtx, matcher, features, docs)

	aggregator := NewAggregator(opts)
	matches, overall := aggregator.Aggregate(spans)
	if matches == nil {
		matches = []models.MatchSpan{}
	}

	report := &models.CheckReport{
		CheckID:          checkID,
		OverallScore:     overall,
		DocumentsScanned: scanned,
		Matches:          matches,
		State:            models.StateCompleted,
		ProcessingTime:   time.Since(started).Seconds(),
		CreatedAt:        time.Now(),
	}

	e.persist(report)
	e.publishState(ctx, checkID, models.StateCompleted)

	log.Info().
		Str("checkId", checkID).
		Float64("overallScore", overall).
		Int("matches", len(matches)).
		Int("documentsScanned", scanned).
		Int("corpusSize", len(docs)).
		Msg("Similarity check completed")

	return report, nil
}

// scanCorpus fans document scans out to the worker pool and collects spans until
// every document reports back or the deadline expires.
func (e *Engine) scanCorpus(ctx context.Context, matcher *Matcher, features *QueryFeatures, docs []*models.Document) ([]models.MatchSpan, int) {
	if len(docs) == 0 || len(features.WordSet) == 0 {
		return nil, 0
	}
	if e.pool == nil {
		// No pool wired: scan inline. Used by tests and library embedding.
		var spans []models.MatchSpan
		scanned := 0
		for _, doc := range docs {
			if ctx.Err() != nil {
				break
			}
			spans = append(spans, matcher.ScanDocument(features, doc)...)
			scanned++
		}
		return spans, scanned
	}

	resultChan := make(chan []models.MatchSpan, len(docs))
	submitted := 0
	for _, doc := range docs {
		job := &scanJob{
			matcher:    matcher,
			features:   features,
			doc:        doc,
			checkCtx:   ctx,
			resultChan: resultChan,
		}
		if err := e.pool.Submit(job); err != nil {
			log.Error().Err(err).Str("documentId", doc.ID).Msg("Failed to submit scan job")
			continue
		}
		submitted++
	}

	var spans []models.MatchSpan
	scanned := 0
	for scanned < submitted {
		select {
		case <-ctx.Done():
			log.Warn().
				Int("scanned", scanned).
				Int("corpusSize", len(docs)).
				Msg("Check deadline reached, returning partial report")
			return spans, scanned
		case result := <-resultChan:
			spans = append(spans, result...)
			scanned++
		}
	}
	return spans, scanned
}

// scanJob scores one document against the query features on the worker pool.
type scanJob struct {
	matcher    *Matcher
	features   *QueryFeatures
	doc        *models.Document
	checkCtx   context.Context
	resultChan chan<- []models.MatchSpan
}

func (j *scanJob) Execute(poolCtx context.Context) error {
	spans := j.matcher.ScanDocument(j.features, j.doc)

	select {
	case <-poolCtx.Done():
		return poolCtx.Err()
	case <-j.checkCtx.Done():
		return j.checkCtx.Err()
	case j.resultChan <- spans:
		return nil
	}
}

// GrowthHint tells the external ingestion collaborator whether the corpus wants
// more reference material and which keywords of the query would be worth
// crawling. The engine itself never triggers ingestion.
func (e *Engine) GrowthHint(ctx context.Context, query string) (*models.CorpusStats, error) {
	count, err := e.store.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count corpus: %w", err)
	}

	stats := &models.CorpusStats{
		ActiveDocuments: count,
		NeedsMoreData:   count < e.growthTarget,
	}
	if stats.NeedsMoreData && query != "" {
		stats.GrowthKeywords = textproc.KeyPhrases(textproc.Normalize(query), 3)
	}
	return stats, nil
}

func (e *Engine) publishState(ctx context.Context, checkID string, state models.CheckState) {
	if e.tracker == nil {
		return
	}
	if err := e.tracker.Update(ctx, checkID, state); err != nil {
		log.Warn().Err(err).Str("checkId", checkID).Str("state", string(state)).Msg("Failed to publish check state")
	}
}

func (e *Engine) persist(report *models.CheckReport) {
	if e.sink == nil {
		return
	}
	// Fresh context: persistence must survive an expired check deadline so
	// partial work is never discarded.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.sink.InsertCheckReport(ctx, report); err != nil {
		log.Error().Err(err).Str("checkId", report.CheckID).Msg("Failed to persist check report")
	}
}
