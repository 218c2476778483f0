// Package ingest turns raw reference texts into fully-derived corpus documents.
// Derivation happens exactly once, before the document becomes visible to any
// check, so readers never observe content without its token and shingle sets.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/scribeworks/veritas/internal/corpus"
	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/textproc"
)

type Service struct {
	store corpus.Store
	proc  *textproc.Processor
}

func NewService(store corpus.Store, proc *textproc.Processor) *Service {
	return &Service{store: store, proc: proc}
}

// Ingest derives features for a document and stores it. Validation errors wrap
// corpus.ErrInvalidDocument and leave the corpus unchanged.
func (s *Service) Ingest(ctx context.Context, req models.IngestRequest) (*models.Document, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	normalized := textproc.Normalize(req.Content)
	tokens := textproc.MeaningfulTokens(textproc.Tokenize(normalized))

	doc := &models.Document{
		ID:                id,
		Title:             req.Title,
		Content:           req.Content,
		SourceURL:         req.SourceURL,
		SourceType:        req.SourceType,
		NormalizedContent: normalized,
		WordSet:           textproc.WordSet(normalized),
		NGramSet:          s.proc.NGrams(tokens),
		ShingleSet:        s.proc.CharShingles(normalized),
		Active:            true,
		CreatedAt:         time.Now(),
	}

	if err := s.store.Add(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to ingest document: %w", err)
	}

	log.Debug().
		Str("documentId", doc.ID).
		Str("title", doc.Title).
		Int("words", len(doc.WordSet)).
		Msg("Document ingested")

	return doc, nil
}

// Deactivate soft-deletes a document so later checks no longer see it.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if err := s.store.Deactivate(ctx, id); err != nil {
		return err
	}
	log.Debug().Str("documentId", id).Msg("Document deactivated")
	return nil
}
