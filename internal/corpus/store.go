// Package corpus owns the lifetime of reference documents. Documents are
// immutable after ingestion; the only permitted mutation is the active flag,
// so checks can borrow read-only references without copying content.
package corpus

import (
	"context"
	"errors"
	"fmt"

	"github.com/scribeworks/veritas/internal/models"
)

var (
	// ErrInvalidDocument is the base error for documents the corpus rejects.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrNotFound is returned when a document ID is unknown.
	ErrNotFound = errors.New("document not found")
)

// Store is the corpus handle passed explicitly to every operation. Implementations
// must let a running check iterate a consistent point-in-time snapshot while new
// documents are added concurrently.
type Store interface {
	// Add stores a fully-derived document, rejecting it with an error wrapping
	// ErrInvalidDocument when its normalized content is below the minimum length.
	Add(ctx context.Context, doc *models.Document) error

	// Deactivate soft-deletes a document, hiding it from future checks.
	Deactivate(ctx context.Context, id string) error

	// ActiveDocuments returns a snapshot of all documents with active == true.
	ActiveDocuments(ctx context.Context) ([]*models.Document, error)

	// CountActive returns the number of active documents.
	CountActive(ctx context.Context) (int, error)
}

// ValidateDocument enforces the ingestion contract: non-empty normalized content
// of at least minLength characters, with derived sets present.
func ValidateDocument(doc *models.Document, minLength int) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: missing document ID", ErrInvalidDocument)
	}
	runes := len([]rune(doc.NormalizedContent))
	if runes == 0 {
		return fmt.Errorf("%w: empty after normalization", ErrInvalidDocument)
	}
	if runes < minLength {
		return fmt.Errorf("%w: normalized content length %d below minimum %d",
			ErrInvalidDocument, runes, minLength)
	}
	if len(doc.WordSet) == 0 {
		return fmt.Errorf("%w: derived word set missing", ErrInvalidDocument)
	}
	return nil
}
