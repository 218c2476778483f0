package corpus

import (
	"context"
	"fmt"

	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/repository"
)

// MongoStore backs the corpus with MongoDB. Snapshot consistency comes from the
// cursor read in GetActiveDocuments: documents are written in one insert each,
// so a reader never observes content without its derived sets.
type MongoStore struct {
	repo      *repository.DocumentsRepository
	minLength int
}

func NewMongoStore(repo *repository.DocumentsRepository, minLength int) *MongoStore {
	return &MongoStore{repo: repo, minLength: minLength}
}

func (s *MongoStore) Add(ctx context.Context, doc *models.Document) error {
	if err := ValidateDocument(doc, s.minLength); err != nil {
		return err
	}
	return s.repo.InsertDocument(ctx, doc)
}

func (s *MongoStore) Deactivate(ctx context.Context, id string) error {
	matched, err := s.repo.DeactivateDocument(ctx, id)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) ActiveDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.repo.GetActiveDocuments(ctx)
}

func (s *MongoStore) CountActive(ctx context.Context) (int, error) {
	count, err := s.repo.CountActiveDocuments(ctx)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
