package corpus

import (
	"context"
	"fmt"
	"sync"

	"github.com/scribeworks/veritas/internal/models"
)

// MemoryStore is an in-memory Store guarded by a reader/writer lock. Documents
// are stored by pointer and never mutated after Add except the active flag,
// which is only flipped under the write lock, so snapshots handed to readers
// are always fully formed.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]*models.Document
	order     []string
	minLength int
}

// NewMemoryStore creates an empty in-memory corpus with the given minimum
// normalized content length.
func NewMemoryStore(minLength int) *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string]*models.Document),
		minLength: minLength,
	}
}

func (s *MemoryStore) Add(_ context.Context, doc *models.Document) error {
	if err := ValidateDocument(doc, s.minLength); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("%w: duplicate document ID %q", ErrInvalidDocument, doc.ID)
	}
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return nil
}

func (s *MemoryStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	doc.Active = false
	return nil
}

// ActiveDocuments returns a point-in-time snapshot in insertion order. The slice
// is freshly allocated, so later inserts never alter an in-flight iteration.
func (s *MemoryStore) ActiveDocuments(_ context.Context) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*models.Document, 0, len(s.order))
	for _, id := range s.order {
		if doc := s.docs[id]; doc.Active {
			active = append(active, doc)
		}
	}
	return active, nil
}

func (s *MemoryStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, doc := range s.docs {
		if doc.Active {
			count++
		}
	}
	return count, nil
}
