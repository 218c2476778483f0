package ingest

import (
	"context"
	"testing"

	"github.com/scribeworks/veritas/internal/corpus"
	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/textproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *corpus.MemoryStore) {
	t.Helper()
	proc, err := textproc.NewProcessor(5, 5)
	require.NoError(t, err)
	store := corpus.NewMemoryStore(10)
	return NewService(store, proc), store
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("derives all features before storing", func(t *testing.T) {
		svc, store := newTestService(t)

		doc, err := svc.Ingest(ctx, models.IngestRequest{
			ID:      "doc-1",
			Title:   "Reference",
			Content: "Machine Learning systems learn statistical patterns from data!",
		})
		require.NoError(t, err)

		assert.Equal(t, "machine learning systems learn statistical patterns from data", doc.NormalizedContent)
		assert.NotEmpty(t, doc.WordSet)
		assert.NotEmpty(t, doc.NGramSet)
		assert.NotEmpty(t, doc.ShingleSet)
		assert.True(t, doc.Active)
		assert.False(t, doc.CreatedAt.IsZero())

		active, err := store.ActiveDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "doc-1", active[0].ID)
	})

	t.Run("generates an ID when none is given", func(t *testing.T) {
		svc, _ := newTestService(t)

		doc, err := svc.Ingest(ctx, models.IngestRequest{
			Title:   "Untitled",
			Content: "Content long enough to pass validation checks.",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID)
	})

	t.Run("rejects content below the minimum length", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Ingest(ctx, models.IngestRequest{Title: "Short", Content: "tiny"})
		assert.ErrorIs(t, err, corpus.ErrInvalidDocument)
	})

	t.Run("rejects punctuation-only content", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Ingest(ctx, models.IngestRequest{Title: "Noise", Content: "!!! ??? ..."})
		assert.ErrorIs(t, err, corpus.ErrInvalidDocument)
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("soft deletes", func(t *testing.T) {
		svc, store := newTestService(t)

		_, err := svc.Ingest(ctx, models.IngestRequest{
			ID:      "doc-1",
			Title:   "Doc",
			Content: "Content long enough to pass validation checks.",
		})
		require.NoError(t, err)

		require.NoError(t, svc.Deactivate(ctx, "doc-1"))

		count, err := store.CountActive(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("unknown document", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.ErrorIs(t, svc.Deactivate(ctx, "missing"), corpus.ErrNotFound)
	})
}
