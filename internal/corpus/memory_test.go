package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

func TestMemoryStore_SaveAndGetDocument(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "hello world"})
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "hello world", doc.Text)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestMemoryStore_GetMissingDocument(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.GetDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, citelinkerrors.ErrNotFound)
}

func TestMemoryStore_DeleteDocumentRemovesCitations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "x"}))
	require.NoError(t, store.SaveCitations(ctx, "doc-1", []models.Citation{{Type: models.TypeCase}}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.Error(t, err)

	records, err := store.ListCitations(ctx, CitationFilter{DocumentID: "doc-1"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_DeleteMissingDocumentErrors(t *testing.T) {
	store := NewMemoryStore()
	err := store.DeleteDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, citelinkerrors.ErrNotFound)
}

func TestMemoryStore_ListDocumentsFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-2", Text: "b"}))
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-3", Text: "c"}))

	docs, err := store.ListDocuments(ctx, DocumentFilter{IDs: []string{"doc-1", "doc-3"}})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	paged, err := store.ListDocuments(ctx, DocumentFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestMemoryStore_ListCitationsFiltersByType(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "x"}))
	require.NoError(t, store.SaveCitations(ctx, "doc-1", []models.Citation{
		{Type: models.TypeCase},
		{Type: models.TypeStatute},
	}))

	records, err := store.ListCitations(ctx, CitationFilter{DocumentID: "doc-1", Type: models.TypeStatute})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.TypeStatute, records[0].Citation.Type)
}

func TestMemoryStore_PingAndClose(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
