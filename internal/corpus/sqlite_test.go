package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndGetDocumentRoundTrips(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "hello"}))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
}

func TestSQLiteStore_SaveDocumentUpsertsOnConflict(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "v1"}))
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "v2"}))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Text)
}

func TestSQLiteStore_GetMissingDocumentReturnsNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)
	_, err := store.GetDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, citelinkerrors.ErrNotFound)
}

func TestSQLiteStore_ListDocumentsOrdersByCreatedAt(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-2", Text: "b"}))

	docs, err := store.ListDocuments(ctx, DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSQLiteStore_DeleteDocumentRemovesRow(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "a"}))
	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	require.Error(t, err)
}

func TestSQLiteStore_DeleteMissingDocumentReturnsNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)
	err := store.DeleteDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, citelinkerrors.ErrNotFound)
}

func TestSQLiteStore_SaveCitationsReplacesExistingSet(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &Document{ID: "doc-1", Text: "a"}))

	citations := []models.Citation{
		{Type: models.TypeSupremeCourt, Volume: "347", Reporter: "U.S.", Page: "483"},
	}
	require.NoError(t, store.SaveCitations(ctx, "doc-1", citations))

	records, err := store.ListCitations(ctx, CitationFilter{DocumentID: "doc-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.TypeSupremeCourt, records[0].Citation.Type)

	require.NoError(t, store.SaveCitations(ctx, "doc-1", nil))
	records, err = store.ListCitations(ctx, CitationFilter{DocumentID: "doc-1"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteStore_PingSucceedsOnOpenDatabase(t *testing.T) {
	store := newTestSQLiteStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
