// Package corpus implements document/citation persistence: a Store
// interface with memory, SQLite, and Postgres backends covering
// Document and Citation rows, the documents callers submit and the
// citations found in them.
package corpus

import (
	"context"
	"time"

	"github.com/citelink/citelink/pkg/models"
)

// Document is one persisted unit of text submitted for extraction.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CitationRecord is one persisted citation, tied back to the document
// it was found in and its position within that document's citation
// list (used to resolve ResolvedTo indices after a round trip).
type CitationRecord struct {
	DocumentID string          `json:"documentId"`
	Index      int             `json:"index"`
	Citation   models.Citation `json:"citation"`
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	IDs       []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit     int
	Offset    int
}

// CitationFilter narrows ListCitations.
type CitationFilter struct {
	DocumentID string
	Type       models.CitationType
	Limit      int
	Offset     int
}

// Store is the persistence interface implemented by the memory,
// SQLite, and Postgres backends.
type Store interface {
	SaveDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)
	DeleteDocument(ctx context.Context, id string) error

	SaveCitations(ctx context.Context, documentID string, citations []models.Citation) error
	ListCitations(ctx context.Context, filter CitationFilter) ([]CitationRecord, error)

	Ping(ctx context.Context) error
	Close() error
}
