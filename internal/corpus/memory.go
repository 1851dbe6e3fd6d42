package corpus

import (
	"context"
	"sort"
	"sync"
	"time"

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// MemoryStore is an in-memory Store backed by a map and RWMutex,
// reporting not-found conditions via pkg/errors. SaveDocument
// overwrites any document already stored under the same ID.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
	citations map[string][]CitationRecord
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]*Document),
		citations: make(map[string][]CitationRecord),
	}
}

func (m *MemoryStore) SaveDocument(ctx context.Context, d *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	cp := *d
	m.documents[d.ID] = &cp
	return nil
}

func (m *MemoryStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, citelinkerrors.StorageError("document not found", citelinkerrors.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]*Document, 0, len(m.documents))
	for _, d := range m.documents {
		if !matchesFilter(d, filter) {
			continue
		}
		cp := *d
		matches = append(matches, &cp)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return paginate(matches, filter.Offset, filter.Limit), nil
}

func matchesFilter(d *Document, filter DocumentFilter) bool {
	if len(filter.IDs) > 0 {
		found := false
		for _, id := range filter.IDs {
			if id == d.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.CreatedAfter != nil && d.CreatedAt.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && d.CreatedAt.After(*filter.CreatedBefore) {
		return false
	}
	return true
}

func paginate(docs []*Document, offset, limit int) []*Document {
	if offset >= len(docs) {
		return nil
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}

func (m *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.documents[id]; !exists {
		return citelinkerrors.StorageError("document not found", citelinkerrors.ErrNotFound)
	}
	delete(m.documents, id)
	delete(m.citations, id)
	return nil
}

func (m *MemoryStore) SaveCitations(ctx context.Context, documentID string, citations []models.Citation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]CitationRecord, len(citations))
	for i, c := range citations {
		records[i] = CitationRecord{DocumentID: documentID, Index: i, Citation: c}
	}
	m.citations[documentID] = records
	return nil
}

func (m *MemoryStore) ListCitations(ctx context.Context, filter CitationFilter) ([]CitationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []CitationRecord
	if filter.DocumentID != "" {
		out = append(out, m.citations[filter.DocumentID]...)
	} else {
		for _, records := range m.citations {
			out = append(out, records...)
		}
	}

	if filter.Type != "" {
		filtered := out[:0:0]
		for _, r := range out {
			if r.Citation.Type == filter.Type {
				filtered = append(filtered, r)
			}
		}
		out = filtered
	}

	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }
func (m *MemoryStore) Close() error                   { return nil }
