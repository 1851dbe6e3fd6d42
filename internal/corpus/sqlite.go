package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// SQLiteStore implements Store on SQLite: WAL pragmas, a single-writer
// connection pool, CREATE TABLE IF NOT EXISTS schema, and JSON-serialized
// nested fields for the documents/citations tables.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dbPath with WAL/foreign-key pragmas enabled,
// and initializes the schema if absent.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite performs best with a single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);

	CREATE TABLE IF NOT EXISTS citations (
		document_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		type TEXT NOT NULL,
		citation TEXT NOT NULL, -- JSON
		PRIMARY KEY (document_id, idx),
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_citations_document_id ON citations(document_id);
	CREATE INDEX IF NOT EXISTS idx_citations_type ON citations(type);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) SaveDocument(ctx context.Context, d *Document) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, text, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text = excluded.text`,
		d.ID, d.Text, d.CreatedAt)
	if err != nil {
		return citelinkerrors.StorageError("save document", err)
	}
	return nil
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, text, created_at FROM documents WHERE id = ?`, id)
	var d Document
	if err := row.Scan(&d.ID, &d.Text, &d.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, citelinkerrors.StorageError("document not found", citelinkerrors.ErrNotFound)
		}
		return nil, citelinkerrors.StorageError("get document", err)
	}
	return &d, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error) {
	query := `SELECT id, text, created_at FROM documents WHERE 1=1`
	var args []interface{}
	if filter.CreatedAfter != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query += ` AND created_at <= ?`
		args = append(args, *filter.CreatedBefore)
	}
	query += ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, citelinkerrors.StorageError("list documents", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Text, &d.CreatedAt); err != nil {
			return nil, citelinkerrors.StorageError("scan document", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return citelinkerrors.StorageError("delete document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return citelinkerrors.StorageError("document not found", citelinkerrors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) SaveCitations(ctx context.Context, documentID string, citations []models.Citation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return citelinkerrors.StorageError("begin tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE document_id = ?`, documentID); err != nil {
		return citelinkerrors.StorageError("clear citations", err)
	}

	for i, c := range citations {
		data, err := json.Marshal(c)
		if err != nil {
			return citelinkerrors.StorageError("marshal citation", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO citations (document_id, idx, type, citation) VALUES (?, ?, ?, ?)`,
			documentID, i, string(c.Type), data); err != nil {
			return citelinkerrors.StorageError("save citation", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return citelinkerrors.StorageError("commit tx", err)
	}
	return nil
}

func (s *SQLiteStore) ListCitations(ctx context.Context, filter CitationFilter) ([]CitationRecord, error) {
	query := `SELECT document_id, idx, citation FROM citations WHERE 1=1`
	var args []interface{}
	if filter.DocumentID != "" {
		query += ` AND document_id = ?`
		args = append(args, filter.DocumentID)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	query += ` ORDER BY document_id, idx ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, citelinkerrors.StorageError("list citations", err)
	}
	defer rows.Close()

	var out []CitationRecord
	for rows.Next() {
		var r CitationRecord
		var data []byte
		if err := rows.Scan(&r.DocumentID, &r.Index, &data); err != nil {
			return nil, citelinkerrors.StorageError("scan citation", err)
		}
		if err := json.Unmarshal(data, &r.Citation); err != nil {
			return nil, citelinkerrors.StorageError("unmarshal citation", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
