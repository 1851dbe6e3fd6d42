package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	_ "github.com/lib/pq" // Postgres driver

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// PostgresStore implements Store on Postgres: pooled connections over
// a documents/citations schema with JSONB payload columns.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens connStr, sizes the connection pool, and
// ensures the documents/citations schema exists.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, citelinkerrors.StorageError("open database", err)
	}
	if err := db.Ping(); err != nil {
		return nil, citelinkerrors.StorageError("ping database", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, citelinkerrors.StorageError("initialize schema", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);

	CREATE TABLE IF NOT EXISTS citations (
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		type TEXT NOT NULL,
		citation JSONB NOT NULL,
		PRIMARY KEY (document_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_citations_document_id ON citations(document_id);
	CREATE INDEX IF NOT EXISTS idx_citations_type ON citations(type);
	CREATE INDEX IF NOT EXISTS idx_citations_payload ON citations USING GIN (citation);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *PostgresStore) SaveDocument(ctx context.Context, d *Document) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, text, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text`,
		d.ID, d.Text, d.CreatedAt)
	if err != nil {
		return citelinkerrors.StorageError("save document", err)
	}
	return nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, text, created_at FROM documents WHERE id = $1`, id)
	var d Document
	if err := row.Scan(&d.ID, &d.Text, &d.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, citelinkerrors.StorageError("document not found", citelinkerrors.ErrNotFound)
		}
		return nil, citelinkerrors.StorageError("get document", err)
	}
	return &d, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error) {
	query := `SELECT id, text, created_at FROM documents WHERE 1=1`
	var args []interface{}
	argN := 1

	if filter.CreatedAfter != nil {
		query += placeholder("AND created_at >= ", &argN)
		args = append(args, *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query += placeholder("AND created_at <= ", &argN)
		args = append(args, *filter.CreatedBefore)
	}
	query += ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		query += placeholder("LIMIT ", &argN)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += placeholder("OFFSET ", &argN)
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

func (s *PostgresStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return citelinkerrors.StorageError("delete document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return citelinkerrors.StorageError("document not found", citelinkerrors.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) SaveCitations(ctx context.Context, documentID string, citations []models.Citation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return citelinkerrors.StorageError("begin tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE document_id = $1`, documentID); err != nil {
		return citelinkerrors.StorageError("clear citations", err)
	}

	for i, c := range citations {
		data, err := json.Marshal(c)
		if err != nil {
			return citelinkerrors.StorageError("marshal citation", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO citations (document_id, idx, type, citation) VALUES ($1, $2, $3, $4)`,
			documentID, i, string(c.Type), data); err != nil {
			return citelinkerrors.StorageError("save citation", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return citelinkerrors.StorageError("commit tx", err)
	}
	return nil
}

func (s *PostgresStore) ListCitations(ctx context.Context, filter CitationFilter) ([]CitationRecord, error) {
	query := `SELECT document_id, idx, citation FROM citations WHERE 1=1`
	var args []interface{}
	argN := 1

	if filter.DocumentID != "" {
		query += placeholder("AND document_id = ", &argN)
		args = append(args, filter.DocumentID)
	}
	if filter.Type != "" {
		query += placeholder("AND type = ", &argN)
		args = append(args, string(filter.Type))
	}
	query += ` ORDER BY document_id, idx ASC`
	if filter.Limit > 0 {
		query += placeholder("LIMIT ", &argN)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += placeholder("OFFSET ", &argN)
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

// placeholder appends a $N positional placeholder after clause and
// advances argN, so callers don't hand-track Postgres's numbered
// parameters while building a query conditionally.
func placeholder(clause string, argN *int) string {
	n := *argN
	*argN++
	return " " + clause + "$" + strconv.Itoa(n)
}
