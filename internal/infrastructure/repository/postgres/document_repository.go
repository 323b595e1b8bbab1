package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	stored_filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	full_text TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	uploaded_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS document_chunks (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index INT NOT NULL,
	chunk_text TEXT NOT NULL,
	PRIMARY KEY (document_id, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, original_filename, stored_filename, mime_type, full_text, summary, status, error_message, uploaded_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		doc.ID, doc.OriginalFilename, doc.StoredFilename, doc.MimeType, doc.FullText,
		doc.Summary, string(doc.Status), doc.Error, doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, original_filename, stored_filename, mime_type, full_text, summary, status, error_message, uploaded_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var status string

	err := row.Scan(
		&doc.ID, &doc.OriginalFilename, &doc.StoredFilename, &doc.MimeType, &doc.FullText,
		&doc.Summary, &status, &doc.Error, &doc.UploadedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)

	chunks, err := r.loadChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Chunks = chunks
	return &doc, nil
}

func (r *DocumentRepository) loadChunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT chunk_index, chunk_text
FROM document_chunks
WHERE document_id = $1
ORDER BY chunk_index
`, id)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.Index, &chunk.Text); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return chunks, nil
}

// SaveExtraction persists the extracted text and replaces the chunk set in
// one transaction, so readers never observe text from one extraction run
// next to chunks from another.
func (r *DocumentRepository) SaveExtraction(ctx context.Context, id string, fullText string, chunks []domain.Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin extraction tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
UPDATE documents
SET full_text = $2, updated_at = $3
WHERE id = $1
`, id, fullText, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save full text: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "save extraction", fmt.Errorf("id %s", id))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("clear previous chunks: %w", err)
	}
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO document_chunks (document_id, chunk_index, chunk_text) VALUES ($1,$2,$3)
`, id, chunk.Index, chunk.Text); err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit extraction tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) SaveSummary(ctx context.Context, id string, summary string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET summary = $2, updated_at = $3
WHERE id = $1
`, id, summary, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "save summary", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update status", fmt.Errorf("id %s", id))
	}
	return nil
}
