package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
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
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	category_id TEXT REFERENCES categories(id),
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	mime_type TEXT NOT NULL,
	extracted_text TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	reasoning TEXT,
	suggested_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
	key_entities JSONB NOT NULL DEFAULT '[]'::jsonb,
	summary TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	processed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS document_chunks (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index INT NOT NULL,
	content TEXT NOT NULL,
	chunk_type TEXT,
	embedding_id TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (document_id, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_document_chunks_document ON document_chunks(document_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `id, user_id, category_id, filename, storage_path, size_bytes, mime_type, extracted_text, status, error_message, confidence, reasoning, suggested_categories, key_entities, summary, created_at, updated_at, processed_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	suggestedJSON, keyEntitiesJSON, err := marshalClassificationLists(doc.SuggestedCategories, doc.KeyEntities)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	`+documentColumns+`
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`,
		doc.ID, doc.UserID, nullableText(doc.CategoryID), doc.Filename, doc.StoragePath, doc.SizeBytes, doc.MimeType,
		doc.ExtractedText, string(doc.Status), doc.Error, doc.Confidence, doc.Reasoning,
		suggestedJSON, keyEntitiesJSON, doc.Summary, doc.CreatedAt, doc.UpdatedAt, nullableTime(doc.ProcessedAt),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)
	return scanDocument(row, id)
}

func (r *DocumentRepository) GetOwned(ctx context.Context, userID, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1 AND user_id = $2
`, id, userID)
	return scanDocument(row, id)
}

func (r *DocumentRepository) ClaimPending(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, updated_at = $3
WHERE id = $1 AND status = $4
`, id, string(domain.StatusProcessing), time.Now().UTC(), string(domain.StatusPending))
	if err != nil {
		return false, fmt.Errorf("claim document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim document rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *DocumentRepository) CompleteProcessing(ctx context.Context, id, text, categoryID string, cls domain.Classification, processedAt time.Time) error {
	suggestedJSON, keyEntitiesJSON, err := marshalClassificationLists(cls.SuggestedCategories, cls.KeyEntities)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2,
	extracted_text = $3,
	category_id = $4,
	confidence = $5,
	reasoning = $6,
	suggested_categories = $7,
	key_entities = $8,
	summary = $9,
	error_message = '',
	processed_at = $10,
	updated_at = $10
WHERE id = $1 AND status = $11
`,
		id, string(domain.StatusCompleted), text, nullableText(categoryID),
		cls.Confidence, cls.Reasoning, suggestedJSON, keyEntitiesJSON, cls.Summary,
		processedAt, string(domain.StatusProcessing),
	)
	if err != nil {
		return fmt.Errorf("complete document: %w", err)
	}
	return requireTransition(result, "complete document", id)
}

func (r *DocumentRepository) FailProcessing(ctx context.Context, id, message string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1 AND status = $5
`, id, string(domain.StatusFailed), message, time.Now().UTC(), string(domain.StatusProcessing))
	if err != nil {
		return fmt.Errorf("fail document: %w", err)
	}
	return requireTransition(result, "fail document", id)
}

func (r *DocumentRepository) List(ctx context.Context, userID string, status domain.DocumentStatus, categoryID string, offset, limit int) ([]domain.Document, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if status != "" {
		args = append(args, string(status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if categoryID != "" {
		args = append(args, categoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
SELECT `+documentColumns+`
FROM documents
WHERE %s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d
`, strings.Join(conditions, " AND "), len(args)-1, len(args))

	return r.queryDocuments(ctx, query, args...)
}

func (r *DocumentRepository) ListCompleted(ctx context.Context, userID string, documentIDs, categoryIDs []string, limit int) ([]domain.Document, error) {
	conditions := []string{"user_id = $1", "status = $2"}
	args := []any{userID, string(domain.StatusCompleted)}

	if len(documentIDs) > 0 {
		args = append(args, documentIDs)
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if len(categoryIDs) > 0 {
		args = append(args, categoryIDs)
		conditions = append(conditions, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
SELECT `+documentColumns+`
FROM documents
WHERE %s
ORDER BY created_at DESC
LIMIT $%d
`, strings.Join(conditions, " AND "), len(args))

	return r.queryDocuments(ctx, query, args...)
}

func (r *DocumentRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `
DELETE FROM documents
WHERE id = $1 AND user_id = $2
`, id, userID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *DocumentRepository) CountsByStatus(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM documents
WHERE user_id = $1
GROUP BY status
`, userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (r *DocumentRepository) CountsByCategory(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT COALESCE(c.name, 'Uncategorized'), COUNT(*)
FROM documents d
LEFT JOIN categories c ON c.id = d.category_id
WHERE d.user_id = $1
GROUP BY COALESCE(c.name, 'Uncategorized')
`, userID)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}

func (r *DocumentRepository) RecentUploads(ctx context.Context, userID string, limit int) ([]domain.Document, error) {
	return r.queryDocuments(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
}

func (r *DocumentRepository) AverageConfidence(ctx context.Context, userID string) (*float64, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT AVG(confidence)
FROM documents
WHERE user_id = $1 AND status = $2
`, userID, string(domain.StatusCompleted))

	var avg sql.NullFloat64
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("scan average confidence: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row *sql.Row, id string) (*domain.Document, error) {
	doc, err := scanDocumentRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return doc, nil
}

func scanDocumentRow(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var categoryID sql.NullString
	var extractedText, errorMessage, reasoning, summary sql.NullString
	var suggestedRaw, keyEntitiesRaw []byte
	var status string
	var processedAt sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.UserID, &categoryID, &doc.Filename, &doc.StoragePath, &doc.SizeBytes, &doc.MimeType,
		&extractedText, &status, &errorMessage, &doc.Confidence, &reasoning,
		&suggestedRaw, &keyEntitiesRaw, &summary, &doc.CreatedAt, &doc.UpdatedAt, &processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.CategoryID = categoryID.String
	doc.ExtractedText = extractedText.String
	doc.Error = errorMessage.String
	doc.Reasoning = reasoning.String
	doc.Summary = summary.String
	doc.Status = domain.DocumentStatus(status)
	if processedAt.Valid {
		processed := processedAt.Time
		doc.ProcessedAt = &processed
	}
	if err := json.Unmarshal(suggestedRaw, &doc.SuggestedCategories); err != nil {
		return nil, fmt.Errorf("unmarshal suggested categories: %w", err)
	}
	if err := json.Unmarshal(keyEntitiesRaw, &doc.KeyEntities); err != nil {
		return nil, fmt.Errorf("unmarshal key entities: %w", err)
	}
	return &doc, nil
}

func requireTransition(result sql.Result, operation, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrStateConflict, operation, fmt.Errorf("document %s is not processing", id))
	}
	return nil
}

func marshalClassificationLists(suggestions []domain.CategorySuggestion, entities []string) ([]byte, []byte, error) {
	if suggestions == nil {
		suggestions = []domain.CategorySuggestion{}
	}
	if entities == nil {
		entities = []string{}
	}
	suggestedJSON, err := json.Marshal(suggestions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal suggested categories: %w", err)
	}
	keyEntitiesJSON, err := json.Marshal(entities)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal key entities: %w", err)
	}
	return suggestedJSON, keyEntitiesJSON, nil
}

func nullableText(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
