package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, keywords, created_at
FROM categories
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, description, keywords, created_at
FROM categories
WHERE name = $1
`, name)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get category", fmt.Errorf("name %s", name))
		}
		return nil, err
	}
	return category, nil
}

// Seed inserts the default taxonomy. Existing names are left untouched so
// operator edits survive restarts.
func (r *CategoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	for _, category := range categories {
		id := category.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := category.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		keywordsJSON, err := json.Marshal(category.Keywords)
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}

		_, err = r.db.ExecContext(ctx, `
INSERT INTO categories (id, name, description, keywords, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (name) DO NOTHING
`, id, category.Name, category.Description, keywordsJSON, createdAt)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", category.Name, err)
		}
	}
	return nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	var description sql.NullString
	var keywordsRaw []byte

	err := row.Scan(&category.ID, &category.Name, &description, &keywordsRaw, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	category.Description = description.String
	if err := json.Unmarshal(keywordsRaw, &category.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	return &category, nil
}
