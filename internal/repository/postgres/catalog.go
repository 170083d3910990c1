package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
	"ragguard/internal/domain/repositories"
)

// PostgresCatalog implements the DocumentCatalog interface.
type PostgresCatalog struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCatalog creates a Postgres-backed document catalog.
func NewCatalog(config *RepositoryConfig) repositories.DocumentCatalog {
	return &PostgresCatalog{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a document by ID.
func (c *PostgresCatalog) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, sensitivity, resource_type
		FROM %s
		WHERE id = $1
	`, c.tables.Documents)

	doc := &models.Document{}
	err := c.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Sensitivity,
		&doc.ResourceType,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// GetByIDs retrieves the documents that exist among the given ids.
func (c *PostgresCatalog) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Document, error) {
	if len(ids) == 0 {
		return map[string]*models.Document{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, title, content, sensitivity, resource_type
		FROM %s
		WHERE id = ANY($1)
	`, c.tables.Documents)

	rows, err := c.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}
	defer rows.Close()

	found := make(map[string]*models.Document, len(ids))
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Sensitivity, &doc.ResourceType); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		found[doc.ID] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return found, nil
}

// Search performs PostgreSQL full-text search over title and content,
// ranked by relevance.
func (c *PostgresCatalog) Search(ctx context.Context, query string, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 10
	}

	sql := fmt.Sprintf(`
		SELECT id, title, content, sensitivity, resource_type
		FROM %s
		WHERE to_tsvector('english', title || ' ' || content) @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', title || ' ' || content), plainto_tsquery('english', $1)) DESC
		LIMIT $2
	`, c.tables.Documents)

	rows, err := c.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Sensitivity, &doc.ResourceType); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// List returns every document in the catalog.
func (c *PostgresCatalog) List(ctx context.Context) ([]*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, sensitivity, resource_type
		FROM %s
		ORDER BY id
	`, c.tables.Documents)

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Sensitivity, &doc.ResourceType); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
