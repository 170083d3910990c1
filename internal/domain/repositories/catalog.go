package repositories

import (
	"context"

	"ragguard/internal/domain/models"
)

// DocumentCatalog is the read-only mapping from document id to metadata and
// content. Constructed at startup, read-only thereafter, replaceable in
// tests.
type DocumentCatalog interface {
	// GetByID returns a document or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetByIDs returns the documents that exist among the given ids, keyed
	// by id. Missing ids are simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Document, error)

	// Search returns up to limit documents relevant to the query, most
	// relevant first.
	Search(ctx context.Context, query string, limit int) ([]*models.Document, error)

	// List returns every document in the catalog.
	List(ctx context.Context) ([]*models.Document, error)
}
