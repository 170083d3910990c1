package rag

import (
	"context"

	"ragguard/internal/domain/models"
	"ragguard/internal/domain/repositories"
	"ragguard/internal/domain/services"
)

// CatalogRetriever adapts a document catalog's search into the retrieval
// collaborator interface. Real deployments can swap in an embedding-based
// retriever without touching the pipeline.
type CatalogRetriever struct {
	catalog repositories.DocumentCatalog
}

// NewCatalogRetriever creates a retriever backed by the given catalog.
func NewCatalogRetriever(catalog repositories.DocumentCatalog) *CatalogRetriever {
	return &CatalogRetriever{catalog: catalog}
}

var _ services.Retriever = (*CatalogRetriever)(nil)

// Search returns up to limit candidate documents for the question.
func (r *CatalogRetriever) Search(ctx context.Context, question string, limit int) ([]*models.Document, error) {
	return r.catalog.Search(ctx, question, limit)
}
