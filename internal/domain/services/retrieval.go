package services

import (
	"context"

	"ragguard/internal/domain/models"
)

// Retriever produces candidate documents for a question, most relevant
// first, bounded by limit. Candidates are unfiltered: authorization happens
// after retrieval, never inside it.
type Retriever interface {
	Search(ctx context.Context, question string, limit int) ([]*models.Document, error)
}
