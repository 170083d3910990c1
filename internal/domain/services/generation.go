package services

import (
	"context"

	"ragguard/internal/domain/models"
)

// Generator turns a question and a set of authorized documents into prose.
// Implementations must treat the document list as the complete universe of
// usable content for the answer.
type Generator interface {
	Generate(ctx context.Context, question string, docs []*models.Document) (string, error)

	// Name returns the provider name (e.g. "anthropic", "extractive").
	Name() string
}
