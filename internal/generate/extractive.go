package generate

import (
	"context"
	"fmt"
	"strings"

	"ragguard/internal/domain/models"
	"ragguard/internal/domain/services"
)

// ExtractiveGenerator builds answers by excerpting the provided documents.
// It requires no API keys, which makes it the default provider for
// development and tests.
type ExtractiveGenerator struct {
	snippetLen int
}

// NewExtractiveGenerator creates an extractive generator.
func NewExtractiveGenerator() *ExtractiveGenerator {
	return &ExtractiveGenerator{snippetLen: 100}
}

var _ services.Generator = (*ExtractiveGenerator)(nil)

// Name returns the provider name.
func (g *ExtractiveGenerator) Name() string {
	return "extractive"
}

// Generate assembles an answer from document excerpts.
func (g *ExtractiveGenerator) Generate(ctx context.Context, question string, docs []*models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("no documents to answer from")
	}

	var sb strings.Builder
	sb.WriteString("Based on the documents I can access, here's what I found:\n")
	for _, doc := range docs {
		fmt.Fprintf(&sb, "- %s: %s\n", doc.Title, g.snippet(doc.Content))
	}

	return sb.String(), nil
}

func (g *ExtractiveGenerator) snippet(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= g.snippetLen {
		return content
	}
	return content[:g.snippetLen] + "..."
}
