// Package memory provides in-memory repository implementations for
// development, demos, and tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
	"ragguard/internal/domain/repositories"
)

// Catalog is an in-memory, read-only document catalog. It is constructed at
// startup and never mutated afterwards, so it needs no locking.
type Catalog struct {
	docs  map[string]*models.Document
	order []string // insertion order, for stable listings
}

// NewCatalog creates a catalog holding the given documents.
func NewCatalog(docs []*models.Document) *Catalog {
	c := &Catalog{
		docs:  make(map[string]*models.Document, len(docs)),
		order: make([]string, 0, len(docs)),
	}
	for _, doc := range docs {
		if doc.ResourceType == "" {
			doc.ResourceType = "document"
		}
		if _, ok := c.docs[doc.ID]; ok {
			continue
		}
		c.docs[doc.ID] = doc
		c.order = append(c.order, doc.ID)
	}
	return c
}

var _ repositories.DocumentCatalog = (*Catalog)(nil)

// GetByID returns a document or domain.ErrNotFound.
func (c *Catalog) GetByID(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// GetByIDs returns the documents that exist among the given ids.
func (c *Catalog) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Document, error) {
	found := make(map[string]*models.Document, len(ids))
	for _, id := range ids {
		if doc, ok := c.docs[id]; ok {
			found[id] = doc
		}
	}
	return found, nil
}

// Search performs simple keyword matching over titles and content. When
// nothing matches it falls back to the first documents in the corpus so the
// demo always has candidates to gate.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = len(c.order)
	}

	terms := strings.Fields(strings.ToLower(query))
	var matched []*models.Document
	for _, id := range c.order {
		doc := c.docs[id]
		if matchesAny(doc, terms) {
			matched = append(matched, doc)
			if len(matched) == limit {
				return matched, nil
			}
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	// No keyword hits: return the head of the corpus as candidates.
	n := min(limit, len(c.order))
	fallback := make([]*models.Document, 0, n)
	for _, id := range c.order[:n] {
		fallback = append(fallback, c.docs[id])
	}
	return fallback, nil
}

// List returns every document in insertion order.
func (c *Catalog) List(ctx context.Context) ([]*models.Document, error) {
	docs := make([]*models.Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, c.docs[id])
	}
	return docs, nil
}

func matchesAny(doc *models.Document, terms []string) bool {
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(content, term) {
			return true
		}
	}
	return false
}

// corpusFile is the YAML shape accepted by LoadCatalog.
type corpusFile struct {
	Documents []corpusDocument `yaml:"documents"`
}

type corpusDocument struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Content     string `yaml:"content"`
	Sensitivity string `yaml:"sensitivity"`
}

// LoadCatalog builds a catalog from a YAML corpus file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var corpus corpusFile
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	docs := make([]*models.Document, 0, len(corpus.Documents))
	for i, d := range corpus.Documents {
		if d.ID == "" {
			return nil, fmt.Errorf("corpus document %d: missing id", i)
		}
		sensitivity := models.Sensitivity(d.Sensitivity)
		switch sensitivity {
		case models.SensitivityPublic, models.SensitivityRestricted:
		case "":
			sensitivity = models.SensitivityRestricted // unspecified means restricted
		default:
			return nil, fmt.Errorf("corpus document %s: unknown sensitivity %q", d.ID, d.Sensitivity)
		}
		docs = append(docs, &models.Document{
			ID:          d.ID,
			Title:       d.Title,
			Content:     d.Content,
			Sensitivity: sensitivity,
		})
	}

	return NewCatalog(docs), nil
}
