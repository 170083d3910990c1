package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
)

func testDocs() []*models.Document {
	return []*models.Document{
		{ID: "holiday_schedule", Title: "Company Holiday Schedule", Content: "Closed December 25th.", Sensitivity: models.SensitivityPublic},
		{ID: "q4_budget", Title: "Q4 Budget Report", Content: "Budget allocation is $500,000.", Sensitivity: models.SensitivityRestricted},
		{ID: "office_policies", Title: "Office Policies", Content: "Office hours are 9 to 5.", Sensitivity: models.SensitivityPublic},
	}
}

func TestCatalogGetByID(t *testing.T) {
	c := NewCatalog(testDocs())

	doc, err := c.GetByID(context.Background(), "q4_budget")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if doc.Title != "Q4 Budget Report" {
		t.Errorf("title = %q", doc.Title)
	}

	_, err = c.GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCatalogGetByIDs(t *testing.T) {
	c := NewCatalog(testDocs())

	found, err := c.GetByIDs(context.Background(), []string{"q4_budget", "missing", "office_policies"})
	if err != nil {
		t.Fatalf("GetByIDs returned error: %v", err)
	}

	if len(found) != 2 {
		t.Fatalf("got %d documents, want 2", len(found))
	}
	if _, ok := found["missing"]; ok {
		t.Error("missing id present in result")
	}
}

func TestCatalogSearch(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		limit   int
		wantIDs []string
	}{
		{
			name:    "keyword match on content",
			query:   "budget",
			limit:   5,
			wantIDs: []string{"q4_budget"},
		},
		{
			name:    "keyword match on title",
			query:   "holiday",
			limit:   5,
			wantIDs: []string{"holiday_schedule"},
		},
		{
			name:    "limit respected",
			query:   "december budget",
			limit:   1,
			wantIDs: []string{"holiday_schedule"},
		},
		{
			name:    "no match falls back to corpus head",
			query:   "zzzzz",
			limit:   2,
			wantIDs: []string{"holiday_schedule", "q4_budget"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog(testDocs())

			docs, err := c.Search(context.Background(), tt.query, tt.limit)
			if err != nil {
				t.Fatalf("Search returned error: %v", err)
			}

			if len(docs) != len(tt.wantIDs) {
				t.Fatalf("got %d documents, want %d", len(docs), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if docs[i].ID != want {
					t.Errorf("docs[%d] = %s, want %s", i, docs[i].ID, want)
				}
			}
		})
	}
}

func TestCatalogDefaultsResourceType(t *testing.T) {
	c := NewCatalog([]*models.Document{{ID: "a", Title: "A", Content: "body"}})

	doc, err := c.GetByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if doc.ResourceType != "document" {
		t.Errorf("resource type = %q, want document", doc.ResourceType)
	}
}

func TestLoadCatalog(t *testing.T) {
	corpus := `
documents:
  - id: handbook
    title: Employee Handbook
    content: Be kind.
    sensitivity: public
  - id: roadmap
    title: Product Roadmap
    content: Ship the gate.
    sensitivity: restricted
  - id: unlabeled
    title: Unlabeled
    content: No sensitivity given.
`
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(corpus), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	docs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}

	// Unspecified sensitivity defaults to restricted - fail closed.
	unlabeled, err := c.GetByID(context.Background(), "unlabeled")
	if err != nil {
		t.Fatal(err)
	}
	if unlabeled.Sensitivity != models.SensitivityRestricted {
		t.Errorf("unlabeled sensitivity = %s, want restricted", unlabeled.Sensitivity)
	}
}

func TestLoadCatalogRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		corpus string
	}{
		{
			name:   "missing id",
			corpus: "documents:\n  - title: No ID\n    content: x\n",
		},
		{
			name:   "unknown sensitivity",
			corpus: "documents:\n  - id: a\n    title: A\n    content: x\n    sensitivity: top-secret\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corpus.yaml")
			if err := os.WriteFile(path, []byte(tt.corpus), 0o644); err != nil {
				t.Fatal(err)
			}

			if _, err := LoadCatalog(path); err == nil {
				t.Error("invalid corpus accepted")
			}
		})
	}
}
