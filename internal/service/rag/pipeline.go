// Package rag orchestrates answering: retrieve candidates, gate them, hand
// only authorized content to generation, and report blocked ids without
// their content.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
	"ragguard/internal/domain/services"
)

// NoAccessibleResultsAnswer is returned when no candidate survived the gate.
// It is a valid response state, not an error, and deliberately says nothing
// about whether blocked documents exist.
const NoAccessibleResultsAnswer = "I couldn't find any information you're authorized to access that answers your question."

// Options configures pipeline behavior.
type Options struct {
	// TopK bounds the candidate list size.
	TopK int
	// ExposeBlockedTitles includes blocked-document titles in responses.
	// Whether existence is itself sensitive is a deployment policy choice.
	ExposeBlockedTitles bool
}

// Pipeline implements the answer flow. Generation never starts before the
// gateway has resolved a decision for every candidate in the batch.
type Pipeline struct {
	retriever  services.Retriever
	authorizer services.DocumentAuthorizer
	generator  services.Generator
	logger     *slog.Logger
	opts       Options
}

// NewPipeline creates a retrieval pipeline.
func NewPipeline(retriever services.Retriever, authorizer services.DocumentAuthorizer, generator services.Generator, opts Options, logger *slog.Logger) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &Pipeline{
		retriever:  retriever,
		authorizer: authorizer,
		generator:  generator,
		logger:     logger,
		opts:       opts,
	}
}

// Answer retrieves candidates for the question, authorizes them as one
// batch, and answers from the allowed subset only.
func (p *Pipeline) Answer(ctx context.Context, principal *models.Principal, question string) (*models.QueryResult, error) {
	if err := p.validateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	candidates, err := p.retriever.Search(ctx, question, p.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}

	refs := make([]models.DocumentRef, len(candidates))
	byID := make(map[string]*models.Document, len(candidates))
	for i, doc := range candidates {
		refs[i] = doc.Ref()
		byID[doc.ID] = doc
	}

	// One batched gateway call for the whole candidate set. Per-document
	// sequential checks are forbidden: batching is a correctness
	// requirement (no timing channel on individual documents), not an
	// optimization.
	decisions, err := p.authorizer.Check(ctx, principal, refs)
	if err != nil {
		return nil, fmt.Errorf("authorize candidates: %w", err)
	}

	var (
		allowed  []*models.Document
		blocked  []models.BlockedDocument
		failures []string
	)
	for id, decision := range decisions {
		doc := byID[id]
		if decision.Allowed() && doc != nil {
			allowed = append(allowed, doc)
			continue
		}

		b := models.BlockedDocument{ID: id}
		if p.opts.ExposeBlockedTitles && doc != nil {
			b.Title = doc.Title
		}
		blocked = append(blocked, b)

		if decision.Failed() && decision.Reason.Transient() {
			failures = append(failures, id)
		}
	}

	// Deterministic ordering for responses and tests; decision maps do not
	// preserve candidate order.
	sort.Slice(allowed, func(i, j int) bool { return allowed[i].ID < allowed[j].ID })
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].ID < blocked[j].ID })
	sort.Strings(failures)

	result := &models.QueryResult{
		AllowedDocumentIDs: make([]string, len(allowed)),
		BlockedDocuments:   blocked,
		CheckFailures:      failures,
	}
	for i, doc := range allowed {
		result.AllowedDocumentIDs[i] = doc.ID
	}
	if result.BlockedDocuments == nil {
		result.BlockedDocuments = []models.BlockedDocument{}
	}

	if len(allowed) == 0 {
		result.Answer = NoAccessibleResultsAnswer
		return result, nil
	}

	answer, err := p.generator.Generate(ctx, question, allowed)
	if err != nil {
		// Generation runs strictly after gating, so this error carries no
		// information about candidate accessibility.
		p.logger.Error("generation failed", "provider", p.generator.Name(), "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	result.Answer = answer

	return result, nil
}

func (p *Pipeline) validateQuestion(question string) error {
	return validation.Validate(question,
		validation.Required,
		validation.Length(1, 4000),
	)
}
