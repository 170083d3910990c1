package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
	"ragguard/internal/httputil"
	"ragguard/internal/service/rag"
)

// QueryHandler handles question-answering requests.
type QueryHandler struct {
	pipeline *rag.Pipeline
	logger   *slog.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(pipeline *rag.Pipeline, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the body of a successful POST /query.
type QueryResponse struct {
	Answer             string                   `json:"answer"`
	AllowedDocumentIDs []string                 `json:"allowed_document_ids"`
	BlockedDocumentIDs []string                 `json:"blocked_document_ids"`
	BlockedDocuments   []models.BlockedDocument `json:"blocked_documents"`
	CheckFailures      []string                 `json:"check_failures,omitempty"`
}

// Query answers a question using only documents the principal may read.
// POST /query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)
	if principal == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req QueryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.pipeline.Answer(r.Context(), principal, req.Question)
	if err != nil {
		h.respondPipelineError(w, r, err)
		return
	}

	if len(result.AllowedDocumentIDs) == 0 {
		h.logger.Info("query answered with no accessible results",
			"principal_id", principal.ID,
			"blocked_count", len(result.BlockedDocuments),
		)
	}

	httputil.RespondJSON(w, http.StatusOK, QueryResponse{
		Answer:             result.Answer,
		AllowedDocumentIDs: result.AllowedDocumentIDs,
		BlockedDocumentIDs: result.BlockedDocumentIDs(),
		BlockedDocuments:   result.BlockedDocuments,
		CheckFailures:      result.CheckFailures,
	})
}

func (h *QueryHandler) respondPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, "question is required and must be under 4000 characters")
	case errors.Is(err, domain.ErrGenerationFailed):
		// Generation runs only after gating, so a 502 says nothing about
		// which documents were candidates.
		httputil.RespondError(w, http.StatusBadGateway, "answer generation failed")
	default:
		h.logger.Error("query failed", "error", err, "path", r.URL.Path)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
