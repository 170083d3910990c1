package handler

import (
	"net/http"

	"ragguard/internal/httputil"
)

// HealthCheck reports process liveness only. It deliberately says nothing
// about the policy store or other collaborators: this endpoint is reachable
// unauthenticated and must not leak infrastructure state.
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
