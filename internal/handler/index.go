package handler

import (
	"net/http"

	"ragguard/internal/httputil"
)

// Index is the unauthenticated welcome route. It names the service and its
// endpoints; like the health check it says nothing about collaborator state.
// GET /
func Index(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "ragguard",
		"endpoints": map[string]string{
			"query":  "POST /query",
			"users":  "GET /users",
			"health": "GET /health",
		},
	})
}
