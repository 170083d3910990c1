package handler

import (
	"log/slog"
	"net/http"

	"ragguard/internal/auth"
	"ragguard/internal/httputil"
)

// UsersHandler lists the development directory. It exists only for demo
// setups; when development auth is disabled the route answers 404 so the
// surface is indistinguishable from an unregistered path.
type UsersHandler struct {
	resolver     *auth.Resolver
	allowDevAuth bool
	logger       *slog.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(resolver *auth.Resolver, allowDevAuth bool, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		resolver:     resolver,
		allowDevAuth: allowDevAuth,
		logger:       logger,
	}
}

// ListUsers lists configured development principals.
// GET /users
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.allowDevAuth {
		httputil.RespondError(w, http.StatusNotFound, "not found")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users": h.resolver.DevPrincipals(),
	})
}
