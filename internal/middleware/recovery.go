package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"ragguard/internal/httputil"
)

// Recovery converts panics into 500 responses. Each recovered panic gets an
// incident id shared between the response detail and the log entry, so a
// reported failure can be matched to its stack trace without exposing any
// internals to the caller.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					incidentID := uuid.NewString()
					logger.Error("panic recovered",
						"incident_id", incidentID,
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)

					httputil.RespondError(w, http.StatusInternalServerError,
						"internal server error (incident "+incidentID+")")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
