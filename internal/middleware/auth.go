package middleware

import (
	"net/http"
	"strings"

	"ragguard/internal/domain/services"
	"ragguard/internal/httputil"
)

// DevUserHeader carries a development-mode user id. Honored only when the
// identity resolver has development auth enabled.
const DevUserHeader = "X-Dev-User"

// Auth resolves the request credential into a principal and stores it in the
// request context. Requests without a resolvable principal are rejected with
// 401 before any retrieval happens. Paths in skip are passed through
// unauthenticated (health checks).
func Auth(resolver services.IdentityResolver, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			cred := services.Credential{
				BearerToken: bearerToken(r),
				DevUserID:   r.Header.Get(DevUserHeader),
			}

			principal, err := resolver.Resolve(r.Context(), cred)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			next.ServeHTTP(w, httputil.WithPrincipal(r, principal))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
