package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
	"ragguard/internal/domain/services"
)

// Resolver implements services.IdentityResolver. It accepts two credential
// shapes: a bearer JWT validated against the configured trust parameters,
// and - only when development mode is explicitly enabled - an opaque user id
// resolved against a fixed directory.
type Resolver struct {
	verifier     TokenVerifier
	devDirectory map[string]*models.Principal
	allowDevAuth bool
	logger       *slog.Logger
}

// NewResolver creates an identity resolver. verifier may be nil when only
// development-mode auth is configured; devDirectory may be nil when
// development mode is disabled.
func NewResolver(verifier TokenVerifier, devDirectory map[string]*models.Principal, allowDevAuth bool, logger *slog.Logger) *Resolver {
	return &Resolver{
		verifier:     verifier,
		devDirectory: devDirectory,
		allowDevAuth: allowDevAuth,
		logger:       logger,
	}
}

var _ services.IdentityResolver = (*Resolver)(nil)

// Resolve turns a credential into a principal. Failure is terminal for the
// request - there is no anonymous fallback.
func (r *Resolver) Resolve(ctx context.Context, cred services.Credential) (*models.Principal, error) {
	switch {
	case cred.BearerToken != "":
		return r.resolveBearer(cred.BearerToken)
	case cred.DevUserID != "":
		return r.resolveDevUser(cred.DevUserID)
	default:
		return nil, fmt.Errorf("missing credentials: %w", domain.ErrUnauthorized)
	}
}

func (r *Resolver) resolveBearer(token string) (*models.Principal, error) {
	if r.verifier == nil {
		r.logger.Warn("bearer token presented but no verifier configured")
		return nil, domain.ErrUnauthorized
	}

	claims, err := r.verifier.VerifyToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	return &models.Principal{
		ID:     claims.GetUserID(),
		Name:   claims.Name,
		Role:   claims.Role,
		Groups: claims.Groups,
	}, nil
}

func (r *Resolver) resolveDevUser(userID string) (*models.Principal, error) {
	if !r.allowDevAuth {
		r.logger.Warn("dev-mode credential rejected, dev auth disabled")
		return nil, domain.ErrUnauthorized
	}

	principal, ok := r.devDirectory[userID]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return principal, nil
}

// DevPrincipals returns the development directory sorted by id, for the
// dev-mode /users listing.
func (r *Resolver) DevPrincipals() []*models.Principal {
	principals := make([]*models.Principal, 0, len(r.devDirectory))
	for _, p := range r.devDirectory {
		principals = append(principals, p)
	}
	sort.Slice(principals, func(i, j int) bool { return principals[i].ID < principals[j].ID })
	return principals
}

// DefaultDevDirectory returns the fixed demo principals used in development
// mode. Alice is a manager, Bob a regular employee.
func DefaultDevDirectory() map[string]*models.Principal {
	return map[string]*models.Principal{
		"alice_manager": {
			ID:     "alice_manager",
			Name:   "Alice Manager",
			Role:   "manager",
			Groups: []string{"managers"},
			Attributes: map[string]string{
				"department": "Engineering",
			},
		},
		"bob_employee": {
			ID:   "bob_employee",
			Name: "Bob Employee",
			Role: "employee",
			Attributes: map[string]string{
				"department": "Engineering",
			},
		},
	}
}
