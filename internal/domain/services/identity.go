package services

import (
	"context"

	"ragguard/internal/domain/models"
)

// Credential is an unverified inbound identity claim. Exactly one field is
// expected to be set: a bearer token, or a development-mode user id.
type Credential struct {
	BearerToken string
	DevUserID   string
}

// IdentityResolver turns an inbound credential into a resolved principal.
// Resolution failure is terminal for the request; there is no fallback to
// anonymous access.
type IdentityResolver interface {
	Resolve(ctx context.Context, cred Credential) (*models.Principal, error)
}
