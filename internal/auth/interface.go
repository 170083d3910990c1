package auth

import "ragguard/internal/domain/models"

// TokenVerifier defines the interface for bearer-token verification.
// This abstraction allows different verifier implementations while keeping
// the identity resolver agnostic to the verification details.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid
	// signature, issuer, or audience.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier (e.g. HTTP
	// connections for JWKS refresh).
	Close() error
}
