package models

import "github.com/golang-jwt/jwt/v5"

// Principal is the authenticated actor permission decisions are evaluated
// against. It is created once at credential resolution, is immutable for the
// lifetime of the request, and is discarded when the request ends.
type Principal struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Role       string            `json:"role"` // "employee", "manager", ...
	Groups     []string          `json:"groups,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// PolicyRef returns the subject reference used in policy-check queries,
// e.g. "user:alice_manager".
func (p *Principal) PolicyRef() string {
	return "user:" + p.ID
}

// AccessClaims represents the JWT claims structure issued by the identity
// provider. Role and groups are carried in custom claims alongside the
// registered set (sub, iss, aud, exp, iat).
type AccessClaims struct {
	jwt.RegisteredClaims
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Groups []string `json:"groups"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
