package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"ragguard/internal/domain"
	"ragguard/internal/domain/models"
	"ragguard/internal/domain/services"
)

// stubVerifier returns fixed claims or a fixed error.
type stubVerifier struct {
	claims *models.AccessClaims
	err    error
}

func (v *stubVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func (v *stubVerifier) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestResolveBearerToken(t *testing.T) {
	verifier := &stubVerifier{
		claims: &models.AccessClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
			Name:             "Carol",
			Role:             "manager",
			Groups:           []string{"managers"},
		},
	}
	r := NewResolver(verifier, nil, false, testLogger())

	principal, err := r.Resolve(context.Background(), services.Credential{BearerToken: "token"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if principal.ID != "user-42" || principal.Role != "manager" {
		t.Errorf("principal = %+v", principal)
	}
	if len(principal.Groups) != 1 || principal.Groups[0] != "managers" {
		t.Errorf("groups = %v", principal.Groups)
	}
}

func TestResolveInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrUnauthorized}
	r := NewResolver(verifier, DefaultDevDirectory(), true, testLogger())

	_, err := r.Resolve(context.Background(), services.Credential{BearerToken: "bad"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestResolveDevUser(t *testing.T) {
	tests := []struct {
		name         string
		allowDevAuth bool
		userID       string
		wantErr      bool
		wantRole     string
	}{
		{name: "known dev user in dev mode", allowDevAuth: true, userID: "alice_manager", wantRole: "manager"},
		{name: "employee dev user", allowDevAuth: true, userID: "bob_employee", wantRole: "employee"},
		{name: "unknown dev user", allowDevAuth: true, userID: "mallory", wantErr: true},
		{name: "dev auth disabled", allowDevAuth: false, userID: "alice_manager", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directory := DefaultDevDirectory()
			if !tt.allowDevAuth {
				directory = nil
			}
			r := NewResolver(nil, directory, tt.allowDevAuth, testLogger())

			principal, err := r.Resolve(context.Background(), services.Credential{DevUserID: tt.userID})
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Errorf("got %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if principal.Role != tt.wantRole {
				t.Errorf("role = %s, want %s", principal.Role, tt.wantRole)
			}
		})
	}
}

func TestResolveMissingCredentials(t *testing.T) {
	r := NewResolver(nil, DefaultDevDirectory(), true, testLogger())

	_, err := r.Resolve(context.Background(), services.Credential{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestDevPrincipalsSorted(t *testing.T) {
	r := NewResolver(nil, DefaultDevDirectory(), true, testLogger())

	principals := r.DevPrincipals()
	if len(principals) != 2 {
		t.Fatalf("got %d principals, want 2", len(principals))
	}
	if principals[0].ID != "alice_manager" || principals[1].ID != "bob_employee" {
		t.Errorf("order = [%s, %s]", principals[0].ID, principals[1].ID)
	}
}
