// Package policy provides clients for the external policy-check
// collaborator. Every implementation answers the same question: may this
// subject perform this relation on that object?
package policy

import (
	"context"
	"errors"
)

// Transport-level failures, distinct from a valid "not allowed" answer. The
// authorization gateway treats only a successfully returned boolean as
// authoritative; these errors resolve to fail-closed denies.
var (
	// ErrUnavailable indicates the policy store could not be reached or
	// returned a non-success status.
	ErrUnavailable = errors.New("policy store unavailable")
)

// CheckRequest is one relationship query against the policy store.
type CheckRequest struct {
	// Subject is the principal reference, e.g. "user:alice_manager".
	Subject string
	// Relation is the permission being asked about, e.g. "view".
	Relation string
	// Object is the resource reference, e.g. "document:finance_budget_q4".
	Object string
}

// Client checks relationships against a policy store. Implementations must
// be safe for concurrent use; the gateway shares one client across all
// in-flight permission queries.
type Client interface {
	// Check returns whether the relationship holds. An error means the
	// answer could not be determined and carries no information about the
	// relationship itself.
	Check(ctx context.Context, req CheckRequest) (bool, error)
}
