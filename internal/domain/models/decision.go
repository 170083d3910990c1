package models

import "time"

// Action names the operation a permission query asks about. The only action
// this service checks today is reading a document.
type Action string

const ActionView Action = "view"

// Outcome is the result of a permission decision. There is no third state:
// anything that cannot be determined resolves to deny.
type Outcome string

const (
	OutcomeAllow Outcome = "allow"
	OutcomeDeny  Outcome = "deny"
)

// DecisionSource records how a decision was obtained, so operators can
// distinguish "not permitted" from "could not determine".
type DecisionSource string

const (
	SourceCache      DecisionSource = "cache"
	SourceLiveCheck  DecisionSource = "live-check"
	SourceFailClosed DecisionSource = "fail-closed"
)

// DecisionReason qualifies a deny. Allows carry an empty reason.
type DecisionReason string

const (
	ReasonPolicy              DecisionReason = "policy"
	ReasonDocumentNotFound    DecisionReason = "document-not-found"
	ReasonTimeout             DecisionReason = "timeout"
	ReasonUnavailable         DecisionReason = "unavailable"
	ReasonUnresolvedPrincipal DecisionReason = "unresolved-principal"
)

// Transient reports whether the deny came from a failure that may succeed on
// a later request. Transient denies must never be cached.
func (r DecisionReason) Transient() bool {
	return r == ReasonTimeout || r == ReasonUnavailable
}

// PermissionQuery is one request unit sent to the policy-check collaborator.
type PermissionQuery struct {
	PrincipalID string `json:"principal_id"`
	DocumentID  string `json:"document_id"`
	Action      Action `json:"action"`
}

// PermissionDecision is the ephemeral result of one permission query. It is
// produced once per (principal, document, action) per request, may be served
// from a short-lived cache, and is never persisted as proof of access.
type PermissionDecision struct {
	Query     PermissionQuery `json:"query"`
	Outcome   Outcome         `json:"outcome"`
	Source    DecisionSource  `json:"source"`
	Reason    DecisionReason  `json:"reason,omitempty"`
	Latency   time.Duration   `json:"latency"`
	CheckedAt time.Time       `json:"checked_at"`
}

// Allowed reports whether the decision permits access.
func (d PermissionDecision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Failed reports whether the decision is a fail-closed deny rather than an
// authoritative answer from the policy store.
func (d PermissionDecision) Failed() bool {
	return d.Source == SourceFailClosed
}
