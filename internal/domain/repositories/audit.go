package repositories

import (
	"context"
	"time"

	"ragguard/internal/domain/models"
)

// AuditEntry captures one permission decision for later inspection: who
// asked, what was checked, what was decided, how long it took, and whether
// the answer was cache-served.
type AuditEntry struct {
	RequestID   string                `json:"request_id"`
	PrincipalID string                `json:"principal_id"`
	DocumentID  string                `json:"document_id"`
	Action      models.Action         `json:"action"`
	Outcome     models.Outcome        `json:"outcome"`
	Source      models.DecisionSource `json:"source"`
	Reason      models.DecisionReason `json:"reason,omitempty"`
	Latency     time.Duration         `json:"latency"`
	RecordedAt  time.Time             `json:"recorded_at"`
}

// AuditStore is the append-only destination for audit entries.
type AuditStore interface {
	Append(ctx context.Context, entry *AuditEntry) error
}
