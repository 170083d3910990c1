package services

import (
	"context"

	"ragguard/internal/domain/models"
)

// DocumentAuthorizer decides, per candidate document, whether a principal may
// read it. Check returns only once every candidate has a decision - allow,
// deny, or fail-closed deny - so callers never see a partial batch.
//
// The returned map is keyed by document id and covers exactly the candidate
// set (duplicates collapse to a single entry).
type DocumentAuthorizer interface {
	Check(ctx context.Context, principal *models.Principal, candidates []models.DocumentRef) (map[string]models.PermissionDecision, error)
}
