// Package gate implements the authorization gateway: the component between
// untrusted candidate retrieval and trusted content use. It is fail-closed
// under any uncertainty and never releases a partial batch.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ragguard/internal/audit"
	"ragguard/internal/domain/models"
	"ragguard/internal/domain/repositories"
	"ragguard/internal/domain/services"
	"ragguard/internal/policy"
)

// Options configures gateway behavior.
type Options struct {
	// CacheTTL bounds how long an explicit decision may be reused.
	CacheTTL time.Duration
	// CacheSize is the maximum number of cached decisions.
	CacheSize int
	// Concurrency bounds the fan-out width per batch, protecting the policy
	// store from thundering-herd bursts.
	Concurrency int
	// Timeout applies per permission query.
	Timeout time.Duration
	// Retries is the number of extra attempts for transient failures.
	// Explicit denies are never retried.
	Retries int
}

func (o *Options) applyDefaults() {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
}

// Gateway decides per-document access by consulting a policy-check
// collaborator. It owns caching, fan-out, timeouts, and the fail-closed
// policy.
type Gateway struct {
	policy   policy.Client
	catalog  repositories.DocumentCatalog
	cache    *decisionCache
	recorder audit.Recorder
	logger   *slog.Logger
	opts     Options

	// dispatches counts live policy-store calls, observable for
	// cache-idempotence checks.
	dispatches atomic.Int64
}

// New creates an authorization gateway.
func New(policyClient policy.Client, catalog repositories.DocumentCatalog, recorder audit.Recorder, opts Options, logger *slog.Logger) *Gateway {
	opts.applyDefaults()
	return &Gateway{
		policy:   policyClient,
		catalog:  catalog,
		cache:    newDecisionCache(opts.CacheSize, opts.CacheTTL),
		recorder: recorder,
		logger:   logger,
		opts:     opts,
	}
}

var _ services.DocumentAuthorizer = (*Gateway)(nil)

// Dispatches returns the number of live policy-store calls made so far.
func (g *Gateway) Dispatches() int64 {
	return g.dispatches.Load()
}

// Check resolves a decision for every candidate. It returns only once each
// candidate has one: allow, deny, or fail-closed deny. Collaborator failures
// degrade individual documents to denied; they never fail the batch.
func (g *Gateway) Check(ctx context.Context, principal *models.Principal, candidates []models.DocumentRef) (map[string]models.PermissionDecision, error) {
	batchID := uuid.NewString()
	decisions := make(map[string]models.PermissionDecision, len(candidates))

	// Duplicate candidate ids collapse to a single query; the shared
	// decision covers every occurrence.
	unique := dedupe(candidates)

	if principal == nil || principal.ID == "" {
		// No resolvable principal: deny everything without dispatching.
		now := time.Now()
		for _, ref := range unique {
			d := models.PermissionDecision{
				Query:     models.PermissionQuery{DocumentID: ref.ID, Action: models.ActionView},
				Outcome:   models.OutcomeDeny,
				Source:    models.SourceFailClosed,
				Reason:    models.ReasonUnresolvedPrincipal,
				CheckedAt: now,
			}
			decisions[ref.ID] = d
			g.record(batchID, d)
		}
		return decisions, nil
	}

	// Resolve candidates against the catalog in one read. A document absent
	// at decision time cannot be read, which externally looks identical to
	// a policy deny.
	ids := make([]string, len(unique))
	for i, ref := range unique {
		ids[i] = ref.ID
	}
	docs, err := g.catalog.GetByIDs(ctx, ids)
	if err != nil {
		g.logger.Error("catalog lookup failed, failing batch closed", "error", err)
		docs = nil
	}

	var pending []*models.Document
	now := time.Now()
	for _, ref := range unique {
		query := models.PermissionQuery{
			PrincipalID: principal.ID,
			DocumentID:  ref.ID,
			Action:      models.ActionView,
		}

		doc, exists := docs[ref.ID]
		if !exists {
			reason := models.ReasonDocumentNotFound
			if err != nil {
				reason = models.ReasonUnavailable
			}
			d := models.PermissionDecision{
				Query:     query,
				Outcome:   models.OutcomeDeny,
				Source:    models.SourceFailClosed,
				Reason:    reason,
				CheckedAt: now,
			}
			decisions[ref.ID] = d
			g.record(batchID, d)
			continue
		}

		if cached, ok := g.cache.get(query); ok {
			cached.Source = models.SourceCache
			cached.Latency = 0
			decisions[ref.ID] = cached
			g.record(batchID, cached)
			continue
		}

		pending = append(pending, doc)
	}

	if len(pending) == 0 {
		return decisions, nil
	}

	// Bounded concurrent fan-out. Each query absorbs its own failure into a
	// fail-closed deny, so the group itself never errors and Wait is the
	// single synchronization point: no decision arrives after it returns.
	results := make([]models.PermissionDecision, len(pending))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.opts.Concurrency)

	for i, doc := range pending {
		group.Go(func() error {
			results[i] = g.checkOne(groupCtx, principal, doc)
			return nil
		})
	}
	group.Wait()

	for _, d := range results {
		decisions[d.Query.DocumentID] = d
		g.record(batchID, d)
	}

	return decisions, nil
}

// checkOne dispatches a single permission query with a per-query timeout and
// bounded retries for transient failures.
func (g *Gateway) checkOne(ctx context.Context, principal *models.Principal, doc *models.Document) models.PermissionDecision {
	query := models.PermissionQuery{
		PrincipalID: principal.ID,
		DocumentID:  doc.ID,
		Action:      models.ActionView,
	}
	req := policy.CheckRequest{
		Subject:  principal.PolicyRef(),
		Relation: string(models.ActionView),
		Object:   doc.PolicyRef(),
	}

	start := time.Now()
	var lastReason models.DecisionReason

	for attempt := 0; attempt <= g.opts.Retries; attempt++ {
		checkCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		g.dispatches.Add(1)
		allowed, err := g.policy.Check(checkCtx, req)
		cancel()

		if err == nil {
			// An explicit answer from the policy store: authoritative,
			// cacheable, never retried.
			d := models.PermissionDecision{
				Query:     query,
				Outcome:   models.OutcomeDeny,
				Source:    models.SourceLiveCheck,
				Latency:   time.Since(start),
				CheckedAt: time.Now(),
			}
			if allowed {
				d.Outcome = models.OutcomeAllow
			} else {
				d.Reason = models.ReasonPolicy
			}
			g.cache.put(d)
			return d
		}

		lastReason = classifyFailure(err)
		g.logger.Warn("permission check failed",
			"document_id", doc.ID,
			"principal_id", principal.ID,
			"attempt", attempt+1,
			"reason", lastReason,
			"error", err,
		)

		// Stop retrying once the overall request is gone.
		if ctx.Err() != nil {
			break
		}
	}

	// Fail closed: the document is excluded, but the failure is never
	// cached - the next request gets a fresh chance.
	return models.PermissionDecision{
		Query:     query,
		Outcome:   models.OutcomeDeny,
		Source:    models.SourceFailClosed,
		Reason:    lastReason,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
}

func classifyFailure(err error) models.DecisionReason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.ReasonTimeout
	}
	return models.ReasonUnavailable
}

func (g *Gateway) record(batchID string, d models.PermissionDecision) {
	g.recorder.Record(&repositories.AuditEntry{
		RequestID:   batchID,
		PrincipalID: d.Query.PrincipalID,
		DocumentID:  d.Query.DocumentID,
		Action:      d.Query.Action,
		Outcome:     d.Outcome,
		Source:      d.Source,
		Reason:      d.Reason,
		Latency:     d.Latency,
		RecordedAt:  d.CheckedAt,
	})
}

func dedupe(refs []models.DocumentRef) []models.DocumentRef {
	seen := make(map[string]struct{}, len(refs))
	out := make([]models.DocumentRef, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		out = append(out, ref)
	}
	return out
}
