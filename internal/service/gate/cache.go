package gate

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"ragguard/internal/domain/models"
)

// decisionCache holds recent explicit decisions keyed by (principal,
// document, action). The underlying expirable LRU is safe for concurrent use
// without serializing unrelated principals' checks, and evicts entries past
// the freshness window on read.
type decisionCache struct {
	lru *expirable.LRU[string, models.PermissionDecision]
	ttl time.Duration
}

func newDecisionCache(size int, ttl time.Duration) *decisionCache {
	if size <= 0 {
		size = 4096
	}
	return &decisionCache{
		lru: expirable.NewLRU[string, models.PermissionDecision](size, nil, ttl),
		ttl: ttl,
	}
}

func cacheKey(q models.PermissionQuery) string {
	return q.PrincipalID + "\x00" + q.DocumentID + "\x00" + string(q.Action)
}

// get returns a cached decision still inside the freshness window.
func (c *decisionCache) get(q models.PermissionQuery) (models.PermissionDecision, bool) {
	d, ok := c.lru.Get(cacheKey(q))
	if !ok {
		return models.PermissionDecision{}, false
	}
	// The LRU expires entries itself; this guard keeps the freshness bound
	// explicit even if the entry was written with an older clock.
	if c.ttl > 0 && time.Since(d.CheckedAt) > c.ttl {
		return models.PermissionDecision{}, false
	}
	return d, true
}

// put stores an explicit decision. Callers must never pass fail-closed
// decisions; transient failures are not cacheable.
func (c *decisionCache) put(d models.PermissionDecision) {
	c.lru.Add(cacheKey(d.Query), d)
}
