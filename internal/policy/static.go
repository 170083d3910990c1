package policy

import (
	"context"
	"strings"
	"sync"
)

// Tuple is one stored relationship, mirroring the shape the real policy
// store holds ("user:alice_manager" has "member" on "group:managers").
type Tuple struct {
	Subject  string
	Relation string
	Object   string
}

// StaticClient is an in-memory policy client for development and tests. It
// implements the same Client interface as the real store, so swapping
// implementations requires no change to the gateway or pipeline.
//
// Resolution follows the demo authorization model: a relation holds if there
// is a direct tuple, or if the subject is a member of a group that holds the
// relation (one level of indirection, matching the group-membership union in
// the seeded model).
type StaticClient struct {
	mu     sync.RWMutex
	tuples map[Tuple]struct{}
}

// NewStaticClient creates a static client pre-loaded with the given tuples.
func NewStaticClient(tuples []Tuple) *StaticClient {
	c := &StaticClient{tuples: make(map[Tuple]struct{}, len(tuples))}
	for _, t := range tuples {
		c.tuples[t] = struct{}{}
	}
	return c
}

var _ Client = (*StaticClient)(nil)

// Write adds a tuple. Used by tests and the dev-mode seeding path.
func (c *StaticClient) Write(t Tuple) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tuples[t] = struct{}{}
}

// Check reports whether the relationship holds. It never fails: an in-memory
// lookup has no transport to lose.
func (c *StaticClient) Check(ctx context.Context, req CheckRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// Direct tuple.
	if _, ok := c.tuples[Tuple{Subject: req.Subject, Relation: req.Relation, Object: req.Object}]; ok {
		return true, nil
	}

	// Group membership union: subject member of group, group holds relation.
	for t := range c.tuples {
		if t.Object == req.Object && t.Relation == req.Relation && strings.HasPrefix(t.Subject, "group:") {
			group := strings.TrimSuffix(t.Subject, "#member")
			if _, ok := c.tuples[Tuple{Subject: req.Subject, Relation: "member", Object: group}]; ok {
				return true, nil
			}
		}
	}

	return false, nil
}

// DemoTuples returns the relationships seeded for the demo corpus: public
// documents are viewable by everyone via the "everyone" group, restricted
// documents only by the managers group.
func DemoTuples() []Tuple {
	return []Tuple{
		{Subject: "user:alice_manager", Relation: "member", Object: "group:managers"},
		{Subject: "user:alice_manager", Relation: "member", Object: "group:everyone"},
		{Subject: "user:bob_employee", Relation: "member", Object: "group:everyone"},

		{Subject: "group:everyone#member", Relation: "view", Object: "document:holiday_schedule"},
		{Subject: "group:everyone#member", Relation: "view", Object: "document:office_policies"},
		{Subject: "group:everyone#member", Relation: "view", Object: "document:health_benefits"},

		{Subject: "group:managers#member", Relation: "view", Object: "document:q4_budget"},
		{Subject: "group:managers#member", Relation: "view", Object: "document:salary_bands"},
		{Subject: "group:managers#member", Relation: "view", Object: "document:executive_strategy"},
	}
}
