// Package transaction computes changesets from requested package actions.
//
// A Transaction collects requests with Enqueue, optionally on top of a
// previously accepted changeset given to SetState, and Run resolves them
// under a Policy into a changeset that is closed under requires and free of
// conflicts. Given the same cache, requests and policy, Run always produces
// the same changeset.
package transaction

import (
	"maps"
	"slices"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
	"go.trai.ch/zerr"
)

// State is the lifecycle stage of a transaction.
type State string

const (
	// StateBuilding accepts requests.
	StateBuilding State = "Building"
	// StateResolving is set while Run propagates constraints.
	StateResolving State = "Resolving"
	// StateResolved means the changeset is consistent.
	StateResolved State = "Resolved"
	// StateFailed means the last Run found no consistent changeset.
	StateFailed State = "Failed"
)

// Transaction resolves requested actions against a cache.
type Transaction struct {
	cache   *cache.Cache
	policy  Policy
	changes *domain.ChangeSet
	queue   map[*domain.Package]domain.Action
	state   State
	err     error
}

// New creates a transaction with an empty changeset.
func New(c *cache.Cache, policy Policy) *Transaction {
	return &Transaction{
		cache:   c,
		policy:  policy,
		changes: domain.NewChangeSet(),
		queue:   make(map[*domain.Package]domain.Action),
		state:   StateBuilding,
	}
}

// Policy returns the policy used by Run.
func (t *Transaction) Policy() Policy {
	return t.policy
}

// SetPolicy replaces the policy used by the next Run.
func (t *Transaction) SetPolicy(p Policy) {
	t.policy = p
}

// SetState seeds the transaction with a copy of a prior changeset. Requests
// are resolved on top of it.
func (t *Transaction) SetState(cs *domain.ChangeSet) {
	t.changes.SetState(cs)
	t.state = StateBuilding
	t.err = nil
}

// ChangeSet returns the transaction's changeset. It holds the seed before
// Run and the resolved result after a successful Run. The same object is
// updated in place.
func (t *Transaction) ChangeSet() *domain.ChangeSet {
	return t.changes
}

// State returns the lifecycle stage.
func (t *Transaction) State() State {
	return t.state
}

// Err returns the error of the last failed Run.
func (t *Transaction) Err() error {
	return t.err
}

// Enqueue records a request for pkg. A later request for the same package
// replaces the earlier one.
func (t *Transaction) Enqueue(pkg *domain.Package, action domain.Action) error {
	if !action.Valid() {
		return zerr.With(domain.ErrInvalidAction, "action", int(action))
	}
	t.queue[pkg] = action
	t.state = StateBuilding
	return nil
}

// Pending returns the number of queued requests.
func (t *Transaction) Pending() int {
	return len(t.queue)
}

// Run resolves the queued requests to a fixed point. Requests are applied in
// package order. On failure the changeset keeps its previous content and the
// returned error is a *ResolutionError. The queue is emptied either way.
func (t *Transaction) Run() error {
	t.state = StateResolving
	pkgs := slices.Collect(maps.Keys(t.queue))
	domain.SortPackages(pkgs)

	r := newResolver(t.cache, t.policy, t.changes)
	for _, pkg := range pkgs {
		if err := r.apply(pkg, t.queue[pkg]); err != nil {
			clear(t.queue)
			t.state = StateFailed
			t.err = err
			return err
		}
	}

	clear(t.queue)
	t.changes.SetState(r.cs)
	t.state = StateResolved
	t.err = nil
	return nil
}
