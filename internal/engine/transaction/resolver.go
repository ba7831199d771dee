package transaction

import (
	"errors"
	"maps"
	"slices"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/engine/cache"
	"go.trai.ch/zerr"
)

// maxSteps bounds the package checks of one run, rollbacks included.
const maxSteps = 100_000

const reasonRequested = "requested"

// work is the part of the resolver state that is rolled back when an
// alternative fails.
type work struct {
	cs    *domain.ChangeSet
	locks map[*domain.Package]Constraint
	queue []*domain.Package
}

func (w *work) clone() work {
	return work{cs: w.cs.Copy(), locks: maps.Clone(w.locks), queue: slices.Clone(w.queue)}
}

type displacement struct {
	pkg    *domain.Package
	reason string
}

// resolver propagates forced package states to a fixed point.
//
// Every forced state is recorded as a lock. A package is never forced into
// both states within a run: the second demand fails with a ResolutionError
// naming both constraints. Choices among providers are tried in policy order
// and rolled back when they lead to a contradiction.
type resolver struct {
	work

	cache  *cache.Cache
	cmp    ports.VersionComparator
	policy Policy
	fix    map[*domain.Package]struct{}
	steps  int
}

func newResolver(c *cache.Cache, policy Policy, seed *domain.ChangeSet) *resolver {
	return &resolver{
		work: work{
			cs:    seed.Copy(),
			locks: make(map[*domain.Package]Constraint),
		},
		cache:  c,
		cmp:    c.Comparator(),
		policy: policy,
		fix:    make(map[*domain.Package]struct{}),
	}
}

// present reports whether pkg is installed once the changeset is applied.
func (r *resolver) present(pkg *domain.Package) bool {
	if a, ok := r.cs.Get(pkg); ok {
		switch a {
		case domain.ActionRemove:
			return false
		case domain.ActionInstall, domain.ActionUpgrade, domain.ActionReinstall:
			return true
		}
	}
	return pkg.Installed
}

// reason returns the constraint explaining the current state of pkg.
func (r *resolver) reason(pkg *domain.Package) Constraint {
	if c, ok := r.locks[pkg]; ok {
		return c
	}
	if r.present(pkg) {
		return Constraint{Package: pkg, Action: domain.ActionInstall, Reason: "marked"}
	}
	return Constraint{Package: pkg, Action: domain.ActionRemove, Reason: "marked"}
}

// apply handles one user request.
func (r *resolver) apply(pkg *domain.Package, action domain.Action) error {
	switch action {
	case domain.ActionInstall:
		return r.attempt(func() error {
			return r.setPresent(pkg, true, Constraint{Package: pkg, Action: domain.ActionInstall, Reason: reasonRequested})
		})
	case domain.ActionReinstall:
		return r.attempt(func() error {
			if err := r.setPresent(pkg, true, Constraint{Package: pkg, Action: domain.ActionInstall, Reason: reasonRequested}); err != nil {
				return err
			}
			if pkg.Installed {
				r.cs.Set(pkg, domain.ActionReinstall)
			}
			return nil
		})
	case domain.ActionUpgrade:
		return r.upgrade(pkg)
	case domain.ActionRemove:
		return r.attempt(func() error {
			return r.setPresent(pkg, false, Constraint{Package: pkg, Action: domain.ActionRemove, Reason: reasonRequested})
		})
	case domain.ActionKeep:
		return r.attempt(func() error {
			action := domain.ActionRemove
			if pkg.Installed {
				action = domain.ActionInstall
			}
			if err := r.setPresent(pkg, pkg.Installed, Constraint{Package: pkg, Action: action, Reason: "kept"}); err != nil {
				return err
			}
			r.cs.Delete(pkg)
			return nil
		})
	case domain.ActionFix:
		if !r.present(pkg) {
			return nil
		}
		r.fix[pkg] = struct{}{}
		return r.attempt(func() error {
			r.push(pkg)
			return nil
		})
	default:
		return zerr.With(domain.ErrInvalidAction, "action", int(action))
	}
}

// upgrade installs the best newer package replacing pkg, if any can be
// installed. Newer versions of the same name and packages obsoleting pkg
// qualify, unless replacing pkg leaves a present package with an unsatisfied
// requires. Finding no usable upgrade is not an error.
func (r *resolver) upgrade(pkg *domain.Package) error {
	if !pkg.Installed {
		return r.apply(pkg, domain.ActionInstall)
	}
	if !r.present(pkg) {
		return nil
	}

	seen := make(map[*domain.Package]struct{})
	var cands []Candidate
	consider := func(q *domain.Package) {
		if _, dup := seen[q]; dup || q == pkg || r.present(q) || r.lockedAbsent(q) {
			return
		}
		seen[q] = struct{}{}
		cands = append(cands, r.candidate(q))
	}
	for _, q := range r.cache.Packages(pkg.Name.String()) {
		if r.cmp.Compare(q.Version.String(), pkg.Version.String()) > 0 {
			consider(q)
		}
	}
	for _, prv := range pkg.Provides {
		for _, did := range r.cache.ObsoletedBy(prv) {
			for _, qid := range r.cache.PackagesOf(did) {
				consider(r.cache.Package(qid))
			}
		}
	}
	r.sortCandidates(cands)

	for _, cand := range cands {
		if cand.Broken > 0 {
			continue
		}
		err := r.attempt(func() error {
			return r.setPresent(cand.Package, true, Constraint{
				Package: cand.Package,
				Action:  domain.ActionInstall,
				Reason:  "upgrades " + pkg.String(),
			})
		})
		if err == nil || errors.Is(err, domain.ErrSearchLimit) {
			return err
		}
	}
	return nil
}

// attempt runs fn and propagates its consequences. On failure the state is
// restored to what it was before fn.
func (r *resolver) attempt(fn func() error) error {
	saved := r.work.clone()
	err := fn()
	if err == nil {
		err = r.settle()
	}
	if err != nil {
		r.work = saved
	}
	return err
}

func (r *resolver) settle() error {
	for len(r.queue) > 0 {
		pkg := r.queue[0]
		r.queue = r.queue[1:]
		if err := r.check(pkg); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) push(pkg *domain.Package) {
	r.queue = append(r.queue, pkg)
}

func (r *resolver) lockedAbsent(pkg *domain.Package) bool {
	c, ok := r.locks[pkg]
	return ok && c.Action == domain.ActionRemove
}

// setPresent forces pkg to be present or absent and records why.
func (r *resolver) setPresent(pkg *domain.Package, want bool, why Constraint) error {
	if l, ok := r.locks[pkg]; ok {
		if (l.Action == domain.ActionInstall) != want {
			return conflict(l, why)
		}
		return nil
	}
	r.locks[pkg] = why
	if r.present(pkg) == want {
		return nil
	}
	if want {
		return r.install(pkg)
	}
	r.remove(pkg)
	return nil
}

func (r *resolver) install(pkg *domain.Package) error {
	others := slices.DeleteFunc(slices.Clone(r.cache.Packages(pkg.Name.String())), func(q *domain.Package) bool {
		return q == pkg || !r.present(q)
	})

	if pkg.Installed {
		r.cs.Delete(pkg)
	} else {
		action := domain.ActionInstall
		for _, q := range others {
			if q.Installed && r.cmp.Compare(pkg.Version.String(), q.Version.String()) > 0 {
				action = domain.ActionUpgrade
			}
		}
		r.cs.Set(pkg, action)
	}

	// One version per name: installing replaces the others.
	for _, q := range others {
		err := r.setPresent(q, false, Constraint{Package: q, Action: domain.ActionRemove, Reason: "replaced by " + pkg.String()})
		if err != nil {
			return err
		}
	}
	r.push(pkg)
	return nil
}

func (r *resolver) remove(pkg *domain.Package) {
	if pkg.Installed {
		r.cs.Set(pkg, domain.ActionRemove)
	} else {
		r.cs.Delete(pkg)
	}
	for _, prv := range pkg.Provides {
		for _, did := range r.cache.RequiredBy(prv) {
			for _, qid := range r.cache.PackagesOf(did) {
				if q := r.cache.Package(qid); q != pkg && r.present(q) {
					r.push(q)
				}
			}
		}
	}
}

// check makes the relations of a present package hold: its requires get a
// present provider and whatever it conflicts with or obsoletes goes away.
func (r *resolver) check(pkg *domain.Package) error {
	r.steps++
	if r.steps > maxSteps {
		return &ResolutionError{Cause: domain.ErrSearchLimit}
	}
	if !r.present(pkg) {
		return nil
	}

	_, locked := r.locks[pkg]
	for _, rid := range pkg.Requires {
		if r.satisfied(rid) {
			continue
		}
		if err := r.satisfy(pkg, rid, locked); err != nil {
			return err
		}
		if !r.present(pkg) {
			return nil
		}
	}

	// Untouched installed packages keep whatever conflicts they already had.
	if _, fixing := r.fix[pkg]; !locked && !fixing && !r.cs.Contains(pkg) {
		return nil
	}
	for _, d := range r.displacedBy(pkg) {
		if err := r.displace(pkg, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) satisfied(rid domain.RelationID) bool {
	return r.satisfiedBy(rid, r.present)
}

// satisfiedBy reports whether one of the packages for which present holds
// provides rid.
func (r *resolver) satisfiedBy(rid domain.RelationID, present func(*domain.Package) bool) bool {
	for _, prv := range r.cache.ProvidedBy(rid) {
		for _, qid := range r.cache.PackagesOf(prv) {
			if present(r.cache.Package(qid)) {
				return true
			}
		}
	}
	return false
}

// satisfy installs a provider for the requires rid of pkg. A package that
// was not forced present is removed instead when no provider can be installed,
// or right away under a cascading policy.
func (r *resolver) satisfy(pkg *domain.Package, rid domain.RelationID, locked bool) error {
	rel := r.cache.Relation(rid)
	why := pkg.String() + " requires " + rel.String()

	if !locked && r.policy.Cascade() {
		return r.setPresent(pkg, false, Constraint{Package: pkg, Action: domain.ActionRemove, Reason: why})
	}

	var first error
	for _, cand := range r.candidates(rid) {
		err := r.attempt(func() error {
			return r.setPresent(cand.Package, true, Constraint{
				Package: cand.Package,
				Action:  domain.ActionInstall,
				Reason:  "provides " + rel.String() + " for " + pkg.String(),
			})
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrSearchLimit) {
			return err
		}
		if first == nil {
			first = err
		}
	}

	if !locked {
		return r.setPresent(pkg, false, Constraint{Package: pkg, Action: domain.ActionRemove, Reason: why})
	}

	rerr := conflict(r.locks[pkg], Constraint{Package: pkg, Action: domain.ActionInstall, Reason: why + " and no provider can be installed"})
	var inner *ResolutionError
	if errors.As(first, &inner) {
		rerr.Constraints = append(rerr.Constraints, inner.Constraints...)
	}
	return rerr
}

// candidates lists the absent packages providing rid, best first.
func (r *resolver) candidates(rid domain.RelationID) []Candidate {
	seen := make(map[*domain.Package]struct{})
	var out []Candidate
	for _, prv := range r.cache.ProvidedBy(rid) {
		for _, qid := range r.cache.PackagesOf(prv) {
			q := r.cache.Package(qid)
			if _, dup := seen[q]; dup || r.present(q) || r.lockedAbsent(q) {
				continue
			}
			seen[q] = struct{}{}
			out = append(out, r.candidate(q))
		}
	}
	r.sortCandidates(out)
	return out
}

// candidate rates installing pkg on top of the current state.
func (r *resolver) candidate(pkg *domain.Package) Candidate {
	displaced := r.displacedBy(pkg)
	gone := make(map[*domain.Package]struct{}, len(displaced)+1)
	for _, d := range displaced {
		gone[d.pkg] = struct{}{}
	}
	for _, q := range r.cache.Packages(pkg.Name.String()) {
		if q != pkg && r.present(q) {
			gone[q] = struct{}{}
		}
	}
	return Candidate{Package: pkg, Displaced: len(displaced), Broken: r.broken(pkg, gone)}
}

// broken counts the present packages left with an unsatisfied requires once
// pkg is installed and the packages in gone are removed.
func (r *resolver) broken(pkg *domain.Package, gone map[*domain.Package]struct{}) int {
	stays := func(q *domain.Package) bool {
		if q == pkg {
			return true
		}
		_, removed := gone[q]
		return !removed && r.present(q)
	}

	counted := make(map[*domain.Package]struct{})
	for q := range gone {
		for _, prv := range q.Provides {
			for _, did := range r.cache.RequiredBy(prv) {
				for _, qid := range r.cache.PackagesOf(did) {
					d := r.cache.Package(qid)
					if _, dup := counted[d]; dup || d == pkg || !stays(d) {
						continue
					}
					if !r.satisfiedBy(did, stays) {
						counted[d] = struct{}{}
					}
				}
			}
		}
	}
	return len(counted)
}

func (r *resolver) sortCandidates(cands []Candidate) {
	slices.SortFunc(cands, func(a, b Candidate) int {
		return r.policy.Compare(r.cmp, a, b)
	})
}

// displacedBy lists the present packages that cannot coexist with pkg:
// those its conflicts or obsoletes match and those whose conflicts or
// obsoletes match one of its provides.
func (r *resolver) displacedBy(pkg *domain.Package) []displacement {
	var out []displacement
	seen := make(map[*domain.Package]struct{})
	add := func(q *domain.Package, reason string) {
		if _, dup := seen[q]; dup || q == pkg || !r.present(q) {
			return
		}
		seen[q] = struct{}{}
		out = append(out, displacement{pkg: q, reason: reason})
	}

	for _, kind := range [...]domain.RelationKind{domain.KindConflicts, domain.KindObsoletes} {
		for _, rid := range pkg.Relations(kind) {
			why := pkg.String() + " " + kind.String() + " " + r.cache.Relation(rid).String()
			for _, prv := range r.cache.ProvidedBy(rid) {
				for _, qid := range r.cache.PackagesOf(prv) {
					add(r.cache.Package(qid), why)
				}
			}
		}
	}
	for _, prv := range pkg.Provides {
		against := append(slices.Clone(r.cache.ConflictedBy(prv)), r.cache.ObsoletedBy(prv)...)
		for _, did := range against {
			rel := r.cache.Relation(did)
			for _, qid := range r.cache.PackagesOf(did) {
				q := r.cache.Package(qid)
				add(q, q.String()+" "+rel.Kind.String()+" "+rel.String())
			}
		}
	}
	return out
}

// displace removes d.pkg so that pkg can stay.
func (r *resolver) displace(pkg *domain.Package, d displacement) error {
	if d.pkg.Installed && !r.policy.Displace() {
		return conflict(r.reason(pkg), Constraint{Package: d.pkg, Action: domain.ActionKeep, Reason: d.reason})
	}
	return r.setPresent(d.pkg, false, Constraint{Package: d.pkg, Action: domain.ActionRemove, Reason: d.reason})
}
