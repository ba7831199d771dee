package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PackageIndex resolves a package identity key against the current cache.
type PackageIndex interface {
	// PackagesByKey returns every package with key, structurally different
	// twins included, lowest arena id first.
	PackagesByKey(key PackageKey) []*Package
}

// ChangeSet maps packages to the action requested or resolved for them.
// The zero value is ready to use.
type ChangeSet struct {
	entries map[*Package]Action
}

// NewChangeSet creates an empty changeset.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{entries: make(map[*Package]Action)}
}

// Get returns the action mapped to pkg and whether an entry exists.
func (cs *ChangeSet) Get(pkg *Package) (Action, bool) {
	a, ok := cs.entries[pkg]
	return a, ok
}

// Set maps pkg to action, replacing any previous entry.
func (cs *ChangeSet) Set(pkg *Package, action Action) {
	if cs.entries == nil {
		cs.entries = make(map[*Package]Action)
	}
	cs.entries[pkg] = action
}

// Delete removes the entry for pkg.
func (cs *ChangeSet) Delete(pkg *Package) {
	delete(cs.entries, pkg)
}

// Contains reports whether pkg has an entry.
func (cs *ChangeSet) Contains(pkg *Package) bool {
	_, ok := cs.entries[pkg]
	return ok
}

// Len returns the number of entries.
func (cs *ChangeSet) Len() int {
	return len(cs.entries)
}

// Clear removes every entry.
func (cs *ChangeSet) Clear() {
	clear(cs.entries)
}

// Packages returns the packages with an entry in deterministic order.
func (cs *ChangeSet) Packages() []*Package {
	pkgs := slices.Collect(maps.Keys(cs.entries))
	SortPackages(pkgs)
	return pkgs
}

// Copy returns an independent copy of the changeset.
func (cs *ChangeSet) Copy() *ChangeSet {
	out := NewChangeSet()
	maps.Copy(out.entries, cs.entries)
	return out
}

// SetState replaces the content of cs with the content of other.
func (cs *ChangeSet) SetState(other *ChangeSet) {
	cs.entries = make(map[*Package]Action, other.Len())
	maps.Copy(cs.entries, other.entries)
}

// Equal reports whether both changesets map the same packages to the same actions.
func (cs *ChangeSet) Equal(other *ChangeSet) bool {
	return maps.Equal(cs.entries, other.entries)
}

// Difference returns the packages present in only one of the changesets, or
// mapped to different actions, in deterministic order.
func (cs *ChangeSet) Difference(other *ChangeSet) []*Package {
	var out []*Package
	for pkg, action := range cs.entries {
		if theirs, ok := other.entries[pkg]; !ok || theirs != action {
			out = append(out, pkg)
		}
	}
	for pkg := range other.entries {
		if _, ok := cs.entries[pkg]; !ok {
			out = append(out, pkg)
		}
	}
	SortPackages(out)
	return out
}

// DiffEntry describes one package that differs between two changesets.
// A zero From means the entry is new, a zero To means it was dropped.
type DiffEntry struct {
	Package *Package
	From    Action
	To      Action
}

// Diff is the structural difference between a base changeset and a newer one.
type Diff struct {
	Added   []DiffEntry
	Removed []DiffEntry
	Changed []DiffEntry
}

// Empty reports whether the diff has no entries.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares cs against base and classifies every differing package.
func (cs *ChangeSet) Diff(base *ChangeSet) Diff {
	var d Diff
	for _, pkg := range cs.Difference(base) {
		mine, inMine := cs.entries[pkg]
		theirs, inTheirs := base.entries[pkg]
		switch {
		case inMine && !inTheirs:
			d.Added = append(d.Added, DiffEntry{Package: pkg, To: mine})
		case !inMine && inTheirs:
			d.Removed = append(d.Removed, DiffEntry{Package: pkg, From: theirs})
		default:
			d.Changed = append(d.Changed, DiffEntry{Package: pkg, From: theirs, To: mine})
		}
	}
	return d
}

// PersistentState serializes the changeset into a token keyed by package identity.
func (cs *ChangeSet) PersistentState() Token {
	tok := make(Token, 0, len(cs.entries))
	for _, pkg := range cs.Packages() {
		tok = append(tok, TokenEntry{
			Name:    pkg.Name.String(),
			Version: pkg.Version.String(),
			Action:  cs.entries[pkg],
		})
	}
	tok.Sort()
	return tok
}

// SetPersistentState replaces the changeset with the entries of tok, resolving
// each identity through idx. Structural twins are told apart by whether the
// action applies to an installed package; an entry that still names more than
// one package is ambiguous. Nothing changes unless every entry resolves.
func (cs *ChangeSet) SetPersistentState(idx PackageIndex, tok Token) error {
	entries := make(map[*Package]Action, len(tok))
	var missing, ambiguous []string
	for _, e := range tok {
		key := PackageKey{Name: e.Name, Version: e.Version}
		pkgs := disambiguate(idx.PackagesByKey(key), e.Action)
		switch len(pkgs) {
		case 0:
			missing = append(missing, key.String())
		case 1:
			entries[pkgs[0]] = e.Action
		default:
			ambiguous = append(ambiguous, key.String())
		}
	}
	if len(missing) > 0 {
		return zerr.With(ErrUnknownPackage, "packages", strings.Join(missing, ", "))
	}
	if len(ambiguous) > 0 {
		return zerr.With(ErrAmbiguousPackage, "packages", strings.Join(ambiguous, ", "))
	}
	cs.entries = entries
	return nil
}

// disambiguate keeps the twins whose installed state fits action.
func disambiguate(twins []*Package, action Action) []*Package {
	if len(twins) < 2 {
		return twins
	}
	var installed bool
	switch action {
	case ActionRemove, ActionReinstall, ActionKeep:
		installed = true
	case ActionInstall, ActionUpgrade:
	default:
		return twins
	}
	var fit []*Package
	for _, pkg := range twins {
		if pkg.Installed == installed {
			fit = append(fit, pkg)
		}
	}
	if len(fit) == 0 {
		return twins
	}
	return fit
}

// SortPackages orders packages by name, then version text, then arena id.
// The order does not depend on a version scheme, so tokens built from it
// are stable across configurations.
func SortPackages(pkgs []*Package) {
	SortPackagesFunc(pkgs, strings.Compare)
}

// SortPackagesFunc orders packages by name, then by versions as ordered by
// compareVersions (oldest first), then arena id.
func SortPackagesFunc(pkgs []*Package, compareVersions func(a, b string) int) {
	slices.SortFunc(pkgs, func(a, b *Package) int {
		return ComparePackages(a, b, compareVersions)
	})
}

// ComparePackages is the order of SortPackagesFunc.
func ComparePackages(a, b *Package, compareVersions func(a, b string) int) int {
	if c := strings.Compare(a.Name.String(), b.Name.String()); c != 0 {
		return c
	}
	if c := compareVersions(a.Version.String(), b.Version.String()); c != 0 {
		return c
	}
	return int(a.ID) - int(b.ID)
}
