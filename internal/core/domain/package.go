package domain

import "strconv"

// PackageID is the arena index of a package inside a cache.
type PackageID int

// RelationID is the arena index of a relation inside a cache.
type RelationID int

// PackageKey is the stable identity of a package across cache rebuilds.
type PackageKey struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// String returns the key in "name-version" form.
func (k PackageKey) String() string {
	return k.Name + "-" + k.Version
}

// PackageInfo is the descriptive payload loaders attach to a package.
type PackageInfo struct {
	Summary     string   `json:"summary,omitzero" yaml:"summary,omitempty"`
	Description string   `json:"description,omitzero" yaml:"description,omitempty"`
	URL         string   `json:"url,omitzero" yaml:"url,omitempty"`
	Files       []string `json:"files,omitzero" yaml:"files,omitempty"`
}

// PackageSpec is what a loader hands to the cache to declare a package.
type PackageSpec struct {
	Name      string
	Version   string
	Provides  []Relation
	Requires  []Relation
	Obsoletes []Relation
	Conflicts []Relation
	Installed bool
	Priority  int

	// Origin is the alias of the loader declaring the package.
	Origin string
	Info   *PackageInfo
}

// Relations returns the declared relations of the given kind.
func (s *PackageSpec) Relations(kind RelationKind) []Relation {
	switch kind {
	case KindProvides:
		return s.Provides
	case KindRequires:
		return s.Requires
	case KindObsoletes:
		return s.Obsoletes
	case KindConflicts:
		return s.Conflicts
	default:
		return nil
	}
}

// Origin records a loader that declared a package.
type Origin struct {
	Loader string
	Info   *PackageInfo
}

// Package is a versioned unit owned by a cache arena.
// Relation slices hold arena ids and are deduplicated.
type Package struct {
	ID        PackageID
	Name      InternedString
	Version   InternedString
	Provides  []RelationID
	Requires  []RelationID
	Obsoletes []RelationID
	Conflicts []RelationID
	Installed bool
	Priority  int
	Origins   []Origin
}

// Relations returns the relation ids of the given kind.
func (p *Package) Relations(kind RelationKind) []RelationID {
	switch kind {
	case KindProvides:
		return p.Provides
	case KindRequires:
		return p.Requires
	case KindObsoletes:
		return p.Obsoletes
	case KindConflicts:
		return p.Conflicts
	default:
		return nil
	}
}

// SetRelations replaces the relation ids of the given kind.
func (p *Package) SetRelations(kind RelationKind, ids []RelationID) {
	switch kind {
	case KindProvides:
		p.Provides = ids
	case KindRequires:
		p.Requires = ids
	case KindObsoletes:
		p.Obsoletes = ids
	case KindConflicts:
		p.Conflicts = ids
	}
}

// Key returns the (name, version) identity of the package.
func (p *Package) Key() PackageKey {
	return PackageKey{Name: p.Name.String(), Version: p.Version.String()}
}

// Info returns the first descriptive payload attached by a loader, or nil.
func (p *Package) Info() *PackageInfo {
	for _, o := range p.Origins {
		if o.Info != nil {
			return o.Info
		}
	}
	return nil
}

// String returns the package in "name-version" form.
func (p *Package) String() string {
	return p.Key().String()
}

// GoString includes the arena id, which distinguishes structurally different twins.
func (p *Package) GoString() string {
	return p.String() + "#" + strconv.Itoa(int(p.ID))
}
