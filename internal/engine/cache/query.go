package cache

import (
	"cmp"
	"slices"

	"go.trai.ch/depot/internal/core/domain"
)

// The getters below return the cache's own slices. Callers must not modify
// them and must not keep them across a Load, Reload or Unload.

// Packages returns every package, or the packages named name when it is not empty.
func (c *Cache) Packages(name string) []*domain.Package {
	if name == "" {
		return c.packages
	}
	return c.pkgNames[name]
}

// Relations returns every relation of kind, or those named name when it is not empty.
func (c *Cache) Relations(kind domain.RelationKind, name string) []domain.RelationID {
	if name == "" {
		return c.byKind[kind]
	}
	return c.relNames[kind][name]
}

// Provides returns the provides ids, optionally filtered by name.
func (c *Cache) Provides(name string) []domain.RelationID {
	return c.Relations(domain.KindProvides, name)
}

// Requires returns the requires ids, optionally filtered by name.
func (c *Cache) Requires(name string) []domain.RelationID {
	return c.Relations(domain.KindRequires, name)
}

// Obsoletes returns the obsoletes ids, optionally filtered by name.
func (c *Cache) Obsoletes(name string) []domain.RelationID {
	return c.Relations(domain.KindObsoletes, name)
}

// Conflicts returns the conflicts ids, optionally filtered by name.
func (c *Cache) Conflicts(name string) []domain.RelationID {
	return c.Relations(domain.KindConflicts, name)
}

// Package returns the package with the given arena id.
func (c *Cache) Package(id domain.PackageID) *domain.Package {
	return c.pkgs[id].pkg
}

// Relation returns the identity tuple of a relation id.
func (c *Cache) Relation(id domain.RelationID) domain.Relation {
	return c.rels[id].rel
}

// PackagesOf returns the ids of the packages declaring the relation.
func (c *Cache) PackagesOf(id domain.RelationID) []domain.PackageID {
	return c.rels[id].packages
}

// ProvidedBy returns the provides linked to a requires, obsoletes or conflicts.
func (c *Cache) ProvidedBy(id domain.RelationID) []domain.RelationID {
	return c.rels[id].providedBy
}

// RequiredBy returns the requires satisfied by a provides.
func (c *Cache) RequiredBy(id domain.RelationID) []domain.RelationID {
	return c.linkedOf(id, domain.KindRequires)
}

// ObsoletedBy returns the obsoletes triggered by a provides.
func (c *Cache) ObsoletedBy(id domain.RelationID) []domain.RelationID {
	return c.linkedOf(id, domain.KindObsoletes)
}

// ConflictedBy returns the conflicts triggered by a provides.
func (c *Cache) ConflictedBy(id domain.RelationID) []domain.RelationID {
	return c.linkedOf(id, domain.KindConflicts)
}

func (c *Cache) linkedOf(id domain.RelationID, kind domain.RelationKind) []domain.RelationID {
	var out []domain.RelationID
	for _, did := range c.rels[id].linkedBy {
		if c.rels[did].rel.Kind == kind {
			out = append(out, did)
		}
	}
	return out
}

// PackagesByKey returns every package with the given name and version,
// lowest arena id first.
func (c *Cache) PackagesByKey(key domain.PackageKey) []*domain.Package {
	var twins []*domain.Package
	for _, pkg := range c.pkgNames[key.Name] {
		if pkg.Version.String() == key.Version {
			twins = append(twins, pkg)
		}
	}
	slices.SortFunc(twins, func(a, b *domain.Package) int { return cmp.Compare(a.ID, b.ID) })
	return twins
}

// Stats returns the number of packages and relations currently in the cache.
func (c *Cache) Stats() (packages, relations int) {
	for _, ids := range c.byKind {
		relations += len(ids)
	}
	return len(c.packages), relations
}
