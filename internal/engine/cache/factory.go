package cache

import (
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/depot/internal/core/domain"
)

// NewPackage implements ports.Registrar. Relations are deduplicated against
// the cache-wide maps as they are declared. The package itself is deduplicated
// by structural equality: same name, same version and the same relation sets
// regardless of order. A duplicate returns the existing package with the
// installed flag OR-ed in.
func (c *Cache) NewPackage(spec *domain.PackageSpec) *domain.Package {
	var declared, sorted [4][]domain.RelationID
	for _, kind := range domain.RelationKinds {
		for _, rel := range spec.Relations(kind) {
			rel.Kind = kind
			id := c.relation(rel)
			if !slices.Contains(declared[kind], id) {
				declared[kind] = append(declared[kind], id)
			}
		}
		sorted[kind] = slices.Clone(declared[kind])
		slices.Sort(sorted[kind])
	}

	name := domain.NewInternedString(spec.Name)
	version := domain.NewInternedString(spec.Version)
	fp := fingerprint(spec.Name, spec.Version, &sorted)
	origin := domain.Origin{Loader: spec.Origin, Info: spec.Info}

	for _, id := range c.pkgMap[fp] {
		e := &c.pkgs[id]
		if e.pkg.Name != name || e.pkg.Version != version || !sameSets(&e.sorted, &sorted) {
			continue
		}
		if e.active {
			e.pkg.Installed = e.pkg.Installed || spec.Installed
			e.pkg.Priority = max(e.pkg.Priority, spec.Priority)
		} else {
			e.pkg.Installed = spec.Installed
			e.pkg.Priority = spec.Priority
			c.activatePackage(id)
		}
		e.pkg.Origins = append(e.pkg.Origins, origin)
		return e.pkg
	}

	pkg := &domain.Package{
		ID:        domain.PackageID(len(c.pkgs)),
		Name:      name,
		Version:   version,
		Installed: spec.Installed,
		Priority:  spec.Priority,
		Origins:   []domain.Origin{origin},
	}
	for _, kind := range domain.RelationKinds {
		pkg.SetRelations(kind, slices.Clone(declared[kind]))
	}
	c.pkgs = append(c.pkgs, pkgEntry{pkg: pkg, fp: fp, declared: declared, sorted: sorted})
	c.pkgMap[fp] = append(c.pkgMap[fp], pkg.ID)
	c.activatePackage(pkg.ID)
	return pkg
}

// NewProvides implements ports.Registrar. The extra provides does not take
// part in the structural identity of the package.
func (c *Cache) NewProvides(pkg *domain.Package, name, version string) {
	id := c.relation(domain.NewProvides(name, version))
	if slices.Contains(pkg.Provides, id) {
		return
	}
	pkg.Provides = append(pkg.Provides, id)
	c.rels[id].packages = append(c.rels[id].packages, pkg.ID)
}

// relation returns the arena id of rel, creating or reactivating it.
func (c *Cache) relation(rel domain.Relation) domain.RelationID {
	id, ok := c.relMap[rel]
	if !ok {
		id = domain.RelationID(len(c.rels))
		c.rels = append(c.rels, relEntry{rel: rel})
		c.relMap[rel] = id
	}
	if e := &c.rels[id]; !e.active {
		e.active = true
		name := rel.Name.String()
		c.byKind[rel.Kind] = append(c.byKind[rel.Kind], id)
		c.relNames[rel.Kind][name] = append(c.relNames[rel.Kind][name], id)
	}
	return id
}

// activatePackage appends a package to the canonical list, the name index and
// the packages edge of each of its relations.
func (c *Cache) activatePackage(id domain.PackageID) {
	e := &c.pkgs[id]
	e.active = true
	c.packages = append(c.packages, e.pkg)
	name := e.pkg.Name.String()
	c.pkgNames[name] = append(c.pkgNames[name], e.pkg)
	for _, kind := range domain.RelationKinds {
		for _, rid := range e.pkg.Relations(kind) {
			c.rels[rid].packages = append(c.rels[rid].packages, id)
		}
	}
}

func sameSets(a, b *[4][]domain.RelationID) bool {
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// fingerprint hashes the structural identity of a package.
func fingerprint(name, version string, sorted *[4][]domain.RelationID) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(name)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(version)
	var buf []byte
	for _, ids := range sorted {
		buf = append(buf[:0], '|')
		for _, id := range ids {
			buf = strconv.AppendInt(buf, int64(id), 10)
			buf = append(buf, ',')
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}
