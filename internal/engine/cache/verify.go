package cache

import (
	"slices"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verify audits the arena against its indexes and reverse edges and returns
// domain.ErrIdentity describing the first violation found.
func (c *Cache) Verify() error {
	if err := c.verifyPackages(); err != nil {
		return err
	}
	if err := c.verifyRelations(); err != nil {
		return err
	}
	return c.verifyLinks()
}

func identityErr(check string, subject string) error {
	return zerr.With(zerr.With(domain.ErrIdentity, "check", check), "subject", subject)
}

func (c *Cache) verifyPackages() error {
	active := 0
	for i := range c.pkgs {
		e := &c.pkgs[i]
		if e.pkg.ID != domain.PackageID(i) {
			return identityErr("package id", e.pkg.GoString())
		}
		if !e.active {
			continue
		}
		active++
		if !slices.Contains(c.packages, e.pkg) {
			return identityErr("package missing from list", e.pkg.GoString())
		}
		if !slices.Contains(c.pkgNames[e.pkg.Name.String()], e.pkg) {
			return identityErr("package missing from name index", e.pkg.GoString())
		}
		for _, kind := range domain.RelationKinds {
			for _, rid := range e.pkg.Relations(kind) {
				r := &c.rels[rid]
				if !r.active || r.rel.Kind != kind {
					return identityErr("package references inactive relation", e.pkg.GoString()+" "+r.rel.String())
				}
				if !slices.Contains(r.packages, e.pkg.ID) {
					return identityErr("relation missing package edge", e.pkg.GoString()+" "+r.rel.String())
				}
			}
		}
	}
	if active != len(c.packages) {
		return identityErr("orphan package in list", "")
	}
	indexed := 0
	for _, pkgs := range c.pkgNames {
		indexed += len(pkgs)
	}
	if indexed != active {
		return identityErr("orphan package in name index", "")
	}
	return nil
}

func (c *Cache) verifyRelations() error {
	for kind := range c.byKind {
		indexed := 0
		for _, ids := range c.relNames[kind] {
			indexed += len(ids)
		}
		if indexed != len(c.byKind[kind]) {
			return identityErr("relation name index size", domain.RelationKind(kind).String())
		}
	}
	active := 0
	for i := range c.rels {
		r := &c.rels[i]
		id := domain.RelationID(i)
		if c.relMap[r.rel] != id {
			return identityErr("relation dedup map", r.rel.String())
		}
		if !r.active {
			continue
		}
		active++
		if !slices.Contains(c.byKind[r.rel.Kind], id) ||
			!slices.Contains(c.relNames[r.rel.Kind][r.rel.Name.String()], id) {
			return identityErr("relation missing from index", r.rel.String())
		}
		for _, pid := range r.packages {
			pkg := c.pkgs[pid]
			if !pkg.active || !slices.Contains(pkg.pkg.Relations(r.rel.Kind), id) {
				return identityErr("stale package edge", r.rel.String()+" "+pkg.pkg.GoString())
			}
		}
	}
	total := 0
	for _, ids := range c.byKind {
		total += len(ids)
	}
	if total != active {
		return identityErr("orphan relation in list", "")
	}
	return nil
}

func (c *Cache) verifyLinks() error {
	for i := range c.rels {
		r := &c.rels[i]
		id := domain.RelationID(i)
		for _, pid := range r.providedBy {
			if !slices.Contains(c.rels[pid].linkedBy, id) {
				return identityErr("one-sided link", r.rel.String())
			}
		}
		for _, did := range r.linkedBy {
			if !slices.Contains(c.rels[did].providedBy, id) {
				return identityErr("one-sided link", r.rel.String())
			}
		}
	}
	return nil
}
