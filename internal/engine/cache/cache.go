// Package cache implements the package metadata cache: an arena of packages and
// relations populated by loaders, deduplicated structurally and linked by name.
package cache

import (
	"errors"
	"slices"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
)

type pkgEntry struct {
	pkg      *domain.Package
	fp       uint64
	declared [4][]domain.RelationID
	sorted   [4][]domain.RelationID
	active   bool
}

type relEntry struct {
	rel        domain.Relation
	active     bool
	packages   []domain.PackageID
	providedBy []domain.RelationID
	linkedBy   []domain.RelationID
}

// Cache owns every package and relation declared by its loaders.
// It is not safe for concurrent mutation.
type Cache struct {
	cmp     ports.VersionComparator
	loaders []ports.Loader

	pkgs     []pkgEntry
	packages []*domain.Package
	pkgNames map[string][]*domain.Package
	pkgMap   map[uint64][]domain.PackageID

	rels     []relEntry
	byKind   [4][]domain.RelationID
	relNames [4]map[string][]domain.RelationID
	relMap   map[domain.Relation]domain.RelationID
}

// New creates an empty cache ordering versions with cmp.
func New(cmp ports.VersionComparator) *Cache {
	c := &Cache{cmp: cmp}
	c.reset(false)
	return c
}

// Comparator returns the version comparator of the cache.
func (c *Cache) Comparator() ports.VersionComparator {
	return c.cmp
}

// AddLoader registers a metadata source and binds it to the cache.
func (c *Cache) AddLoader(l ports.Loader) {
	if l == nil {
		return
	}
	c.loaders = append(c.loaders, l)
	l.Bind(c)
}

// RemoveLoader unregisters a metadata source and unbinds it.
func (c *Cache) RemoveLoader(l ports.Loader) error {
	idx := slices.Index(c.loaders, l)
	if idx < 0 {
		alias := ""
		if l != nil {
			alias = l.Alias()
		}
		return zerr.With(domain.ErrLoaderNotRegistered, "loader", alias)
	}
	c.loaders = slices.Delete(c.loaders, idx, idx+1)
	l.Bind(nil)
	return nil
}

// Loaders returns the registered loaders in registration order.
func (c *Cache) Loaders() []ports.Loader {
	return c.loaders
}

// Load rebuilds the cache from scratch by running every loader, then offering
// file provides and linking. A failing loader does not stop the others; its
// error is returned as a *SourceError joined with the rest after linking.
func (c *Cache) Load() error {
	c.reset(false)
	var errs []error
	for _, l := range c.loaders {
		l.Reset()
		if err := l.Load(); err != nil {
			errs = append(errs, &SourceError{Loader: l.Alias(), Err: err})
		}
	}
	errs = append(errs, c.loadFileProvides()...)
	c.LinkDeps()
	return errors.Join(errs...)
}

// Reload merges the packages already staged by every loader again, keeping
// package and relation identities stable, then offers file provides and links.
func (c *Cache) Reload() error {
	c.reset(true)
	var errs []error
	for _, l := range c.loaders {
		if err := l.Reload(); err != nil {
			errs = append(errs, &SourceError{Loader: l.Alias(), Err: err})
		}
	}
	errs = append(errs, c.loadFileProvides()...)
	c.LinkDeps()
	return errors.Join(errs...)
}

// Unload empties the cache and tells every loader to drop its state.
func (c *Cache) Unload() {
	c.reset(false)
	for _, l := range c.loaders {
		l.Unload()
	}
}

// reset clears the canonical lists, indexes and reverse edges. With
// keepIdentity the arenas and dedup maps survive as dormant entries, so a
// re-declared relation or package gets back its previous id and object.
func (c *Cache) reset(keepIdentity bool) {
	c.packages = nil
	c.pkgNames = make(map[string][]*domain.Package)
	for i := range c.byKind {
		c.byKind[i] = nil
		c.relNames[i] = make(map[string][]domain.RelationID)
	}

	if !keepIdentity {
		c.pkgs = nil
		c.pkgMap = make(map[uint64][]domain.PackageID)
		c.rels = nil
		c.relMap = make(map[domain.Relation]domain.RelationID)
		return
	}

	for i := range c.pkgs {
		e := &c.pkgs[i]
		e.active = false
		e.pkg.Installed = false
		e.pkg.Priority = 0
		e.pkg.Origins = nil
		for _, kind := range domain.RelationKinds {
			e.pkg.SetRelations(kind, slices.Clone(e.declared[kind]))
		}
	}
	for i := range c.rels {
		e := &c.rels[i]
		e.active = false
		e.packages = nil
		e.providedBy = nil
		e.linkedBy = nil
	}
}

// loadFileProvides offers every path-like requirement name to the loaders.
func (c *Cache) loadFileProvides() []error {
	paths := make(map[string]struct{})
	for _, id := range c.byKind[domain.KindRequires] {
		if rel := c.rels[id].rel; rel.IsFilePath() {
			paths[rel.Name.String()] = struct{}{}
		}
	}
	if len(paths) == 0 {
		return nil
	}
	var errs []error
	for _, l := range c.loaders {
		if err := l.LoadFileProvides(paths); err != nil {
			errs = append(errs, &SourceError{Loader: l.Alias(), Err: err})
		}
	}
	return errs
}
