// Package matcher resolves textual package selectors against a cache.
//
// A selector is a package name, optionally followed by a relational version
// constraint ("bash >= 5"), or the "name-version" form printed by listings
// ("bash-5.1-2").
package matcher

import (
	"slices"
	"strings"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
)

// Selector is a parsed package query.
type Selector struct {
	Raw     string
	Name    string
	Op      domain.Operator
	Version string
}

// Parse parses a selector string.
func Parse(s string) (Selector, error) {
	rel, err := domain.ParseRelation(domain.KindRequires, s)
	if err != nil {
		return Selector{}, &SelectorError{Selector: s, Err: domain.ErrInvalidSelector, Cause: err}
	}
	return Selector{
		Raw:     strings.TrimSpace(s),
		Name:    rel.Name.String(),
		Op:      rel.Op,
		Version: rel.Version.String(),
	}, nil
}

// String returns the selector as written.
func (s Selector) String() string {
	return s.Raw
}

// Matcher queries the packages and provides of a cache.
type Matcher struct {
	cache *cache.Cache
}

// New creates a Matcher over c.
func New(c *cache.Cache) *Matcher {
	return &Matcher{cache: c}
}

// Match returns the packages matching selector, newest first within a name.
// An empty result is reported as a SelectorError.
func (m *Matcher) Match(selector string) ([]*domain.Package, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	pkgs := m.Find(sel)
	if len(pkgs) == 0 {
		return nil, NewSelectorError(selector, domain.ErrNoMatch)
	}
	return pkgs, nil
}

// MatchInstalled is Match restricted to installed packages.
func (m *Matcher) MatchInstalled(selector string) ([]*domain.Package, error) {
	pkgs, err := m.Match(selector)
	if err != nil {
		return nil, err
	}
	pkgs = slices.DeleteFunc(pkgs, func(p *domain.Package) bool { return !p.Installed })
	if len(pkgs) == 0 {
		return nil, NewSelectorError(selector, domain.ErrNoInstalledMatch)
	}
	return pkgs, nil
}

// MatchProvides returns the provides satisfying selector in cache order.
func (m *Matcher) MatchProvides(selector string) ([]domain.RelationID, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	dep := domain.NewDepends(domain.KindRequires, sel.Name, sel.Op, sel.Version)
	var out []domain.RelationID
	for _, id := range m.cache.Provides(sel.Name) {
		if m.cache.Satisfies(dep, m.cache.Relation(id)) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, NewSelectorError(selector, domain.ErrNoMatch)
	}
	return out, nil
}

// Find returns every cached package matching sel, sorted with Sort.
func (m *Matcher) Find(sel Selector) []*domain.Package {
	var out []*domain.Package
	seen := make(map[*domain.Package]struct{})
	collect := func(name string) {
		for _, pkg := range m.cache.Packages(name) {
			if _, dup := seen[pkg]; dup || !m.Matches(sel, pkg) {
				continue
			}
			seen[pkg] = struct{}{}
			out = append(out, pkg)
		}
	}

	collect(sel.Name)
	if sel.Op == domain.OpNone {
		// Every dash may separate name from version, as versions can contain dashes too.
		for i := strings.LastIndexByte(sel.Name, '-'); i > 0; i = strings.LastIndexByte(sel.Name[:i], '-') {
			collect(sel.Name[:i])
		}
	}
	m.Sort(out)
	return out
}

// Filter returns the packages of pkgs matching sel, sorted with Sort.
func (m *Matcher) Filter(sel Selector, pkgs []*domain.Package) []*domain.Package {
	var out []*domain.Package
	for _, pkg := range pkgs {
		if m.Matches(sel, pkg) {
			out = append(out, pkg)
		}
	}
	m.Sort(out)
	return out
}

// Matches reports whether pkg matches sel by name and version constraint,
// or by its full "name-version" key.
func (m *Matcher) Matches(sel Selector, pkg *domain.Package) bool {
	if sel.Op == domain.OpNone && pkg.Key().String() == sel.Name {
		return true
	}
	if pkg.Name.String() != sel.Name {
		return false
	}
	if sel.Op == domain.OpNone {
		return true
	}
	if sel.Op == domain.OpEqual && pkg.Version.String() == sel.Version {
		return true
	}
	return sel.Op.Holds(m.cache.Comparator().Compare(pkg.Version.String(), sel.Version))
}

// Sort orders packages by name, then newest version first, then arena id.
func (m *Matcher) Sort(pkgs []*domain.Package) {
	cmp := m.cache.Comparator()
	slices.SortStableFunc(pkgs, func(a, b *domain.Package) int {
		if c := strings.Compare(a.Name.String(), b.Name.String()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Version.String(), a.Version.String()); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
}

// Newest returns the package with the highest version among pkgs, preferring
// higher priority and then lower arena id on ties. It returns nil for an empty slice.
func (m *Matcher) Newest(pkgs []*domain.Package) *domain.Package {
	cmp := m.cache.Comparator()
	var best *domain.Package
	for _, pkg := range pkgs {
		if best == nil {
			best = pkg
			continue
		}
		c := cmp.Compare(pkg.Version.String(), best.Version.String())
		if c > 0 || (c == 0 && (pkg.Priority > best.Priority || (pkg.Priority == best.Priority && pkg.ID < best.ID))) {
			best = pkg
		}
	}
	return best
}

// Search returns the packages whose name, summary or description contains
// any of terms, ignoring case, in listing order. Blank terms are ignored.
func (m *Matcher) Search(terms []string) []*domain.Package {
	var needles []string
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			needles = append(needles, t)
		}
	}
	if len(needles) == 0 {
		return nil
	}

	var out []*domain.Package
	for _, pkg := range m.cache.Packages("") {
		texts := []string{strings.ToLower(pkg.Name.String())}
		for _, o := range pkg.Origins {
			if o.Info != nil {
				texts = append(texts, strings.ToLower(o.Info.Summary), strings.ToLower(o.Info.Description))
			}
		}
		if slices.ContainsFunc(needles, func(n string) bool {
			return slices.ContainsFunc(texts, func(s string) bool { return strings.Contains(s, n) })
		}) {
			out = append(out, pkg)
		}
	}
	domain.SortPackagesFunc(out, m.cache.Comparator().Compare)
	return out
}
