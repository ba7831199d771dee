package cache

import "go.trai.ch/depot/internal/core/domain"

// LinkDeps rebuilds the edges between every provides and the requires,
// obsoletes and conflicts of the same name it satisfies. Edges are cleared
// first, so calling it twice yields the same graph.
func (c *Cache) LinkDeps() {
	for i := range c.rels {
		c.rels[i].providedBy = nil
		c.rels[i].linkedBy = nil
	}

	for _, pid := range c.byKind[domain.KindProvides] {
		prv := c.rels[pid].rel
		name := prv.Name.String()
		for _, kind := range domain.DependsKinds {
			for _, did := range c.relNames[kind][name] {
				if !c.Satisfies(c.rels[did].rel, prv) {
					continue
				}
				c.rels[did].providedBy = append(c.rels[did].providedBy, pid)
				c.rels[pid].linkedBy = append(c.rels[pid].linkedBy, did)
			}
		}
	}
}

// Satisfies reports whether the provides prv matches the dependency dep.
// A name-only dependency and an unversioned provides match any version.
func (c *Cache) Satisfies(dep, prv domain.Relation) bool {
	if dep.Name != prv.Name {
		return false
	}
	if dep.Op == domain.OpNone || prv.Version.IsZero() {
		return true
	}
	if dep.Op == domain.OpEqual && dep.Version == prv.Version {
		return true
	}
	return dep.Op.Holds(c.cmp.Compare(prv.Version.String(), dep.Version.String()))
}
