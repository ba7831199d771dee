package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Operator is the relational operator of a Requires, Obsoletes or Conflicts relation.
type Operator uint8

const (
	// OpNone marks a name-only relation that matches every version.
	OpNone Operator = iota
	// OpEqual matches exactly the given version.
	OpEqual
	// OpNotEqual matches every version except the given one.
	OpNotEqual
	// OpLess matches versions older than the given one.
	OpLess
	// OpLessEqual matches versions older than or equal to the given one.
	OpLessEqual
	// OpGreater matches versions newer than the given one.
	OpGreater
	// OpGreaterEqual matches versions newer than or equal to the given one.
	OpGreaterEqual
)

// String returns the canonical spelling of the operator.
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return ""
	}
}

// Holds reports whether a comparison result (candidate compared to the
// relation version) satisfies the operator.
func (o Operator) Holds(cmp int) bool {
	switch o {
	case OpNone:
		return true
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	default:
		return false
	}
}

// ParseOperator converts an operator spelling into an Operator.
// Debian-style "<<" and ">>" are accepted as strict comparisons.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "":
		return OpNone, nil
	case "=", "==":
		return OpEqual, nil
	case "!=":
		return OpNotEqual, nil
	case "<", "<<":
		return OpLess, nil
	case "<=", "=<":
		return OpLessEqual, nil
	case ">", ">>":
		return OpGreater, nil
	case ">=", "=>":
		return OpGreaterEqual, nil
	default:
		return OpNone, zerr.With(ErrInvalidOperator, "operator", s)
	}
}

// RelationKind is the category of a relation.
type RelationKind uint8

const (
	// KindProvides is a capability offered by a package.
	KindProvides RelationKind = iota
	// KindRequires is a capability a package needs.
	KindRequires
	// KindObsoletes is a capability a package replaces.
	KindObsoletes
	// KindConflicts is a capability a package cannot coexist with.
	KindConflicts
)

// RelationKinds lists every kind in canonical order.
var RelationKinds = [...]RelationKind{KindProvides, KindRequires, KindObsoletes, KindConflicts}

// DependsKinds lists the kinds that are linked against provides.
var DependsKinds = [...]RelationKind{KindRequires, KindObsoletes, KindConflicts}

// String returns the lower-case name of the kind.
func (k RelationKind) String() string {
	switch k {
	case KindProvides:
		return "provides"
	case KindRequires:
		return "requires"
	case KindObsoletes:
		return "obsoletes"
	case KindConflicts:
		return "conflicts"
	default:
		return "unknown"
	}
}

// Relation is the identity tuple of a Provides, Requires, Obsoletes or Conflicts.
// It is comparable and is used directly as the cache deduplication key.
type Relation struct {
	Kind    RelationKind
	Name    InternedString
	Version InternedString
	Op      Operator
}

// NewProvides builds a Provides tuple. An empty version means unversioned.
func NewProvides(name, version string) Relation {
	r := Relation{Kind: KindProvides, Name: NewInternedString(name)}
	if version != "" {
		r.Version = NewInternedString(version)
		r.Op = OpEqual
	}
	return r
}

// NewDepends builds a Requires, Obsoletes or Conflicts tuple.
// A relation without version is always name-only regardless of op.
func NewDepends(kind RelationKind, name string, op Operator, version string) Relation {
	r := Relation{Kind: kind, Name: NewInternedString(name)}
	if version != "" && op != OpNone {
		r.Version = NewInternedString(version)
		r.Op = op
	}
	return r
}

// IsFilePath reports whether the relation names a filesystem path.
func (r Relation) IsFilePath() bool {
	return strings.HasPrefix(r.Name.String(), "/")
}

// String renders the relation in "name op version" form.
func (r Relation) String() string {
	if r.Version.IsZero() {
		return r.Name.String()
	}
	return r.Name.String() + " " + r.Op.String() + " " + r.Version.String()
}

// ParseRelation parses "name", "name op version" or "nameopversion" into a relation of the given kind.
// Provides only accept "=" as operator.
func ParseRelation(kind RelationKind, s string) (Relation, error) {
	raw := strings.TrimSpace(s)
	idx := strings.IndexAny(raw, "<>=!")
	if idx < 0 {
		if raw == "" || strings.ContainsAny(raw, " \t") {
			return Relation{}, zerr.With(ErrInvalidRelation, "relation", s)
		}
		if kind == KindProvides {
			return NewProvides(raw, ""), nil
		}
		return NewDepends(kind, raw, OpNone, ""), nil
	}

	name := strings.TrimSpace(raw[:idx])
	rest := raw[idx:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !strings.ContainsRune("<>=!", r)
	})
	if end < 0 {
		return Relation{}, zerr.With(ErrInvalidRelation, "relation", s)
	}
	version := strings.TrimSpace(rest[end:])
	if name == "" || version == "" || strings.ContainsAny(name, " \t") || strings.ContainsAny(version, " \t") {
		return Relation{}, zerr.With(ErrInvalidRelation, "relation", s)
	}

	op, err := ParseOperator(rest[:end])
	if err != nil {
		return Relation{}, zerr.With(err, "relation", s)
	}

	if kind == KindProvides {
		if op != OpEqual {
			return Relation{}, zerr.With(ErrInvalidRelation, "relation", s)
		}
		return NewProvides(name, version), nil
	}
	return NewDepends(kind, name, op, version), nil
}

// ParseRelations parses a list of relation strings, stopping at the first error.
func ParseRelations(kind RelationKind, items []string) ([]Relation, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]Relation, 0, len(items))
	for _, item := range items {
		rel, err := ParseRelation(kind, item)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}
