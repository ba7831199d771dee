package transaction

import (
	"strings"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
)

// Candidate is a package that could be installed to satisfy a relation.
type Candidate struct {
	Package *domain.Package
	// Displaced counts the present packages installing the candidate would remove
	// through conflicts or obsoletes.
	Displaced int
	// Broken counts the present packages installing the candidate would leave
	// with an unsatisfied requires.
	Broken int
}

// Policy decides the tie-breaks of a resolution.
type Policy interface {
	// Name identifies the policy in logs and metrics.
	Name() string
	// Compare orders candidates, best first. It must be a total order.
	Compare(cmp ports.VersionComparator, a, b Candidate) int
	// Cascade reports whether a package that lost a dependency is removed
	// without looking for another provider first.
	Cascade() bool
	// Displace reports whether installed packages may be removed to honour
	// a conflict or an obsoletes.
	Displace() bool
}

// StandardPolicy is the configurable policy the built-in policies are made of.
type StandardPolicy struct {
	Label string
	// PreferNewest ranks the newest version before the least displacing candidate.
	PreferNewest bool
	// EagerCascade removes packages left without a provider instead of replacing the provider.
	EagerCascade bool
	// ProtectInstalled forbids removing installed packages because of conflicts or obsoletes.
	ProtectInstalled bool
}

var (
	// PolicyInstall leaves uninvolved packages untouched where possible.
	PolicyInstall Policy = StandardPolicy{Label: "install"}
	// PolicyUpgrade prefers the newest versions.
	PolicyUpgrade Policy = StandardPolicy{Label: "upgrade", PreferNewest: true}
	// PolicyRemove cascades removals to packages left without a provider.
	PolicyRemove Policy = StandardPolicy{Label: "remove", EagerCascade: true}
	// PolicyFix repairs broken packages with the least impact.
	PolicyFix Policy = StandardPolicy{Label: "fix"}
)

// Name implements Policy.
func (p StandardPolicy) Name() string {
	return p.Label
}

// Cascade implements Policy.
func (p StandardPolicy) Cascade() bool {
	return p.EagerCascade
}

// Displace implements Policy.
func (p StandardPolicy) Displace() bool {
	return !p.ProtectInstalled
}

// Compare implements Policy.
//
// By default candidates are ranked by: installed packages pending removal
// first, fewest displacements, fewest broken dependants, higher priority,
// newer version. With PreferNewest the version comes first. Name and arena id
// end every order.
func (p StandardPolicy) Compare(cmp ports.VersionComparator, a, b Candidate) int {
	newer := func() int {
		return cmp.Compare(b.Package.Version.String(), a.Package.Version.String())
	}
	keys := []func() int{
		func() int { return boolFirst(a.Package.Installed, b.Package.Installed) },
		func() int { return a.Displaced - b.Displaced },
		func() int { return a.Broken - b.Broken },
		func() int { return b.Package.Priority - a.Package.Priority },
		newer,
	}
	if p.PreferNewest {
		keys = []func() int{
			newer,
			func() int { return a.Displaced - b.Displaced },
			func() int { return a.Broken - b.Broken },
			func() int { return b.Package.Priority - a.Package.Priority },
			func() int { return boolFirst(a.Package.Installed, b.Package.Installed) },
		}
	}
	for _, key := range keys {
		if c := key(); c != 0 {
			return c
		}
	}
	if c := strings.Compare(a.Package.Name.String(), b.Package.Name.String()); c != 0 {
		return c
	}
	return int(a.Package.ID) - int(b.Package.ID)
}

func boolFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
