// Package version provides the version comparators depot can order packages with.
package version

import (
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
)

// New returns the comparator registered under scheme.
// An empty scheme selects the rpm ordering.
func New(scheme string) (ports.VersionComparator, error) {
	switch scheme {
	case "", domain.ComparatorRPM:
		return RPM{}, nil
	case domain.ComparatorSemver:
		return Semver{}, nil
	default:
		return nil, zerr.With(domain.ErrUnknownComparator, "comparator", scheme)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
