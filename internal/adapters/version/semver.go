package version

import mm "github.com/Masterminds/semver/v3"

// Semver orders versions by semantic versioning precedence.
// Strings that are not semantic versions sort before all valid ones and are
// ordered among themselves with the rpm algorithm, which keeps the order total.
type Semver struct{}

// Compare implements ports.VersionComparator.
func (Semver) Compare(a, b string) int {
	if a == b {
		return 0
	}
	va, errA := mm.NewVersion(a)
	vb, errB := mm.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		// Equal precedence with different spelling, e.g. "1.0" and "1.0.0".
		return RPM{}.Compare(a, b)
	case errA != nil && errB != nil:
		return RPM{}.Compare(a, b)
	case errA != nil:
		return -1
	default:
		return 1
	}
}
