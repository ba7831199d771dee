package version

import rpmversion "github.com/knqyf263/go-rpm-version"

// RPM orders versions the way rpmvercmp does, including epoch and release.
type RPM struct{}

// Compare implements ports.VersionComparator.
func (RPM) Compare(a, b string) int {
	if a == b {
		return 0
	}
	return sign(rpmversion.NewVersion(a).Compare(rpmversion.NewVersion(b)))
}
