package ports

// VersionComparator is a total order over version strings.
//
//go:generate mockgen -source=version.go -destination=mocks/mock_version.go -package=mocks
type VersionComparator interface {
	// Compare returns a negative number when a < b, zero when equal and a positive number when a > b.
	Compare(a, b string) int
}
