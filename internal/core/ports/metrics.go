package ports

import "time"

// Metrics records counters and timings of depot operations.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveCache records the size of the cache after a load.
	ObserveCache(packages, relations int)
	// ObserveResolve records one transaction run.
	ObserveResolve(policy string, d time.Duration, err error)
	// ObserveChangeSet records the number of entries per action in a changeset.
	ObserveChangeSet(counts map[string]int)
	// Flush writes the collected metrics to path. An empty path is a no-op.
	Flush(path string) error
}
