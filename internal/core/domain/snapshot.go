package domain

import (
	"slices"
	"strings"
)

// Snapshot records the package keys seen by the last update and the ones
// that update saw for the first time.
type Snapshot struct {
	Known []PackageKey `json:"known,omitzero"`
	New   []PackageKey `json:"new,omitzero"`
}

// Next returns the snapshot following s after an update loaded keys. Keys
// missing from s.Known are new, unless s knows nothing yet: the first update
// only sets the baseline. A partial update keeps the keys of the channels it
// did not load known.
func (s *Snapshot) Next(keys []PackageKey, partial bool) *Snapshot {
	known := make(map[PackageKey]struct{}, len(s.Known))
	for _, k := range s.Known {
		known[k] = struct{}{}
	}

	next := &Snapshot{}
	seen := make(map[PackageKey]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		next.Known = append(next.Known, k)
		if _, ok := known[k]; !ok && len(s.Known) > 0 {
			next.New = append(next.New, k)
		}
	}
	if partial {
		for _, k := range s.Known {
			if _, ok := seen[k]; !ok {
				next.Known = append(next.Known, k)
			}
		}
	}
	sortKeys(next.Known)
	sortKeys(next.New)
	return next
}

// IsNew reports whether the last update saw key for the first time.
func (s *Snapshot) IsNew(key PackageKey) bool {
	_, found := slices.BinarySearchFunc(s.New, key, compareKeys)
	return found
}

func compareKeys(a, b PackageKey) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Version, b.Version)
}

func sortKeys(keys []PackageKey) {
	slices.SortFunc(keys, compareKeys)
}
