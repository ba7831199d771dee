// Package repo loads packages from YAML repository indexes.
package repo

import (
	"sync"

	"go.trai.ch/depot/internal/engine/cache"
)

// Loader is a ports.Loader over one index file. Reload, file provides and
// binding come from the embedded cache.BaseLoader.
type Loader struct {
	*cache.BaseLoader
	path string

	mu          sync.Mutex
	prefetched  *Index
	prefetchErr error
	hasPrefetch bool
}

// NewLoader creates a loader named alias reading the index at path.
func NewLoader(alias, path string) *Loader {
	return &Loader{BaseLoader: cache.NewBaseLoader(alias), path: path}
}

// Path returns the index file of the loader.
func (l *Loader) Path() string {
	return l.path
}

// Prefetch reads and decodes the index ahead of the next Load. It is safe to
// call from another goroutine than the one loading the cache.
func (l *Loader) Prefetch() {
	idx, err := ReadIndex(l.path)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefetched, l.prefetchErr, l.hasPrefetch = idx, err, true
}

// Load implements ports.Loader. A prefetched index is used once; later loads
// read the file again.
func (l *Loader) Load() error {
	if l.Registrar() == nil {
		return nil
	}

	idx, err := l.index()
	if err != nil {
		return err
	}
	specs, err := idx.Specs()
	if err != nil {
		return err
	}
	for _, spec := range specs {
		l.Stage(spec)
	}
	return nil
}

func (l *Loader) index() (*Index, error) {
	l.mu.Lock()
	if l.hasPrefetch {
		idx, err := l.prefetched, l.prefetchErr
		l.prefetched, l.prefetchErr, l.hasPrefetch = nil, nil, false
		l.mu.Unlock()
		return idx, err
	}
	l.mu.Unlock()
	return ReadIndex(l.path)
}
