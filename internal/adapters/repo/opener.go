package repo

import (
	"context"
	"path/filepath"
	"runtime"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/engine/cache"
	"golang.org/x/sync/errgroup"
)

// Opener implements ports.SourceOpener for channels of YAML indexes.
type Opener struct {
	// Limit bounds the number of index files decoded concurrently.
	Limit int
}

// NewOpener creates an Opener decoding up to one index per CPU at a time.
func NewOpener() *Opener {
	return &Opener{Limit: runtime.NumCPU()}
}

// Open builds one loader per enabled channel, in declaration order. A channel
// with several components becomes a cache.LoaderSet. Index files are decoded
// concurrently here; decoding errors surface when the loader is loaded.
func (o *Opener) Open(ctx context.Context, root string, channels []domain.Channel) ([]ports.Loader, error) {
	var loaders []ports.Loader
	var components []*Loader

	for _, ch := range channels {
		if ch.Disabled {
			continue
		}

		members := make([]*Loader, 0, len(ch.Components))
		for _, c := range ch.Components {
			path := c
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			alias := ch.Alias
			if len(ch.Components) > 1 {
				alias = ch.Alias + "/" + filepath.Base(path)
			}
			l := NewLoader(alias, path)
			l.SetInstalled(ch.Installed)
			l.SetPriority(ch.Priority)
			members = append(members, l)
		}
		components = append(components, members...)

		if len(members) == 1 {
			loaders = append(loaders, members[0])
			continue
		}
		set := cache.NewLoaderSet(ch.Alias)
		for _, m := range members {
			set.Add(m)
		}
		loaders = append(loaders, set)
	}

	g, groupCtx := errgroup.WithContext(ctx)
	if o.Limit > 0 {
		g.SetLimit(o.Limit)
	}
	for _, l := range components {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			l.Prefetch()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaders, nil
}
