package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/depot/internal/adapters/render"  //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/version" //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
	"go.trai.ch/depot/internal/engine/matcher"
	"go.trai.ch/depot/internal/engine/transaction"
	"go.trai.ch/zerr"
)

// ListOptions holds the filters and columns of Ls.
type ListOptions struct {
	// Installed lists only installed packages.
	Installed bool
	// New lists only packages the last update saw for the first time.
	New      bool
	Versions bool
	Summary  bool
	Channels bool
}

// Ls prints the packages matching selectors, or every package when there are none.
func (a *App) Ls(ctx context.Context, selectors []string, opts ListOptions) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	snapshot := &domain.Snapshot{}
	if opts.New {
		if snapshot, err = a.sessions.GetSnapshot(ws.cfg.StateDir); err != nil {
			return err
		}
	}

	var pkgs []*domain.Package
	for _, pkg := range ws.cache.Packages("") {
		if (opts.Installed && !pkg.Installed) || (opts.New && !snapshot.IsNew(pkg.Key())) {
			continue
		}
		pkgs = append(pkgs, pkg)
	}

	if len(selectors) > 0 {
		seen := make(map[*domain.Package]struct{})
		var matched []*domain.Package
		for _, s := range selectors {
			sel, err := matcher.Parse(s)
			if err != nil {
				return err
			}
			found := ws.matcher.Filter(sel, pkgs)
			if len(found) == 0 {
				return matcher.NewSelectorError(s, domain.ErrNoMatch)
			}
			for _, pkg := range found {
				if _, dup := seen[pkg]; !dup {
					seen[pkg] = struct{}{}
					matched = append(matched, pkg)
				}
			}
		}
		pkgs = matched
	}

	domain.SortPackagesFunc(pkgs, ws.cache.Comparator().Compare)
	return a.renderer.Packages(pkgs, render.ListOptions{
		Summary:  opts.Summary,
		Channels: opts.Channels,
		Marks:    ws.current,
		NameOnly: !opts.Versions,
	})
}

// Search prints the packages whose name, summary or description contains any
// of terms, with versions and summaries.
func (a *App) Search(ctx context.Context, terms []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	pkgs := ws.matcher.Search(terms)
	if len(pkgs) == 0 {
		return matcher.NewSelectorError(strings.Join(terms, " "), domain.ErrNoMatch)
	}
	return a.renderer.Packages(pkgs, render.ListOptions{Summary: true, Marks: ws.current})
}

// Info prints the details of every package matching selector.
func (a *App) Info(ctx context.Context, selector string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	pkgs, err := ws.matcher.Match(selector)
	if err != nil {
		return err
	}
	for i, pkg := range pkgs {
		if i > 0 {
			if err := a.println(""); err != nil {
				return err
			}
		}
		var relations [4][]string
		for _, kind := range domain.RelationKinds {
			for _, id := range pkg.Relations(kind) {
				relations[kind] = append(relations[kind], ws.cache.Relation(id).String())
			}
		}
		if err := a.renderer.Info(pkg, relations); err != nil {
			return err
		}
	}
	return nil
}

// Update loads the channels named by aliases, or every enabled channel, and
// reports what they hold and which packages are new since the previous update.
// Channels that fail to load are reported as warnings. The marked changes are
// left untouched.
func (a *App) Update(ctx context.Context, aliases []string) error {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	channels := cfg.EnabledChannels()
	if len(aliases) > 0 {
		byAlias := make(map[string]domain.Channel, len(cfg.Channels))
		for _, ch := range cfg.Channels {
			byAlias[ch.Alias] = ch
		}
		channels = make([]domain.Channel, 0, len(aliases))
		for _, alias := range aliases {
			ch, ok := byAlias[alias]
			if !ok {
				return zerr.With(domain.ErrUnknownChannel, "alias", alias)
			}
			ch.Disabled = false
			channels = append(channels, ch)
		}
	}

	cmp, err := version.New(cfg.Comparator)
	if err != nil {
		return err
	}
	c, failed, err := a.load(ctx, cfg, cmp, channels)
	if err != nil {
		return err
	}

	packages, relations := c.Stats()
	if err := a.println(fmt.Sprintf("Loaded %d packages and %d relations from %d channels.", packages, relations, len(channels))); err != nil {
		return err
	}

	previous, err := a.sessions.GetSnapshot(cfg.StateDir)
	if err != nil {
		return err
	}
	loaded := make([]domain.PackageKey, 0, packages)
	for _, pkg := range c.Packages("") {
		loaded = append(loaded, pkg.Key())
	}
	// Keys of channels that were skipped or failed stay known.
	snapshot := previous.Next(loaded, len(aliases) > 0 || failed > 0)
	if err := a.sessions.PutSnapshot(cfg.StateDir, snapshot); err != nil {
		return err
	}
	if err := a.reportNew(c, snapshot); err != nil {
		return err
	}
	return a.metrics.Flush(cfg.MetricsFile)
}

// maxListedNew is the number of new packages Update lists by name.
const maxListedNew = 10

func (a *App) reportNew(c *cache.Cache, snapshot *domain.Snapshot) error {
	n := len(snapshot.New)
	switch {
	case n == 0:
		return a.println("Channels have no new packages.")
	case n > maxListedNew:
		return a.println(fmt.Sprintf("Channels have %d new packages.", n))
	}

	seen := make(map[domain.PackageKey]struct{}, n)
	var pkgs []*domain.Package
	for _, pkg := range c.Packages("") {
		if _, dup := seen[pkg.Key()]; dup || !snapshot.IsNew(pkg.Key()) {
			continue
		}
		seen[pkg.Key()] = struct{}{}
		pkgs = append(pkgs, pkg)
	}
	domain.SortPackagesFunc(pkgs, c.Comparator().Compare)

	var b strings.Builder
	fmt.Fprintf(&b, "Channels have %d new %s:", n, plural(n, "package", "packages"))
	for _, pkg := range pkgs {
		b.WriteString("\n    " + pkg.String())
	}
	return a.println(b.String())
}

// Check audits the cache and verifies that the relations of every installed
// package hold without changes.
func (a *App) Check(ctx context.Context) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	_, vertex := a.telemetry.Record(ctx, string(domain.PhaseLink))
	err = ws.cache.Verify()
	vertex.Complete(err)
	if err != nil {
		return err
	}

	tx := transaction.New(ws.cache, transaction.PolicyFix)
	for _, pkg := range ws.cache.Packages("") {
		if pkg.Installed {
			if err := tx.Enqueue(pkg, domain.ActionFix); err != nil {
				return err
			}
		}
	}
	if err := a.timed(ctx, transaction.PolicyFix.Name(), tx.Run); err != nil {
		return err
	}

	if tx.ChangeSet().Len() == 0 {
		return a.println("No problems found.")
	}
	if err := a.renderer.ChangeSet(tx.ChangeSet()); err != nil {
		return err
	}
	return zerr.With(domain.ErrCheckFailed, "changes", tx.ChangeSet().Len())
}
