package app

import (
	"context"
	"fmt"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/matcher"
	"go.trai.ch/depot/internal/engine/transaction"
)

type request struct {
	pkg    *domain.Package
	action domain.Action
}

// resolve runs reqs on top of the marked changes of ws under policy. When the
// result differs it becomes the new marked state; otherwise unchanged is
// printed if set.
func (a *App) resolve(ctx context.Context, ws *workspace, policy transaction.Policy, reqs []request, unchanged string) error {
	tx := transaction.New(ws.cache, policy)
	tx.SetState(ws.current)
	for _, r := range reqs {
		if err := tx.Enqueue(r.pkg, r.action); err != nil {
			return err
		}
	}

	if err := a.timed(ctx, policy.Name(), tx.Run); err != nil {
		return err
	}

	if tx.ChangeSet().Equal(ws.current) {
		if unchanged != "" {
			return a.println(unchanged)
		}
		return nil
	}
	return a.mark(ws, tx.ChangeSet())
}

// Install marks the best available match of every selector for installation.
func (a *App) Install(ctx context.Context, selectors []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	reqs := make([]request, 0, len(selectors))
	for _, sel := range selectors {
		pkgs, err := ws.matcher.Match(sel)
		if err != nil {
			return err
		}
		best := ws.matcher.Newest(pkgs)
		if best.Installed {
			return &matcher.SelectorError{Selector: sel, Package: best.String(), Err: domain.ErrAlreadyInstalled}
		}
		available := 0
		for _, pkg := range pkgs {
			if !pkg.Installed {
				available++
			}
		}
		if available > 1 {
			a.logger.Warn(fmt.Sprintf("'%s' matches multiple packages, selecting: %s", sel, best))
		}
		reqs = append(reqs, request{pkg: best, action: domain.ActionInstall})
	}
	return a.resolve(ctx, ws, transaction.PolicyInstall, reqs, "")
}

// Reinstall marks the installed package named by every selector for reinstallation.
func (a *App) Reinstall(ctx context.Context, selectors []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	reqs := make([]request, 0, len(selectors))
	for _, sel := range selectors {
		pkgs, err := ws.matcher.MatchInstalled(sel)
		if err != nil {
			return err
		}
		if len(pkgs) > 1 {
			return matcher.NewSelectorError(sel, domain.ErrMultipleMatches)
		}
		reqs = append(reqs, request{pkg: pkgs[0], action: domain.ActionReinstall})
	}
	return a.resolve(ctx, ws, transaction.PolicyInstall, reqs, "")
}

// Upgrade marks the installed matches of every selector for upgrading. With no
// selectors every installed package is considered.
func (a *App) Upgrade(ctx context.Context, selectors []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	var reqs []request
	if len(selectors) == 0 {
		for _, pkg := range ws.cache.Packages("") {
			if pkg.Installed {
				reqs = append(reqs, request{pkg: pkg, action: domain.ActionUpgrade})
			}
		}
	}
	for _, sel := range selectors {
		pkgs, err := ws.matcher.MatchInstalled(sel)
		if err != nil {
			return err
		}
		for _, pkg := range pkgs {
			reqs = append(reqs, request{pkg: pkg, action: domain.ActionUpgrade})
		}
	}
	return a.resolve(ctx, ws, transaction.PolicyUpgrade, reqs, "No interesting upgrades available!")
}

// Remove marks the installed matches of every selector for removal.
func (a *App) Remove(ctx context.Context, selectors []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	var reqs []request
	for _, sel := range selectors {
		pkgs, err := ws.matcher.MatchInstalled(sel)
		if err != nil {
			return err
		}
		for _, pkg := range pkgs {
			reqs = append(reqs, request{pkg: pkg, action: domain.ActionRemove})
		}
	}
	return a.resolve(ctx, ws, transaction.PolicyRemove, reqs, "")
}

// Keep drops the pending changes of the marked matches of every selector.
func (a *App) Keep(ctx context.Context, selectors []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	var reqs []request
	for _, sel := range selectors {
		pkgs, err := ws.matcher.Match(sel)
		if err != nil {
			return err
		}
		found := false
		for _, pkg := range pkgs {
			if ws.current.Contains(pkg) {
				found = true
				reqs = append(reqs, request{pkg: pkg, action: domain.ActionKeep})
			}
		}
		if !found {
			return matcher.NewSelectorError(sel, domain.ErrNoMarkedMatch)
		}
	}
	return a.resolve(ctx, ws, transaction.PolicyInstall, reqs, "")
}

// Fix marks the changes needed for the relations of every match to hold.
func (a *App) Fix(ctx context.Context, selectors []string) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	var reqs []request
	for _, sel := range selectors {
		pkgs, err := ws.matcher.Match(sel)
		if err != nil {
			return err
		}
		for _, pkg := range pkgs {
			reqs = append(reqs, request{pkg: pkg, action: domain.ActionFix})
		}
	}
	return a.resolve(ctx, ws, transaction.PolicyFix, reqs, "No problems to resolve!")
}
