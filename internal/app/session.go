package app

import (
	"context"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Status prints the marked changes.
func (a *App) Status(ctx context.Context) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}
	if ws.current.Len() == 0 {
		return a.println("There are no marked changes.")
	}
	return a.renderer.ChangeSet(ws.current)
}

// Undo restores the marked changes as they were before the last change.
func (a *App) Undo(ctx context.Context) error {
	return a.travel(ctx, func(ws *workspace, current domain.Token) (domain.Token, error) {
		return ws.history.Undo(current)
	})
}

// Redo reapplies the last undone change.
func (a *App) Redo(ctx context.Context) error {
	return a.travel(ctx, func(ws *workspace, current domain.Token) (domain.Token, error) {
		return ws.history.Redo(current)
	})
}

func (a *App) travel(ctx context.Context, step func(*workspace, domain.Token) (domain.Token, error)) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}

	state, err := step(ws, ws.current.PersistentState())
	if err != nil {
		if isNothingToDo(err) {
			a.logger.Info(err.Error())
			return nil
		}
		return err
	}

	next := domain.NewChangeSet()
	if err := next.SetPersistentState(ws.cache, state); err != nil {
		return zerr.Wrap(err, "failed to restore marked changes")
	}
	diff := next.Diff(ws.current)
	ws.current.SetState(next)
	if err := a.renderer.Diff(diff); err != nil {
		return err
	}
	return a.persist(ws)
}

// Clear drops every marked change. The previous state stays on the undo stack.
func (a *App) Clear(ctx context.Context) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}
	if ws.current.Len() == 0 {
		return a.println("There are no marked changes.")
	}
	return a.mark(ws, domain.NewChangeSet())
}

// Commit hands the marked changes to the committer. On success the session
// starts over with no marked changes and no history.
func (a *App) Commit(ctx context.Context) error {
	ws, err := a.open(ctx, nil)
	if err != nil {
		return err
	}
	if ws.current.Len() == 0 {
		return domain.ErrNothingToCommit
	}

	ctx, vertex := a.telemetry.Record(ctx, string(domain.PhaseCommit))
	path, err := a.committer.Commit(ctx, ws.cfg.PlanFile, ws.current)
	vertex.Complete(err)
	if err != nil {
		return zerr.Wrap(err, "commit failed")
	}

	if err := a.renderer.ChangeSet(ws.current); err != nil {
		return err
	}
	if err := a.println("Plan written to " + path); err != nil {
		return err
	}

	ws.current.Clear()
	ws.history.Clear()
	return a.persist(ws)
}
