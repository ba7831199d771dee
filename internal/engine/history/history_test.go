package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/version"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
	"go.trai.ch/depot/internal/engine/history"
	"go.trai.ch/depot/internal/engine/transaction"
)

func tok(names ...string) domain.Token {
	t := make(domain.Token, 0, len(names))
	for _, n := range names {
		t = append(t, domain.TokenEntry{Name: n, Version: "1", Action: domain.ActionInstall})
	}
	return t
}

func TestHistory_SaveUndoRedo(t *testing.T) {
	h := history.New(5)

	_, err := h.Undo(nil)
	require.ErrorIs(t, err, domain.ErrNothingToUndo)
	_, err = h.Redo(nil)
	require.ErrorIs(t, err, domain.ErrNothingToRedo)

	h.Save(tok())
	h.Save(tok("a"))

	state, err := h.Undo(tok("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, tok("a"), state)

	next, ok := h.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, tok("a", "b"), next)

	state, err = h.Redo(tok("a"))
	require.NoError(t, err)
	assert.Equal(t, tok("a", "b"), state)

	top, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, tok("a"), top)
}

func TestHistory_SaveSkipsDuplicateAndClearsRedo(t *testing.T) {
	h := history.New(5)
	h.Save(tok("a"))
	h.Save(tok("a"))

	undo, redo := h.Len()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)

	_, err := h.Undo(tok("b"))
	require.NoError(t, err)
	_, redo = h.Len()
	require.Equal(t, 1, redo)

	h.Save(tok("c"))
	undo, redo = h.Len()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)
}

func TestHistory_Bounded(t *testing.T) {
	h := history.New(3)
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		h.Save(tok(n))
	}
	undo, _ := h.Len()
	assert.Equal(t, 3, undo)

	top, _ := h.PeekUndo()
	assert.Equal(t, tok("e"), top)

	assert.Equal(t, domain.DefaultUndoDepth, history.New(0).Depth())
}

func TestHistory_SessionRoundTrip(t *testing.T) {
	h := history.New(2)
	h.Save(tok("a"))
	h.Save(tok("b"))
	_, err := h.Undo(tok("c"))
	require.NoError(t, err)

	s := h.Session(tok("b"))
	assert.Equal(t, tok("b"), s.Current)

	restored := history.FromSession(s, 2)
	assert.Equal(t, s, restored.Session(tok("b")))

	restored.Clear()
	undo, redo := restored.Len()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
}

func TestHistory_UndoRedoAcrossReload(t *testing.T) {
	loader := cache.NewStaticLoader("repo",
		domain.PackageSpec{Name: "A", Version: "1", Provides: []domain.Relation{domain.NewProvides("A", "1")}},
		domain.PackageSpec{Name: "B", Version: "1", Provides: []domain.Relation{domain.NewProvides("B", "1")}},
	)
	c := cache.New(version.RPM{})
	c.AddLoader(loader)
	require.NoError(t, c.Load())

	h := history.New(domain.DefaultUndoDepth)
	current := domain.NewChangeSet()
	mark := func(name string) {
		tx := transaction.New(c, transaction.PolicyInstall)
		tx.SetState(current)
		require.NoError(t, tx.Enqueue(c.Packages(name)[0], domain.ActionInstall))
		require.NoError(t, tx.Run())
		h.Save(current.PersistentState())
		current.SetState(tx.ChangeSet())
	}

	mark("A")
	mark("B")
	second := current.PersistentState()

	state, err := h.Undo(current.PersistentState())
	require.NoError(t, err)
	require.NoError(t, current.SetPersistentState(c, state))
	assert.Equal(t, 1, current.Len())

	// Package objects are recreated by a full load; tokens still resolve
	require.NoError(t, c.Load())

	state, err = h.Redo(current.PersistentState())
	require.NoError(t, err)
	require.NoError(t, current.SetPersistentState(c, state))
	assert.Equal(t, second, current.PersistentState())
	assert.Equal(t, 2, current.Len())
}
