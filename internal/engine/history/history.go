// Package history keeps bounded undo and redo stacks of changeset tokens.
package history

import (
	"slices"

	"go.trai.ch/depot/internal/core/domain"
)

// History holds the undo and redo stacks of an interactive session. The most
// recent state is at index 0 of each stack.
type History struct {
	depth int
	undo  []domain.Token
	redo  []domain.Token
}

// New creates an empty history retaining at most depth states per stack.
// A depth below one falls back to domain.DefaultUndoDepth.
func New(depth int) *History {
	if depth < 1 {
		depth = domain.DefaultUndoDepth
	}
	return &History{depth: depth}
}

// FromSession restores the stacks of a persisted session.
func FromSession(s *domain.Session, depth int) *History {
	h := New(depth)
	if s != nil {
		h.undo = h.bound(slices.Clone(s.Undo))
		h.redo = h.bound(slices.Clone(s.Redo))
	}
	return h
}

// Session returns the persistable form of the history with current as the marked state.
func (h *History) Session(current domain.Token) *domain.Session {
	return &domain.Session{
		Current: current,
		Undo:    slices.Clone(h.undo),
		Redo:    slices.Clone(h.redo),
	}
}

// Depth returns the maximum number of states kept per stack.
func (h *History) Depth() int {
	return h.depth
}

// Save records state, the changeset as it was before a change, on the undo
// stack and drops the redo stack. Saving the state already on top is a no-op.
func (h *History) Save(state domain.Token) {
	if len(h.undo) > 0 && h.undo[0].Equal(state) {
		return
	}
	h.undo = h.bound(slices.Insert(h.undo, 0, state))
	h.redo = nil
}

// Undo pops the most recent undo state and pushes current on the redo stack.
func (h *History) Undo(current domain.Token) (domain.Token, error) {
	if len(h.undo) == 0 {
		return nil, domain.ErrNothingToUndo
	}
	state := h.undo[0]
	h.undo = h.undo[1:]
	h.redo = h.bound(slices.Insert(h.redo, 0, current))
	return state, nil
}

// Redo pops the most recent redo state and pushes current on the undo stack.
func (h *History) Redo(current domain.Token) (domain.Token, error) {
	if len(h.redo) == 0 {
		return nil, domain.ErrNothingToRedo
	}
	state := h.redo[0]
	h.redo = h.redo[1:]
	h.undo = h.bound(slices.Insert(h.undo, 0, current))
	return state, nil
}

// PeekUndo returns the state Undo would restore.
func (h *History) PeekUndo() (domain.Token, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	return h.undo[0], true
}

// PeekRedo returns the state Redo would restore.
func (h *History) PeekRedo() (domain.Token, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	return h.redo[0], true
}

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func (h *History) bound(stack []domain.Token) []domain.Token {
	if len(stack) > h.depth {
		return stack[:h.depth]
	}
	return stack
}
