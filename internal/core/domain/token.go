package domain

import (
	"slices"
	"strings"
)

// TokenEntry is one (name, version, action) triple of a persistent changeset state.
type TokenEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Action  Action `json:"action"`
}

// Token is the persistent form of a changeset. It holds identity keys only,
// so it stays valid across cache reloads.
type Token []TokenEntry

// Sort orders the entries by name, version and action.
func (t Token) Sort() {
	slices.SortFunc(t, func(a, b TokenEntry) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := strings.Compare(a.Version, b.Version); c != 0 {
			return c
		}
		return int(a.Action) - int(b.Action)
	})
}

// Equal reports whether both tokens hold the same entries in the same order.
func (t Token) Equal(other Token) bool {
	return slices.Equal(t, other)
}

// Session is the persisted interactive state: the current marks plus bounded undo and redo stacks.
// The most recent state sits at index 0 of each stack.
type Session struct {
	Current Token   `json:"current,omitzero"`
	Undo    []Token `json:"undo,omitzero"`
	Redo    []Token `json:"redo,omitzero"`
}
