package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Action is the intent recorded against a package in a changeset.
type Action uint8

const (
	// ActionInstall installs a package that is not installed.
	ActionInstall Action = iota + 1
	// ActionReinstall installs an installed package again.
	ActionReinstall
	// ActionUpgrade replaces an installed package by a newer one of the same name.
	ActionUpgrade
	// ActionRemove removes an installed package.
	ActionRemove
	// ActionKeep clears any pending change on a package.
	ActionKeep
	// ActionFix repairs a broken package by satisfying its dependencies.
	ActionFix
)

var actionNames = map[Action]string{
	ActionInstall:   "install",
	ActionReinstall: "reinstall",
	ActionUpgrade:   "upgrade",
	ActionRemove:    "remove",
	ActionKeep:      "keep",
	ActionFix:       "fix",
}

// Actions lists every action in declaration order.
var Actions = []Action{ActionInstall, ActionReinstall, ActionUpgrade, ActionRemove, ActionKeep, ActionFix}

// String returns the lower-case name of the action.
func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

// ParseAction converts a case-insensitive action name into an Action.
func ParseAction(s string) (Action, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Actions {
		if actionNames[a] == want {
			return a, nil
		}
	}
	return 0, zerr.With(ErrInvalidAction, "action", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, zerr.With(ErrInvalidAction, "action", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
