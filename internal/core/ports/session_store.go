package ports

import "go.trai.ch/depot/internal/core/domain"

// SessionStore persists the interactive session and the package snapshot
// between invocations.
//
//go:generate mockgen -source=session_store.go -destination=mocks/mock_session_store.go -package=mocks
type SessionStore interface {
	// Get returns the stored session. A missing session yields an empty one.
	Get(stateDir string) (*domain.Session, error)

	// Put stores the session.
	Put(stateDir string, session *domain.Session) error

	// GetSnapshot returns the package snapshot of the last update. A missing
	// snapshot yields an empty one.
	GetSnapshot(stateDir string) (*domain.Snapshot, error)

	// PutSnapshot stores the package snapshot.
	PutSnapshot(stateDir string, snapshot *domain.Snapshot) error
}
