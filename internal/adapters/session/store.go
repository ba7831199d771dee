// Package session persists the interactive session of a workspace.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.SessionStore using JSON files inside the state directory.
type Store struct{}

// NewStore creates a new session store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the session stored in stateDir. A missing file yields an empty session.
func (s *Store) Get(stateDir string) (*domain.Session, error) {
	var session domain.Session
	if err := readJSON(domain.DefaultSessionPath(stateDir), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Put stores the session in stateDir, creating the directory if needed.
// The file is replaced atomically so a crash never leaves a partial session.
func (s *Store) Put(stateDir string, session *domain.Session) error {
	return writeJSON(stateDir, domain.DefaultSessionPath(stateDir), session)
}

// GetSnapshot returns the package snapshot stored in stateDir. A missing file
// yields an empty snapshot.
func (s *Store) GetSnapshot(stateDir string) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := readJSON(domain.DefaultSnapshotPath(stateDir), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// PutSnapshot stores the package snapshot in stateDir.
func (s *Store) PutSnapshot(stateDir string, snapshot *domain.Snapshot) error {
	return writeJSON(stateDir, domain.DefaultSnapshotPath(stateDir), snapshot)
}

// readJSON decodes path into target. A missing file leaves target untouched.
func readJSON(path string, target any) error {
	//nolint:gosec // Path is constructed from the configured state directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrStateReadFailed.Error()), "path", path)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateUnmarshalFailed.Error()), "path", path)
	}
	return nil
}

func writeJSON(stateDir, path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStateMarshalFailed.Error())
	}

	if err := os.MkdirAll(stateDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateDirCreateFailed.Error()), "path", stateDir)
	}

	tmp := path + ".tmp"
	//nolint:gosec // Path is constructed from the configured state directory
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp, filepath.Clean(path)); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	return nil
}
