package session_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/session"
	"go.trai.ch/depot/internal/core/domain"
)

func TestStore_GetMissing(t *testing.T) {
	store := session.NewStore()

	got, err := store.Get(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Current)
	assert.Empty(t, got.Undo)
	assert.Empty(t, got.Redo)
}

func TestStore_PutGet(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), domain.StateDirName)
	store := session.NewStore()

	want := &domain.Session{
		Current: domain.Token{{Name: "bash", Version: "5.2-1", Action: domain.ActionUpgrade}},
		Undo: []domain.Token{
			{{Name: "vim", Version: "9.0-1", Action: domain.ActionInstall}},
			{},
		},
	}
	require.NoError(t, store.Put(stateDir, want))

	// A second store instance reads what the first wrote
	got, err := session.NewStore().Get(stateDir)
	require.NoError(t, err)
	assert.Equal(t, want.Current, got.Current)
	require.Len(t, got.Undo, 2)
	assert.Equal(t, want.Undo[0], got.Undo[0])
	assert.Empty(t, got.Undo[1])
	assert.Empty(t, got.Redo)

	_, err = os.Stat(domain.DefaultSessionPath(stateDir) + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_OmitZero(t *testing.T) {
	stateDir := t.TempDir()
	store := session.NewStore()
	require.NoError(t, store.Put(stateDir, &domain.Session{
		Current: domain.Token{{Name: "a", Version: "1", Action: domain.ActionRemove}},
	}))

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(domain.DefaultSessionPath(stateDir))
	require.NoError(t, err)

	assert.Contains(t, string(content), `"action": "remove"`)
	assert.False(t, strings.Contains(string(content), "undo"))
	assert.False(t, strings.Contains(string(content), "redo"))
}

func TestStore_Errors(t *testing.T) {
	t.Run("corrupt file", func(t *testing.T) {
		stateDir := t.TempDir()
		require.NoError(t, os.WriteFile(domain.DefaultSessionPath(stateDir), []byte("{not json"), domain.FilePerm))

		_, err := session.NewStore().Get(stateDir)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrStateUnmarshalFailed.Error())
	})

	t.Run("unknown action", func(t *testing.T) {
		stateDir := t.TempDir()
		content := `{"current":[{"name":"a","version":"1","action":"explode"}]}`
		require.NoError(t, os.WriteFile(domain.DefaultSessionPath(stateDir), []byte(content), domain.FilePerm))

		_, err := session.NewStore().Get(stateDir)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrStateUnmarshalFailed.Error())
	})

	t.Run("state dir is a file", func(t *testing.T) {
		stateDir := filepath.Join(t.TempDir(), "state")
		require.NoError(t, os.WriteFile(stateDir, nil, domain.FilePerm))

		err := session.NewStore().Put(stateDir, &domain.Session{})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrStateDirCreateFailed.Error())
	})
}

func TestStore_Snapshot(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), domain.StateDirName)
	store := session.NewStore()

	empty, err := store.GetSnapshot(stateDir)
	require.NoError(t, err)
	assert.Empty(t, empty.Known)
	assert.Empty(t, empty.New)

	want := &domain.Snapshot{
		Known: []domain.PackageKey{{Name: "bash", Version: "5.2-1"}, {Name: "zsh", Version: "5.9-1"}},
		New:   []domain.PackageKey{{Name: "zsh", Version: "5.9-1"}},
	}
	require.NoError(t, store.PutSnapshot(stateDir, want))

	got, err := session.NewStore().GetSnapshot(stateDir)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The session file is not touched
	_, err = os.Stat(domain.DefaultSessionPath(stateDir))
	assert.True(t, os.IsNotExist(err))

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(domain.DefaultSnapshotPath(stateDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "zsh"`)
}

func TestStore_SnapshotCorrupt(t *testing.T) {
	stateDir := t.TempDir()
	require.NoError(t, os.WriteFile(domain.DefaultSnapshotPath(stateDir), []byte("[]"), domain.FilePerm))

	_, err := session.NewStore().GetSnapshot(stateDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStateUnmarshalFailed.Error())
}
