package plan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/plan"
	"go.trai.ch/depot/internal/adapters/version"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
)

func changeset(t *testing.T) *domain.ChangeSet {
	t.Helper()
	system := cache.NewStaticLoader("system",
		domain.PackageSpec{Name: "D", Version: "1"},
		domain.PackageSpec{Name: "lib", Version: "1"},
	)
	system.SetInstalled(true)
	repo := cache.NewStaticLoader("repo",
		domain.PackageSpec{Name: "C", Version: "1"},
		domain.PackageSpec{Name: "X", Version: "1"},
		domain.PackageSpec{Name: "lib", Version: "2"},
	)

	c := cache.New(version.RPM{})
	c.AddLoader(system)
	c.AddLoader(repo)
	require.NoError(t, c.Load())

	get := func(name, ver string) *domain.Package {
		pkgs := c.PackagesByKey(domain.PackageKey{Name: name, Version: ver})
		require.Len(t, pkgs, 1)
		return pkgs[0]
	}

	cs := domain.NewChangeSet()
	cs.Set(get("C", "1"), domain.ActionInstall)
	cs.Set(get("D", "1"), domain.ActionRemove)
	cs.Set(get("X", "1"), domain.ActionKeep)
	cs.Set(get("lib", "1"), domain.ActionRemove)
	cs.Set(get("lib", "2"), domain.ActionUpgrade)
	return cs
}

func TestCommitter_Commit(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.StateDirName, domain.PlanFileName)

	written, err := plan.NewCommitter().Commit(context.Background(), path, changeset(t))
	require.NoError(t, err)
	assert.Equal(t, path, written)

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "plan", content)
}

func TestBuild_Order(t *testing.T) {
	p, err := plan.Build(changeset(t))
	require.NoError(t, err)

	var got []string
	for _, s := range p.Steps {
		got = append(got, s.Action.String()+" "+s.Name+"-"+s.Version)
	}
	assert.Equal(t, []string{"remove D-1", "remove lib-1", "upgrade lib-2", "install C-1"}, got)
	assert.NoError(t, p.Digest.Validate())
}

func TestCommitter_NothingToCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.PlanFileName)

	_, err := plan.NewCommitter().Commit(context.Background(), path, domain.NewChangeSet())
	require.ErrorIs(t, err, domain.ErrNothingToCommit)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCommitter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := plan.NewCommitter().Commit(ctx, filepath.Join(t.TempDir(), "plan.json"), changeset(t))
	require.ErrorIs(t, err, context.Canceled)
}
