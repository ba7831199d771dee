package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/repo"
	"go.trai.ch/depot/internal/adapters/version"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
)

const systemIndex = `
packages:
  - name: bash
    version: 5.1-2
    requires: [glibc]
    files: [/bin/bash, /bin/sh]
  - name: glibc
    version: "2.38-1"
`

const mainIndex = `
packages:
  - name: bash
    version: 5.2-1
    requires: [glibc >= 2.38]
    summary: The GNU Bourne Again shell
    files: [/bin/bash, /bin/sh]
  - name: glibc
    version: "2.38-1"
  - name: ksh
    version: "1.0-1"
    requires: [/bin/sh]
`

const extraIndex = `
packages:
  - name: zsh
    version: "5.9-1"
    provides: [shell]
    conflicts: [ksh < 2]
`

func writeIndex(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func open(t *testing.T, root string, channels ...domain.Channel) *cache.Cache {
	t.Helper()
	loaders, err := repo.NewOpener().Open(context.Background(), root, channels)
	require.NoError(t, err)

	c := cache.New(version.RPM{})
	for _, l := range loaders {
		c.AddLoader(l)
	}
	return c
}

func TestIndex_Specs(t *testing.T) {
	idx := &repo.Index{Packages: []*repo.PackageDTO{{
		Name:     "bash",
		Version:  "5.2-1",
		Provides: []string{"sh", "bash = 5.2-1"},
		Requires: []string{"glibc >= 2.38"},
		Files:    []string{"/bin/bash"},
	}}}

	specs, err := idx.Specs()
	require.NoError(t, err)
	require.Len(t, specs, 1)

	// The explicit self provide is not duplicated
	assert.Equal(t, []domain.Relation{
		domain.NewProvides("sh", ""),
		domain.NewProvides("bash", "5.2-1"),
	}, specs[0].Provides)
	assert.Equal(t, []domain.Relation{
		domain.NewDepends(domain.KindRequires, "glibc", domain.OpGreaterEqual, "2.38"),
	}, specs[0].Requires)
	require.NotNil(t, specs[0].Info)
	assert.Equal(t, []string{"/bin/bash"}, specs[0].Info.Files)
}

func TestIndex_SpecsInvalid(t *testing.T) {
	tests := []struct {
		name string
		dto  *repo.PackageDTO
	}{
		{name: "missing version", dto: &repo.PackageDTO{Name: "a"}},
		{name: "bad relation", dto: &repo.PackageDTO{Name: "a", Version: "1", Requires: []string{"b >> 1"}}},
		{name: "versioned provide with range", dto: &repo.PackageDTO{Name: "a", Version: "1", Provides: []string{"b >= 1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&repo.Index{Packages: []*repo.PackageDTO{tt.dto}}).Specs()
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrIndexInvalid.Error())
		})
	}
}

func TestOpener_LoadsChannels(t *testing.T) {
	root := t.TempDir()
	writeIndex(t, root, "system.yaml", systemIndex)
	writeIndex(t, root, "main.yaml", mainIndex)
	extra := writeIndex(t, root, "extra.yaml", extraIndex)

	c := open(t, root,
		domain.Channel{Alias: "rpmdb", Installed: true, Components: []string{"system.yaml"}},
		domain.Channel{Alias: "fedora", Priority: 5, Components: []string{"main.yaml", extra}},
		domain.Channel{Alias: "testing", Disabled: true, Components: []string{"missing.yaml"}},
	)
	require.Len(t, c.Loaders(), 2)
	assert.Equal(t, "fedora", c.Loaders()[1].Alias())

	require.NoError(t, c.Load())
	require.NoError(t, c.Verify())

	bash := c.Packages("bash")
	require.Len(t, bash, 2)

	// glibc is declared identically by both channels and shared
	glibc := c.Packages("glibc")
	require.Len(t, glibc, 1)
	assert.True(t, glibc[0].Installed)
	assert.Equal(t, 5, glibc[0].Priority)
	require.Len(t, glibc[0].Origins, 2)
	assert.Equal(t, "rpmdb", glibc[0].Origins[0].Loader)
	assert.Equal(t, "fedora/main.yaml", glibc[0].Origins[1].Loader)

	// /bin/sh is only materialised because ksh requires it
	shProvides := c.Provides("/bin/sh")
	require.Len(t, shProvides, 1)
	assert.Len(t, c.PackagesOf(shProvides[0]), 2)
	assert.Empty(t, c.Provides("/bin/bash"))

	ksh := c.Requires("/bin/sh")
	require.Len(t, ksh, 1)
	assert.Equal(t, shProvides, c.ProvidedBy(ksh[0]))

	zsh := c.Packages("zsh")
	require.Len(t, zsh, 1)
	assert.Equal(t, "fedora/extra.yaml", zsh[0].Origins[0].Loader)
}

func TestOpener_FailingSourceDoesNotStopOthers(t *testing.T) {
	root := t.TempDir()
	writeIndex(t, root, "main.yaml", mainIndex)
	writeIndex(t, root, "broken.yaml", "packages: [unterminated\n")

	c := open(t, root,
		domain.Channel{Alias: "broken", Components: []string{"broken.yaml"}},
		domain.Channel{Alias: "main", Components: []string{"main.yaml"}},
		domain.Channel{Alias: "gone", Components: []string{"gone.yaml"}},
	)

	err := c.Load()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrSourceFailed)
	assert.ErrorContains(t, err, domain.ErrIndexParseFailed.Error())
	assert.ErrorContains(t, err, domain.ErrIndexReadFailed.Error())

	var srcErr *cache.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "broken", srcErr.Loader)

	assert.Len(t, c.Packages("bash"), 1)
}

func TestLoader_ReloadAndRereads(t *testing.T) {
	root := t.TempDir()
	path := writeIndex(t, root, "main.yaml", mainIndex)

	l := repo.NewLoader("main", path)
	l.Prefetch()

	c := cache.New(version.RPM{})
	c.AddLoader(l)
	require.NoError(t, c.Load())
	ksh := c.Packages("ksh")
	require.Len(t, ksh, 1)

	// Reload reuses the staged packages without reading the file
	require.NoError(t, os.Remove(path))
	require.NoError(t, c.Reload())
	assert.Equal(t, ksh, c.Packages("ksh"))

	// A full load reads the file again once the prefetched index is used up
	err := c.Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrIndexReadFailed.Error())

	writeIndex(t, root, "main.yaml", extraIndex)
	require.NoError(t, c.Load())
	assert.Empty(t, c.Packages("ksh"))
	assert.Len(t, c.Packages("zsh"), 1)
}

func TestOpener_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeIndex(t, root, "main.yaml", mainIndex)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.NewOpener().Open(ctx, root, []domain.Channel{{Alias: "main", Components: []string{"main.yaml"}}})
	require.ErrorIs(t, err, context.Canceled)
}
