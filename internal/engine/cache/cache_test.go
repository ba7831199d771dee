package cache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/version"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
)

func req(s string) domain.Relation {
	r, err := domain.ParseRelation(domain.KindRequires, s)
	if err != nil {
		panic(err)
	}
	return r
}

func prv(s string) domain.Relation {
	r, err := domain.ParseRelation(domain.KindProvides, s)
	if err != nil {
		panic(err)
	}
	return r
}

func spec(name, ver string, opts ...func(*domain.PackageSpec)) domain.PackageSpec {
	s := domain.PackageSpec{
		Name:     name,
		Version:  ver,
		Provides: []domain.Relation{domain.NewProvides(name, ver)},
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

func requires(rels ...string) func(*domain.PackageSpec) {
	return func(s *domain.PackageSpec) {
		for _, r := range rels {
			s.Requires = append(s.Requires, req(r))
		}
	}
}

func provides(rels ...string) func(*domain.PackageSpec) {
	return func(s *domain.PackageSpec) {
		for _, r := range rels {
			s.Provides = append(s.Provides, prv(r))
		}
	}
}

func files(paths ...string) func(*domain.PackageSpec) {
	return func(s *domain.PackageSpec) {
		s.Info = &domain.PackageInfo{Files: paths}
	}
}

func newCache(t *testing.T, loaders ...*cache.StaticLoader) *cache.Cache {
	t.Helper()
	c := cache.New(version.RPM{})
	for _, l := range loaders {
		c.AddLoader(l)
	}
	require.NoError(t, c.Load())
	require.NoError(t, c.Verify())
	return c
}

func TestCache_DedupAcrossLoaders(t *testing.T) {
	installed := cache.NewStaticLoader("rpmdb", spec("bash", "5.1", requires("glibc")))
	installed.SetInstalled(true)
	remote := cache.NewStaticLoader("updates", spec("bash", "5.1", requires("glibc")))

	c := newCache(t, installed, remote)

	pkgs := c.Packages("")
	require.Len(t, pkgs, 1)
	assert.True(t, pkgs[0].Installed)
	require.Len(t, pkgs[0].Origins, 2)
	assert.Equal(t, "rpmdb", pkgs[0].Origins[0].Loader)
	assert.Equal(t, "updates", pkgs[0].Origins[1].Loader)

	// Both loaders hold the same canonical object
	assert.Same(t, installed.Packages()[0], remote.Packages()[0])
}

func TestCache_DedupIgnoresRelationOrder(t *testing.T) {
	a := cache.NewStaticLoader("a", spec("tool", "1", requires("liba", "libb")))
	b := cache.NewStaticLoader("b", spec("tool", "1", requires("libb", "liba")))

	c := newCache(t, a, b)
	assert.Len(t, c.Packages("tool"), 1)
}

func TestCache_StructuralTwinsStayApart(t *testing.T) {
	a := cache.NewStaticLoader("a", spec("tool", "1", requires("liba")))
	b := cache.NewStaticLoader("b", spec("tool", "1", requires("libb")))

	c := newCache(t, a, b)
	twins := c.Packages("tool")
	require.Len(t, twins, 2)

	// Key lookup returns every twin, lowest id first
	assert.Equal(t, twins, c.PackagesByKey(domain.PackageKey{Name: "tool", Version: "1"}))
	assert.Less(t, twins[0].ID, twins[1].ID)
	assert.Empty(t, c.PackagesByKey(domain.PackageKey{Name: "tool", Version: "2"}))
}

func TestCache_RelationSharing(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		spec("a", "1", requires("foo = 1.0")),
		spec("b", "1", requires("foo = 1.0")),
	)
	c := newCache(t, l)

	ids := c.Requires("foo")
	require.Len(t, ids, 1)

	var names []string
	for _, pid := range c.PackagesOf(ids[0]) {
		names = append(names, c.Package(pid).Name.String())
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestCache_DuplicateRelationInOnePackage(t *testing.T) {
	l := cache.NewStaticLoader("repo", spec("a", "1", requires("foo", "foo")))
	c := newCache(t, l)

	pkg := c.Packages("a")[0]
	assert.Len(t, pkg.Requires, 1)
	assert.Equal(t, []domain.PackageID{pkg.ID}, c.PackagesOf(pkg.Requires[0]))
}

func TestCache_LinkCorrectness(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		domain.PackageSpec{Name: "p", Version: "1", Provides: []domain.Relation{prv("foo = 1.0")}},
		spec("any", "1", requires("foo")),
		spec("exact", "1", requires("foo = 1.0")),
		spec("newer", "1", requires("foo = 2.0")),
		spec("range", "1", requires("foo >= 0.9")),
	)
	c := newCache(t, l)

	prvID := c.Provides("foo")[0]
	linked := func(r string) bool {
		for _, id := range c.Requires("foo") {
			if c.Relation(id) == req(r) {
				for _, p := range c.ProvidedBy(id) {
					if p == prvID {
						return true
					}
				}
			}
		}
		return false
	}

	assert.True(t, linked("foo"))
	assert.True(t, linked("foo = 1.0"))
	assert.True(t, linked("foo >= 0.9"))
	assert.False(t, linked("foo = 2.0"))
	assert.Len(t, c.RequiredBy(prvID), 3)
}

func TestCache_UnversionedProvidesMatchesVersionedRequire(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		domain.PackageSpec{Name: "p", Version: "1", Provides: []domain.Relation{prv("virtual")}},
		spec("user", "1", requires("virtual >= 3")),
	)
	c := newCache(t, l)

	id := c.Requires("virtual")[0]
	assert.Equal(t, c.Provides("virtual"), c.ProvidedBy(id))
}

func TestCache_ConflictsAndObsoletesLink(t *testing.T) {
	s := spec("new", "2")
	s.Obsoletes = []domain.Relation{domain.NewDepends(domain.KindObsoletes, "old", domain.OpLess, "2")}
	s.Conflicts = []domain.Relation{domain.NewDepends(domain.KindConflicts, "evil", domain.OpNone, "")}

	l := cache.NewStaticLoader("repo", s, spec("old", "1"), spec("evil", "1"))
	c := newCache(t, l)

	assert.Len(t, c.ObsoletedBy(c.Provides("old")[0]), 1)
	assert.Len(t, c.ConflictedBy(c.Provides("evil")[0]), 1)
	assert.Empty(t, c.RequiredBy(c.Provides("evil")[0]))
}

func TestCache_LinkIdempotent(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		spec("lib", "1"),
		spec("app", "1", requires("lib")),
	)
	c := newCache(t, l)

	id := c.Requires("lib")[0]
	before := len(c.ProvidedBy(id))
	c.LinkDeps()
	c.LinkDeps()
	assert.Equal(t, before, len(c.ProvidedBy(id)))
	assert.Len(t, c.RequiredBy(c.Provides("lib")[0]), 1)
	require.NoError(t, c.Verify())
}

func TestCache_FileProvides(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		spec("bash", "5", files("/bin/bash", "/usr/share/doc/bash")),
		spec("script", "1", requires("/bin/bash")),
	)
	c := newCache(t, l)

	// Only required paths are materialized
	assert.Len(t, c.Provides("/bin/bash"), 1)
	assert.Empty(t, c.Provides("/usr/share/doc/bash"))

	id := c.Requires("/bin/bash")[0]
	require.Len(t, c.ProvidedBy(id), 1)
	owner := c.PackagesOf(c.ProvidedBy(id)[0])
	assert.Equal(t, "bash", c.Package(owner[0]).Name.String())
}

func TestCache_ReloadKeepsIdentity(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		spec("bash", "5", files("/bin/bash")),
		spec("script", "1", requires("/bin/bash")),
	)
	c := newCache(t, l)

	before := c.Packages("bash")[0]
	relBefore := c.Requires("/bin/bash")[0]

	require.NoError(t, c.Reload())
	require.NoError(t, c.Verify())

	assert.Same(t, before, c.Packages("bash")[0])
	assert.Equal(t, relBefore, c.Requires("/bin/bash")[0])
	assert.Len(t, c.Packages(""), 2)
	assert.Len(t, c.ProvidedBy(relBefore), 1)
	// File provides are re-materialized once, not duplicated
	assert.Len(t, before.Provides, 2)
}

func TestCache_LoadStartsFresh(t *testing.T) {
	l := cache.NewStaticLoader("repo", spec("a", "1"))
	c := newCache(t, l)

	require.NoError(t, c.Load())
	assert.Len(t, c.Packages(""), 1)
	assert.Len(t, l.Packages(), 1)
}

func TestCache_Unload(t *testing.T) {
	l := cache.NewStaticLoader("repo", spec("a", "1"))
	c := newCache(t, l)

	c.Unload()
	assert.Empty(t, c.Packages(""))
	assert.Empty(t, l.Packages())
	require.NoError(t, c.Verify())
}

type failingLoader struct {
	*cache.BaseLoader
}

func (f *failingLoader) Load() error {
	return errors.New("corrupt index")
}

func TestCache_SourceErrorDoesNotAbort(t *testing.T) {
	bad := &failingLoader{BaseLoader: cache.NewBaseLoader("broken")}
	good := cache.NewStaticLoader("good", spec("lib", "1"), spec("app", "1", requires("lib")))

	c := cache.New(version.RPM{})
	c.AddLoader(bad)
	c.AddLoader(good)

	err := c.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceFailed)
	assert.ErrorContains(t, err, "corrupt index")

	var srcErr *cache.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "broken", srcErr.Loader)

	// The healthy loader is loaded and linked
	assert.Len(t, c.Packages(""), 2)
	assert.Len(t, c.ProvidedBy(c.Requires("lib")[0]), 1)
}

func TestCache_RemoveLoader(t *testing.T) {
	l := cache.NewStaticLoader("repo", spec("a", "1"))
	c := newCache(t, l)

	require.NoError(t, c.RemoveLoader(l))
	assert.Nil(t, l.Registrar())
	assert.Empty(t, c.Loaders())

	err := c.RemoveLoader(l)
	assert.ErrorContains(t, err, "loader not registered")
}

func TestCache_LoaderSet(t *testing.T) {
	base := cache.NewStaticLoader("os", spec("lib", "1"))
	extra := cache.NewStaticLoader("extras", spec("app", "1", requires("lib")))
	set := cache.NewLoaderSet("fedora", base, extra)

	c := cache.New(version.RPM{})
	c.AddLoader(set)
	require.NoError(t, c.Load())

	assert.Len(t, c.Packages(""), 2)
	assert.NotNil(t, base.Registrar())
	assert.NotNil(t, extra.Registrar())
	assert.Equal(t, "fedora", set.Alias())
}

func TestCache_InstalledOrAcrossDuplicates(t *testing.T) {
	remote := cache.NewStaticLoader("remote", spec("a", "1"))
	local := cache.NewStaticLoader("local", spec("a", "1"))
	local.SetInstalled(true)

	c := newCache(t, remote, local)
	assert.True(t, c.Packages("a")[0].Installed)

	// Reload recomputes the flag from the loaders again
	require.NoError(t, c.Reload())
	assert.True(t, c.Packages("a")[0].Installed)
}

func TestCache_Stats(t *testing.T) {
	l := cache.NewStaticLoader("repo",
		spec("lib", "1"),
		spec("app", "1", requires("lib"), provides("application")),
	)
	c := newCache(t, l)

	pkgs, rels := c.Stats()
	assert.Equal(t, 2, pkgs)
	// lib=1, app=1, application, and the requires on lib
	assert.Equal(t, 4, rels)
}
