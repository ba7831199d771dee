package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/version"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

func linkedCache(t *testing.T) *Cache {
	t.Helper()
	c := New(version.RPM{})
	c.AddLoader(NewStaticLoader("main",
		domain.PackageSpec{
			Name:     "app",
			Version:  "1.0",
			Provides: []domain.Relation{domain.NewProvides("app", "1.0")},
			Requires: []domain.Relation{domain.NewDepends(domain.KindRequires, "libx", domain.OpNone, "")},
		},
		domain.PackageSpec{
			Name:     "libx",
			Version:  "2.0",
			Provides: []domain.Relation{domain.NewProvides("libx", "2.0")},
		},
	))
	require.NoError(t, c.Load())
	require.NoError(t, c.Verify())
	return c
}

func assertIdentity(t *testing.T, err error, check string) {
	t.Helper()
	require.ErrorContains(t, err, domain.ErrIdentity.Error())
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, check, zErr.Metadata()["check"])
}

func TestVerify_PackageMissingFromList(t *testing.T) {
	c := linkedCache(t)
	c.packages = c.packages[1:]

	assertIdentity(t, c.Verify(), "package missing from list")
}

func TestVerify_MissingPackageEdge(t *testing.T) {
	c := linkedCache(t)
	rid := c.Requires("libx")[0]
	c.rels[rid].packages = nil

	assertIdentity(t, c.Verify(), "relation missing package edge")
}

func TestVerify_OneSidedLink(t *testing.T) {
	c := linkedCache(t)
	rid := c.Requires("libx")[0]
	c.rels[rid].providedBy = nil

	assertIdentity(t, c.Verify(), "one-sided link")
}
