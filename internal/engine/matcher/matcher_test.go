package matcher_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/version"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/engine/cache"
	"go.trai.ch/depot/internal/engine/matcher"
)

func pkg(name, ver string, provides ...domain.Relation) domain.PackageSpec {
	return domain.PackageSpec{
		Name:     name,
		Version:  ver,
		Provides: append([]domain.Relation{domain.NewProvides(name, ver)}, provides...),
	}
}

func setup(t *testing.T) *matcher.Matcher {
	t.Helper()
	installed := cache.NewStaticLoader("rpmdb", pkg("bash", "5.1-2"))
	installed.SetInstalled(true)
	repo := cache.NewStaticLoader("updates",
		pkg("bash", "5.2-1"),
		pkg("bash", "4.4-9"),
		pkg("bash-completion", "2.11", domain.NewProvides("completion", "")),
		pkg("zsh", "5.9", domain.NewProvides("shell", "1")),
		pkg("fish", "3.7", domain.NewProvides("shell", "2")),
	)

	c := cache.New(version.RPM{})
	c.AddLoader(installed)
	c.AddLoader(repo)
	require.NoError(t, c.Load())
	return matcher.New(c)
}

func keys(pkgs []*domain.Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.String())
	}
	return out
}

func TestParse(t *testing.T) {
	sel, err := matcher.Parse(" bash >= 5 ")
	require.NoError(t, err)
	assert.Equal(t, "bash", sel.Name)
	assert.Equal(t, domain.OpGreaterEqual, sel.Op)
	assert.Equal(t, "5", sel.Version)
	assert.Equal(t, "bash >= 5", sel.String())

	_, err = matcher.Parse("bash >=")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSelector)
	assert.ErrorContains(t, err, "invalid relation")

	var selErr *matcher.SelectorError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "bash >=", selErr.Selector)
}

func TestMatch(t *testing.T) {
	m := setup(t)

	tests := []struct {
		name     string
		selector string
		want     []string
	}{
		{"name newest first", "bash", []string{"bash-5.2-1", "bash-5.1-2", "bash-4.4-9"}},
		{"relational", "bash >= 5", []string{"bash-5.2-1", "bash-5.1-2"}},
		{"strict", "bash < 5", []string{"bash-4.4-9"}},
		{"exact", "bash = 5.1-2", []string{"bash-5.1-2"}},
		{"not equal", "bash != 5.1-2", []string{"bash-5.2-1", "bash-4.4-9"}},
		{"name-version", "bash-5.1-2", []string{"bash-5.1-2"}},
		{"dashed name", "bash-completion", []string{"bash-completion-2.11"}},
		{"dashed name-version", "bash-completion-2.11", []string{"bash-completion-2.11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(got))
		})
	}
}

func TestMatch_NoMatch(t *testing.T) {
	m := setup(t)

	_, err := m.Match("tcsh")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.EqualError(t, err, "'tcsh' matches no packages")

	_, err = m.Match("bash > 9")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestMatchInstalled(t *testing.T) {
	m := setup(t)

	got, err := m.MatchInstalled("bash")
	require.NoError(t, err)
	assert.Equal(t, []string{"bash-5.1-2"}, keys(got))

	_, err = m.MatchInstalled("zsh")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoInstalledMatch)
	assert.False(t, errors.Is(err, domain.ErrNoMatch))
	assert.EqualError(t, err, "'zsh' matches no installed packages")
}

func TestMatchProvides(t *testing.T) {
	m := setup(t)

	ids, err := m.MatchProvides("shell")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ids, err = m.MatchProvides("shell >= 2")
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	// Unversioned provides satisfy any constraint
	ids, err = m.MatchProvides("completion = 7")
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = m.MatchProvides("shell > 2")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestFilterAndNewest(t *testing.T) {
	m := setup(t)

	all, err := m.Match("bash")
	require.NoError(t, err)

	sel, err := matcher.Parse("bash <= 5.1-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"bash-5.1-2", "bash-4.4-9"}, keys(m.Filter(sel, all)))

	assert.Equal(t, "bash-5.2-1", m.Newest(all).String())
	assert.Nil(t, m.Newest(nil))
}

func TestSearch(t *testing.T) {
	described := func(name, ver, summary, description string) domain.PackageSpec {
		s := pkg(name, ver)
		s.Info = &domain.PackageInfo{Summary: summary, Description: description}
		return s
	}
	repo := cache.NewStaticLoader("updates",
		described("vim", "10.0", "Vi IMproved", "A highly configurable text editor."),
		described("vim", "9.0", "Vi IMproved", ""),
		described("nano", "7.2", "A small editor", ""),
		described("emacs", "29", "The extensible, self-documenting editor", ""),
		pkg("bash", "5.2"),
	)
	c := cache.New(version.RPM{})
	c.AddLoader(repo)
	require.NoError(t, c.Load())
	m := matcher.New(c)

	assert.Equal(t, []string{"emacs-29", "nano-7.2", "vim-10.0"}, keys(m.Search([]string{"EDITOR"})))
	assert.Equal(t, []string{"bash-5.2", "vim-9.0", "vim-10.0"}, keys(m.Search([]string{"bash", "improved"})))
	assert.Empty(t, m.Search([]string{"emacsen"}))
	assert.Empty(t, m.Search([]string{" "}))
}
