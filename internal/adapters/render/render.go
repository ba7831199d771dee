// Package render writes changesets, diffs and package listings to a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/ui/output"
	"go.trai.ch/depot/internal/ui/style"
)

// Renderer formats depot results for humans.
type Renderer struct {
	out *termenv.Output
	cmp ports.VersionComparator
}

// New creates a Renderer writing to w. A nil writer means os.Stdout.
func New(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{out: output.New(w)}
}

// SetComparator makes listings order the versions of a name with cmp instead
// of by their text.
func (r *Renderer) SetComparator(cmp ports.VersionComparator) {
	r.cmp = cmp
}

func (r *Renderer) compare(a, b *domain.Package) int {
	if r.cmp == nil {
		return domain.ComparePackages(a, b, strings.Compare)
	}
	return domain.ComparePackages(a, b, r.cmp.Compare)
}

func (r *Renderer) sortEntries(entries []domain.DiffEntry) []domain.DiffEntry {
	entries = slices.Clone(entries)
	slices.SortFunc(entries, func(a, b domain.DiffEntry) int {
		return r.compare(a.Package, b.Package)
	})
	return entries
}

func (r *Renderer) paint(s string, c lipgloss.Color) string {
	return r.out.String(s).Foreground(termenv.RGBColor(string(c))).String()
}

func (r *Renderer) println(s string) error {
	_, err := r.out.WriteString(s + "\n")
	return err
}

func key(pkg *domain.Package) string {
	return domain.PackageKey{Name: pkg.Name.String(), Version: pkg.Version.String()}.String()
}

// ChangeSet writes the entries of cs grouped by action, followed by a total.
func (r *Renderer) ChangeSet(cs *domain.ChangeSet) error {
	if cs.Len() == 0 {
		return r.println("No changes marked.")
	}

	sorted := cs.Packages()
	slices.SortFunc(sorted, r.compare)
	groups := make(map[domain.Action][]*domain.Package)
	for _, pkg := range sorted {
		a, _ := cs.Get(pkg)
		groups[a] = append(groups[a], pkg)
	}

	var b strings.Builder
	for _, a := range domain.Actions {
		pkgs := groups[a]
		if len(pkgs) == 0 {
			continue
		}
		title := strings.ToUpper(a.String()[:1]) + a.String()[1:]
		fmt.Fprintf(&b, "%s (%d):\n", r.paint(title, style.ActionColor(a)), len(pkgs))
		for _, pkg := range pkgs {
			fmt.Fprintf(&b, "  %s\n", key(pkg))
		}
	}
	fmt.Fprintf(&b, "\n%d %s", cs.Len(), plural(cs.Len(), "change", "changes"))
	return r.println(b.String())
}

// Diff writes the entries that changed between two changesets. Nothing is
// written for an empty diff.
func (r *Renderer) Diff(d domain.Diff) error {
	if d.Empty() {
		return nil
	}

	var lines []string
	for _, e := range r.sortEntries(d.Added) {
		lines = append(lines, r.paint(fmt.Sprintf("+ %s (%s)", key(e.Package), e.To), style.ActionColor(e.To)))
	}
	for _, e := range r.sortEntries(d.Changed) {
		lines = append(lines, r.paint(fmt.Sprintf("%s %s (%s %s %s)", style.Tilde, key(e.Package), e.From, style.Arrow, e.To), style.ActionColor(e.To)))
	}
	for _, e := range r.sortEntries(d.Removed) {
		lines = append(lines, r.paint(fmt.Sprintf("- %s (%s)", key(e.Package), e.From), style.Slate))
	}
	return r.println(strings.Join(lines, "\n"))
}

// ListOptions selects the columns of a package listing.
type ListOptions struct {
	// Summary adds the loader summary under each package.
	Summary bool
	// Channels appends the loaders that reported each package.
	Channels bool
	// Marks annotates packages with their pending action.
	Marks *domain.ChangeSet
	// NameOnly prints the package name without its version.
	NameOnly bool
}

// Packages writes one line per package, in the order given: an installed
// marker, the package key and the optional columns of opts.
func (r *Renderer) Packages(pkgs []*domain.Package, opts ListOptions) error {
	if len(pkgs) == 0 {
		return nil
	}

	var b strings.Builder
	for i, pkg := range pkgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := r.paint(style.Circle, style.Slate)
		if pkg.Installed {
			marker = r.paint(style.Dot, style.Green)
		}
		label := key(pkg)
		if opts.NameOnly {
			label = pkg.Name.String()
		}
		fmt.Fprintf(&b, "%s %s", marker, label)

		if opts.Marks != nil {
			if a, ok := opts.Marks.Get(pkg); ok {
				b.WriteString(" " + r.paint("("+a.String()+")", style.ActionColor(a)))
			}
		}
		if opts.Channels {
			var channels []string
			for _, o := range pkg.Origins {
				channels = append(channels, o.Loader)
			}
			b.WriteString(" " + r.paint("["+strings.Join(channels, ", ")+"]", style.Iris))
		}
		if opts.Summary {
			if s := summary(pkg); s != "" {
				b.WriteString("\n    " + s)
			}
		}
	}
	return r.println(b.String())
}

// Info writes the details of pkg. relations holds the rendered relations of
// each kind, indexed by domain.RelationKind.
func (r *Renderer) Info(pkg *domain.Package, relations [4][]string) error {
	var b strings.Builder
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", r.paint(fmt.Sprintf("%-12s", name+":"), style.Iris), value)
		}
	}

	state := "available"
	if pkg.Installed {
		state = "installed"
	}
	field("Name", pkg.Name.String())
	field("Version", pkg.Version.String())
	field("State", state)
	field("Priority", fmt.Sprint(pkg.Priority))
	var channels []string
	for _, o := range pkg.Origins {
		channels = append(channels, o.Loader)
	}
	field("Channels", strings.Join(channels, ", "))
	if info := pkg.Info(); info != nil {
		field("Summary", info.Summary)
		field("URL", info.URL)
		if info.Description != "" {
			b.WriteString("\n" + info.Description + "\n")
		}
	}
	for _, kind := range domain.RelationKinds {
		if len(relations[kind]) == 0 {
			continue
		}
		title := strings.ToUpper(kind.String()[:1]) + kind.String()[1:]
		fmt.Fprintf(&b, "\n%s:\n", r.paint(title, style.Iris))
		for _, rel := range relations[kind] {
			fmt.Fprintf(&b, "  %s\n", rel)
		}
	}
	_, err := r.out.WriteString(b.String())
	return err
}

func summary(pkg *domain.Package) string {
	for _, o := range pkg.Origins {
		if o.Info != nil && o.Info.Summary != "" {
			return o.Info.Summary
		}
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
