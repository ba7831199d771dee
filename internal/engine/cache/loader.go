package cache

import (
	"errors"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
)

// BaseLoader implements the bookkeeping shared by loaders: binding, staging
// of declared packages, reload and file provides from the declared file lists.
// Load is a no-op; concrete loaders embed BaseLoader and override it.
type BaseLoader struct {
	alias     string
	installed bool
	priority  int
	reg       ports.Registrar

	specs    []*domain.PackageSpec
	packages []*domain.Package
}

// NewBaseLoader creates a BaseLoader for the source named alias.
func NewBaseLoader(alias string) *BaseLoader {
	return &BaseLoader{alias: alias}
}

// Alias implements ports.Loader.
func (b *BaseLoader) Alias() string {
	return b.alias
}

// SetInstalled marks every package of the source as installed.
func (b *BaseLoader) SetInstalled(installed bool) {
	b.installed = installed
}

// SetPriority sets the priority given to every package of the source.
func (b *BaseLoader) SetPriority(priority int) {
	b.priority = priority
}

// Bind implements ports.Loader.
func (b *BaseLoader) Bind(r ports.Registrar) {
	b.reg = r
}

// Registrar returns the registrar the loader is bound to, or nil.
func (b *BaseLoader) Registrar() ports.Registrar {
	return b.reg
}

// Reset implements ports.Loader.
func (b *BaseLoader) Reset() {
	b.specs = nil
	b.packages = nil
}

// Load implements ports.Loader.
func (b *BaseLoader) Load() error {
	return nil
}

// Unload implements ports.Loader.
func (b *BaseLoader) Unload() {
	b.Reset()
}

// Reload implements ports.Loader by registering the staged specs again.
func (b *BaseLoader) Reload() error {
	if b.reg == nil {
		return nil
	}
	for i, spec := range b.specs {
		b.packages[i] = b.reg.NewPackage(spec)
	}
	return nil
}

// LoadFileProvides implements ports.Loader using the file lists of the staged packages.
func (b *BaseLoader) LoadFileProvides(paths map[string]struct{}) error {
	if b.reg == nil {
		return nil
	}
	for i, spec := range b.specs {
		if spec.Info == nil {
			continue
		}
		for _, file := range spec.Info.Files {
			if _, ok := paths[file]; ok {
				b.reg.NewProvides(b.packages[i], file, "")
			}
		}
	}
	return nil
}

// Stage registers spec with the bound registrar and keeps it for Reload.
// The loader's alias, installed flag and priority are applied to the spec.
func (b *BaseLoader) Stage(spec *domain.PackageSpec) *domain.Package {
	spec.Installed = spec.Installed || b.installed
	if spec.Priority == 0 {
		spec.Priority = b.priority
	}
	spec.Origin = b.alias
	pkg := b.reg.NewPackage(spec)
	b.specs = append(b.specs, spec)
	b.packages = append(b.packages, pkg)
	return pkg
}

// Packages returns the packages staged by the last load, in declaration order.
func (b *BaseLoader) Packages() []*domain.Package {
	return b.packages
}

// StaticLoader serves a fixed list of package specs.
type StaticLoader struct {
	*BaseLoader
	specs []domain.PackageSpec
}

// NewStaticLoader creates a loader declaring specs on every load.
func NewStaticLoader(alias string, specs ...domain.PackageSpec) *StaticLoader {
	return &StaticLoader{BaseLoader: NewBaseLoader(alias), specs: specs}
}

// Load implements ports.Loader.
func (s *StaticLoader) Load() error {
	for i := range s.specs {
		spec := s.specs[i]
		s.Stage(&spec)
	}
	return nil
}

// LoaderSet applies every loader call to each member in registration order.
// It backs a channel made of several component sources.
type LoaderSet struct {
	alias   string
	members []ports.Loader
}

// NewLoaderSet creates a loader set named alias.
func NewLoaderSet(alias string, members ...ports.Loader) *LoaderSet {
	return &LoaderSet{alias: alias, members: members}
}

// Add appends a member loader.
func (s *LoaderSet) Add(l ports.Loader) {
	s.members = append(s.members, l)
}

// Members returns the member loaders.
func (s *LoaderSet) Members() []ports.Loader {
	return s.members
}

// Alias implements ports.Loader.
func (s *LoaderSet) Alias() string {
	return s.alias
}

// Bind implements ports.Loader.
func (s *LoaderSet) Bind(r ports.Registrar) {
	for _, l := range s.members {
		l.Bind(r)
	}
}

// Reset implements ports.Loader.
func (s *LoaderSet) Reset() {
	for _, l := range s.members {
		l.Reset()
	}
}

// Load implements ports.Loader. Every member is loaded even when one fails.
func (s *LoaderSet) Load() error {
	var errs []error
	for _, l := range s.members {
		if err := l.Load(); err != nil {
			errs = append(errs, &SourceError{Loader: l.Alias(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// Unload implements ports.Loader.
func (s *LoaderSet) Unload() {
	for _, l := range s.members {
		l.Unload()
	}
}

// Reload implements ports.Loader.
func (s *LoaderSet) Reload() error {
	var errs []error
	for _, l := range s.members {
		if err := l.Reload(); err != nil {
			errs = append(errs, &SourceError{Loader: l.Alias(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// LoadFileProvides implements ports.Loader.
func (s *LoaderSet) LoadFileProvides(paths map[string]struct{}) error {
	var errs []error
	for _, l := range s.members {
		if err := l.LoadFileProvides(paths); err != nil {
			errs = append(errs, &SourceError{Loader: l.Alias(), Err: err})
		}
	}
	return errors.Join(errs...)
}
