package ports

import "go.trai.ch/depot/internal/core/domain"

//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks

// Registrar is the factory surface a cache exposes to its loaders.
// It is the only way a loader may create or extend cache entities.
type Registrar interface {
	// NewPackage declares a package. Relations are deduplicated cache-wide and a
	// structurally equal package already in the cache is returned instead of a new one.
	NewPackage(spec *domain.PackageSpec) *domain.Package
	// NewProvides attaches an extra provides to a package already returned by NewPackage.
	NewProvides(pkg *domain.Package, name, version string)
}

// Loader is a metadata source that populates a cache through a Registrar.
type Loader interface {
	// Alias names the source in diagnostics and package origins.
	Alias() string
	// Bind attaches the loader to a registrar. A nil registrar detaches it.
	Bind(r Registrar)
	// Reset drops the packages staged by the previous load.
	Reset()
	// Load parses the source and registers its packages.
	Load() error
	// Unload drops all loader state.
	Unload()
	// Reload registers the already staged packages again without parsing the source.
	Reload() error
	// LoadFileProvides registers provides for the file paths in paths that the loader's packages own.
	LoadFileProvides(paths map[string]struct{}) error
}
