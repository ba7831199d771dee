package repo

import (
	"os"
	"slices"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ReadIndex reads and decodes the index file at path.
func ReadIndex(path string) (*Index, error) {
	//nolint:gosec // Path comes from the validated configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIndexReadFailed.Error()), "path", path)
	}

	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIndexParseFailed.Error()), "path", path)
	}
	return &idx, nil
}

// Specs converts the index into package specs. Every package provides itself
// as "name = version". The whole index is rejected if one package is invalid.
func (idx *Index) Specs() ([]*domain.PackageSpec, error) {
	specs := make([]*domain.PackageSpec, 0, len(idx.Packages))
	for i, dto := range idx.Packages {
		spec, err := dto.spec()
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (dto *PackageDTO) spec() (*domain.PackageSpec, error) {
	if dto == nil || dto.Name == "" || dto.Version == "" {
		return nil, zerr.With(domain.ErrIndexInvalid, "reason", "package needs a name and a version")
	}
	key := domain.PackageKey{Name: dto.Name, Version: dto.Version}.String()

	spec := &domain.PackageSpec{
		Name:     dto.Name,
		Version:  dto.Version,
		Priority: dto.Priority,
	}

	lists := []struct {
		kind  domain.RelationKind
		items []string
		dst   *[]domain.Relation
	}{
		{domain.KindProvides, dto.Provides, &spec.Provides},
		{domain.KindRequires, dto.Requires, &spec.Requires},
		{domain.KindObsoletes, dto.Obsoletes, &spec.Obsoletes},
		{domain.KindConflicts, dto.Conflicts, &spec.Conflicts},
	}
	for _, l := range lists {
		rels, err := domain.ParseRelations(l.kind, l.items)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrIndexInvalid.Error()), "package", key)
		}
		*l.dst = rels
	}

	self := domain.NewProvides(dto.Name, dto.Version)
	if !slices.Contains(spec.Provides, self) {
		spec.Provides = slices.Insert(spec.Provides, 0, self)
	}

	if dto.Summary != "" || dto.Description != "" || dto.URL != "" || len(dto.Files) > 0 {
		spec.Info = &domain.PackageInfo{
			Summary:     dto.Summary,
			Description: dto.Description,
			URL:         dto.URL,
			Files:       dto.Files,
		}
	}
	return spec, nil
}
