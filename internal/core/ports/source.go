package ports

import (
	"context"

	"go.trai.ch/depot/internal/core/domain"
)

// SourceOpener turns configured channels into loaders ready to be added to a cache.
//
//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type SourceOpener interface {
	// Open builds one loader per enabled channel. Relative component paths resolve against root.
	Open(ctx context.Context, root string, channels []domain.Channel) ([]Loader, error)
}
