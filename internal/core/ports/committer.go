package ports

import (
	"context"

	"go.trai.ch/depot/internal/core/domain"
)

// Committer hands a resolved changeset to whatever applies it.
//
//go:generate mockgen -source=committer.go -destination=mocks/mock_committer.go -package=mocks
type Committer interface {
	// Commit records the changeset and returns where it was written.
	Commit(ctx context.Context, path string, cs *domain.ChangeSet) (string, error)
}
