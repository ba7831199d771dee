package repo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/core/ports"
)

// NodeID is the unique identifier for the source opener Graft node.
const NodeID graft.ID = "adapter.source_opener"

func init() {
	graft.Register(graft.Node[ports.SourceOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceOpener, error) {
			return NewOpener(), nil
		},
	})
}
