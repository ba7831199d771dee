package plan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/core/ports"
)

// NodeID is the unique identifier for the plan committer Graft node.
const NodeID graft.ID = "adapter.committer"

func init() {
	graft.Register(graft.Node[ports.Committer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Committer, error) {
			return NewCommitter(), nil
		},
	})
}
