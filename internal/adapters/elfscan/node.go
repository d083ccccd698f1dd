package elfscan

import (
	"context"

	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the inspector Graft node.
const NodeID graft.ID = "adapter.elfscan"

func init() {
	graft.Register(graft.Node[ports.Inspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Inspector, error) {
			return NewInspector(), nil
		},
	})
}
