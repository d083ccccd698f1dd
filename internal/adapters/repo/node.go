package repo

import (
	"context"

	"github.com/Wtada233/lrepo/internal/adapters/archive"
	"github.com/Wtada233/lrepo/internal/adapters/config"
	"github.com/Wtada233/lrepo/internal/adapters/fs"
	"github.com/Wtada233/lrepo/internal/adapters/logger"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the publisher Graft node.
const NodeID graft.ID = "adapter.repo"

func init() {
	graft.Register(graft.Node[ports.Publisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			archive.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.Publisher, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			archiver, err := graft.Dep[ports.Archiver](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, archiver, hasher, log), nil
		},
	})
}
