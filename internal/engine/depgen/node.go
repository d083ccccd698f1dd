package depgen

import (
	"context"

	"github.com/Wtada233/lrepo/internal/adapters/archive"
	"github.com/Wtada233/lrepo/internal/adapters/elfscan"
	"github.com/Wtada233/lrepo/internal/adapters/fs"
	"github.com/Wtada233/lrepo/internal/adapters/logger"
	"github.com/Wtada233/lrepo/internal/adapters/report"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the engine Graft node.
const NodeID graft.ID = "engine.depgen"

func init() {
	graft.Register(graft.Node[ports.DepGenerator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			elfscan.NodeID,
			archive.NodeID,
			fs.WalkerNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			report.NodeID,
		},
		Run: func(ctx context.Context) (ports.DepGenerator, error) {
			inspector, err := graft.Dep[ports.Inspector](ctx)
			if err != nil {
				return nil, err
			}
			archiver, err := graft.Dep[ports.Archiver](ctx)
			if err != nil {
				return nil, err
			}
			walker, err := graft.Dep[*fs.Walker](ctx)
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
			reporter, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}
			return New(inspector, archiver, walker, hasher, log, reporter), nil
		},
	})
}
