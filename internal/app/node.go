package app

import (
	"context"

	"github.com/Wtada233/lrepo/internal/adapters/config"
	"github.com/Wtada233/lrepo/internal/adapters/logger"
	"github.com/Wtada233/lrepo/internal/adapters/repo"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/Wtada233/lrepo/internal/engine/depgen"
	"github.com/grindlemire/graft"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			depgen.NodeID,
			repo.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			generator, err := graft.Dep[ports.DepGenerator](ctx)
			if err != nil {
				return nil, err
			}
			publisher, err := graft.Dep[ports.Publisher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{
				App:    New(loader, generator, publisher, log),
				Logger: log,
			}, nil
		},
	})
}
