// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/Wtada233/lrepo/internal/adapters/archive"
	_ "github.com/Wtada233/lrepo/internal/adapters/config"
	_ "github.com/Wtada233/lrepo/internal/adapters/elfscan"
	_ "github.com/Wtada233/lrepo/internal/adapters/fs"
	_ "github.com/Wtada233/lrepo/internal/adapters/logger"
	_ "github.com/Wtada233/lrepo/internal/adapters/repo"
	_ "github.com/Wtada233/lrepo/internal/adapters/report"
	// Register app and engine nodes.
	_ "github.com/Wtada233/lrepo/internal/app"
	_ "github.com/Wtada233/lrepo/internal/engine/depgen"
)
