// Package app implements the application layer for lrepo.
package app

import (
	"context"

	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	depgen       ports.DepGenerator
	publisher    ports.Publisher
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	depgen ports.DepGenerator,
	publisher ports.Publisher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		depgen:       depgen,
		publisher:    publisher,
		logger:       log,
	}
}

// GenDepsOptions configuration for the GenDeps method.
type GenDepsOptions struct {
	// Jobs overrides the configured worker-pool size when positive.
	Jobs int
}

// GenDeps regenerates the dependency files of every package archive in dir.
// The run succeeds even when individual packages fail; callers inspect the
// report for failures.
func (a *App) GenDeps(ctx context.Context, dir string, opts GenDepsOptions) (*domain.Report, error) {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = cfg.Jobs
	}

	return a.depgen.Generate(ctx, ports.GenerateOptions{Dir: dir, Jobs: jobs})
}

// Push publishes the archives matched by patterns into the configured
// repository.
func (a *App) Push(ctx context.Context, patterns []string) (*domain.PushReport, error) {
	return a.publisher.Push(ctx, patterns)
}
