package ports

import (
	"context"

	"github.com/Wtada233/lrepo/internal/core/domain"
)

// GenerateOptions configures one dependency-generation run.
type GenerateOptions struct {
	// Dir is the directory containing package archives.
	Dir string

	// Jobs is the worker-pool size per phase.
	Jobs int
}

// DepGenerator runs the two-phase ELF dependency pipeline over a package set.
//
//go:generate go run go.uber.org/mock/mockgen -source=depgen.go -destination=mocks/mock_depgen.go -package=mocks
type DepGenerator interface {
	// Generate rewrites every package's deps.txt from its ELF NEEDED
	// entries. Per-package failures are collected in the report; only
	// setup errors are returned.
	Generate(ctx context.Context, opts GenerateOptions) (*domain.Report, error)
}
