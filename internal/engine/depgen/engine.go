// Package depgen implements the two-phase ELF dependency pipeline: Phase 1
// builds the provider index across the whole package set, Phase 2 resolves
// every package's NEEDED entries against it and rewrites the archives.
package depgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Wtada233/lrepo/internal/adapters/fs"
	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.DepGenerator = (*Engine)(nil)

// Engine drives the gendeps pipeline.
type Engine struct {
	inspector ports.Inspector
	archiver  ports.Archiver
	walker    *fs.Walker
	hasher    ports.Hasher
	logger    ports.Logger
	reporter  ports.Reporter
	tracer    trace.Tracer
}

// New creates a new Engine.
func New(
	inspector ports.Inspector,
	archiver ports.Archiver,
	walker *fs.Walker,
	hasher ports.Hasher,
	log ports.Logger,
	reporter ports.Reporter,
) *Engine {
	return &Engine{
		inspector: inspector,
		archiver:  archiver,
		walker:    walker,
		hasher:    hasher,
		logger:    log,
		reporter:  reporter,
		tracer:    otel.Tracer("lrepo/engine/depgen"),
	}
}

// Generate runs both phases over every package archive in opts.Dir.
// Only setup failures return an error; anything that goes wrong with a
// single package is recorded in the report and the batch carries on.
func (e *Engine) Generate(ctx context.Context, opts ports.GenerateOptions) (*domain.Report, error) {
	ctx, span := e.tracer.Start(ctx, "depgen.generate")
	defer span.End()

	packages, err := e.discoverPackages(opts.Dir)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		Total: len(packages),
		Deps:  make(map[string][]string, len(packages)),
	}
	if len(packages) == 0 {
		e.logger.Info("no package archives found")
		e.reporter.Summary(report)
		return report, nil
	}

	scratchRoot, err := os.MkdirTemp("", "lrepo-gendeps-")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create scratch directory")
	}
	// Scratch trees can be large; removal is best effort either way.
	defer os.RemoveAll(scratchRoot) //nolint:errcheck

	for _, pkg := range packages {
		pkg.Scratch = filepath.Join(scratchRoot, filepath.Base(pkg.Archive))
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	state := &runState{report: report, failed: make(map[string]struct{})}
	index := domain.NewProviderIndex()

	e.runIndexPhase(ctx, packages, index, state, jobs)

	// The barrier above is load-bearing: every SONAME in the set must be
	// registered before any package resolves against the index, and the
	// index is read-only from here on.
	report.Providers = index.Len()

	e.runResolvePhase(ctx, packages, index, state, jobs)

	e.reporter.Summary(report)
	return report, nil
}

// discoverPackages lists the package archives in dir. Fails only when dir
// itself is unusable.
func (e *Engine) discoverPackages(dir string) ([]*domain.Package, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotADirectory, "failed to scan target"), "path", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list target directory"), "path", dir)
	}

	var packages []*domain.Package
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !domain.IsPackageArchive(entry.Name()) {
			continue
		}
		name, version, err := domain.ParseArchiveName(entry.Name())
		if err != nil {
			e.logger.Warn(fmt.Sprintf("skipping %s: not a name-version archive", entry.Name()))
			continue
		}
		packages = append(packages, &domain.Package{
			Name:    name,
			Version: version,
			Archive: filepath.Join(dir, entry.Name()),
		})
	}
	return packages, nil
}

// runState guards the parts of the run that all pool workers touch.
type runState struct {
	mu      sync.Mutex
	report  *domain.Report
	failed  map[string]struct{}
	scanned int
}

func (s *runState) fail(pkg *domain.Package, phase domain.Phase, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[pkg.Archive] = struct{}{}
	s.report.Failures = append(s.report.Failures, domain.PackageFailure{
		Package: pkg.Name,
		Phase:   phase,
		Err:     err,
	})
}

func (s *runState) hasFailed(pkg *domain.Package) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.failed[pkg.Archive]
	return ok
}

// runIndexPhase unpacks every package once and registers its provided
// library identifiers. Returns only after all units have finished.
func (e *Engine) runIndexPhase(
	ctx context.Context,
	packages []*domain.Package,
	index *domain.ProviderIndex,
	state *runState,
	jobs int,
) {
	ctx, span := e.tracer.Start(ctx, "depgen.phase1")
	defer span.End()

	e.reporter.PhaseStarted(domain.PhaseIndex, len(packages))

	var g errgroup.Group
	g.SetLimit(jobs)

	for _, pkg := range packages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				state.fail(pkg, domain.PhaseIndex, err)
				return nil
			}
			if err := e.indexPackage(ctx, pkg, index); err != nil {
				state.fail(pkg, domain.PhaseIndex, err)
				e.reporter.Failed(pkg.Name, domain.PhaseIndex, err)
				return nil
			}

			state.mu.Lock()
			state.report.Indexed++
			state.scanned++
			done := state.scanned
			state.mu.Unlock()
			e.reporter.Indexed(done, len(packages))
			return nil
		})
	}

	// Hard phase barrier. Workers never return errors: failures are
	// isolated per package.
	_ = g.Wait()
}

func (e *Engine) indexPackage(ctx context.Context, pkg *domain.Package, index *domain.ProviderIndex) error {
	if err := e.archiver.Unpack(ctx, pkg.Archive, pkg.Scratch); err != nil {
		return err
	}

	for path := range e.walker.WalkFiles(pkg.ContentDir()) {
		if !e.inspector.IsELF(path) {
			continue
		}
		for _, soname := range e.inspector.Sonames(path) {
			index.Register(soname, pkg.Name)
		}
		// Fallback for shared objects with no declared SONAME: the bare
		// filename is how dependents will reference them.
		if base := filepath.Base(path); strings.Contains(base, ".so") {
			index.Register(base, pkg.Name)
		}
	}
	return nil
}

// runResolvePhase rewrites deps.txt for every package that survived Phase 1
// and repacks its archive.
func (e *Engine) runResolvePhase(
	ctx context.Context,
	packages []*domain.Package,
	index *domain.ProviderIndex,
	state *runState,
	jobs int,
) {
	ctx, span := e.tracer.Start(ctx, "depgen.phase2")
	defer span.End()

	e.reporter.PhaseStarted(domain.PhaseResolve, len(packages))

	var g errgroup.Group
	g.SetLimit(jobs)

	for _, pkg := range packages {
		if state.hasFailed(pkg) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				state.fail(pkg, domain.PhaseResolve, err)
				return nil
			}

			deps, changed, err := e.resolvePackage(ctx, pkg, index)
			if err != nil {
				state.fail(pkg, domain.PhaseResolve, err)
				e.reporter.Failed(pkg.Name, domain.PhaseResolve, err)
				return nil
			}

			state.mu.Lock()
			state.report.Deps[pkg.Name] = deps
			if changed {
				state.report.Updated++
			} else {
				state.report.Unchanged++
			}
			state.mu.Unlock()
			e.reporter.Resolved(pkg.Name, deps)
			return nil
		})
	}

	_ = g.Wait()
}

// resolvePackage computes the package's dependency set from its ELF
// objects, rewrites deps.txt authoritatively, guarantees provides.txt
// exists, and repacks the archive.
func (e *Engine) resolvePackage(
	ctx context.Context,
	pkg *domain.Package,
	index *domain.ProviderIndex,
) (deps []string, changed bool, err error) {
	set := domain.NewDependencySet()
	for path := range e.walker.WalkFiles(pkg.ContentDir()) {
		if !e.inspector.IsELF(path) {
			continue
		}
		for _, lib := range e.inspector.Needed(path) {
			// NEEDED entries with no provider in this set are assumed to
			// be system libraries and dropped.
			provider, ok := index.Lookup(lib)
			if !ok {
				continue
			}
			set.Add(provider)
		}
	}
	// A package never depends on itself, even when one of its objects
	// needs a library another of its objects provides.
	set.Remove(pkg.Name)

	data := set.Serialize()
	changed = e.depsChanged(pkg, data)

	if err := e.writeDepsFile(pkg, data); err != nil {
		return nil, false, err
	}
	if err := e.ensureProvidesFile(pkg); err != nil {
		return nil, false, err
	}
	if err := e.archiver.Repack(ctx, pkg.Scratch, pkg.Archive); err != nil {
		return nil, false, err
	}
	return set.Sorted(), changed, nil
}

// depsChanged compares the prior deps.txt content with the new one. A
// missing or unreadable prior file counts as changed.
func (e *Engine) depsChanged(pkg *domain.Package, data []byte) bool {
	old, err := e.hasher.ComputeFileHash(pkg.DepsFile())
	if err != nil {
		return true
	}
	return old != e.hasher.ComputeHash(data)
}

// writeDepsFile overwrites deps.txt via a sibling temp file and rename, so
// no partial dependency file is ever observable.
func (e *Engine) writeDepsFile(pkg *domain.Package, data []byte) error {
	target := pkg.DepsFile()
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // package metadata is world-readable
		return zerr.With(zerr.Wrap(err, "failed to write dependency file"), "path", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to replace dependency file"), "path", target)
	}
	return nil
}

// ensureProvidesFile creates an empty provides.txt when the package ships
// none. Downstream consumers read it verbatim and expect it to exist.
func (e *Engine) ensureProvidesFile(pkg *domain.Package) error {
	path := pkg.ProvidesFile()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil { //nolint:gosec // package metadata is world-readable
		return zerr.With(zerr.Wrap(err, "failed to create provides file"), "path", path)
	}
	return nil
}
