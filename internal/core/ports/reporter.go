package ports

import "github.com/Wtada233/lrepo/internal/core/domain"

// Reporter surfaces per-package progress and the final run summary.
// Implementations must be safe for concurrent use by pool workers.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// PhaseStarted announces a pipeline phase over total packages.
	PhaseStarted(phase domain.Phase, total int)

	// Indexed reports Phase 1 progress: done of total packages scanned.
	Indexed(done, total int)

	// Resolved reports a package's final dependency list as it completes.
	Resolved(pkg string, deps []string)

	// Failed reports an isolated per-package failure.
	Failed(pkg string, phase domain.Phase, err error)

	// Summary renders the final run report.
	Summary(report *domain.Report)
}
