// Package report implements the linear progress reporter for batch runs.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/muesli/termenv"
)

var _ ports.Reporter = (*Linear)(nil)

// Linear writes one line per event to a single stream. It is shared by all
// pool workers, so every write holds the mutex.
type Linear struct {
	mu  sync.Mutex
	out *termenv.Output
}

// New creates a Linear reporter writing to w (stdout when nil).
func New(w io.Writer) *Linear {
	if w == nil {
		w = os.Stdout
	}
	return &Linear{
		out: termenv.NewOutput(w, termenv.WithProfile(colorProfile())),
	}
}

// colorProfile honors NO_COLOR and otherwise sticks to plain ANSI: gendeps
// output frequently ends up in CI logs.
func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// PhaseStarted announces a pipeline phase.
func (l *Linear) PhaseStarted(phase domain.Phase, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch phase {
	case domain.PhaseIndex:
		l.printf("[*] Phase 1: building provider index (%d packages)\n", total)
	case domain.PhaseResolve:
		l.printf("[*] Phase 2: resolving dependencies and repacking\n")
	}
}

// Indexed reports Phase 1 progress every tenth package and at the end.
func (l *Linear) Indexed(done, total int) {
	if done%10 != 0 && done != total {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.printf("    scanned %d/%d packages\n", done, total)
}

// Resolved prints a package's dependency list as it completes. Packages
// with no dependencies stay quiet, matching the phase summary counts.
func (l *Linear) Resolved(pkg string, deps []string) {
	if len(deps) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	check := l.out.String("+").Foreground(l.out.Color("2"))
	l.printf("  [%s] %s needs: %s\n", check, pkg, strings.Join(deps, ", "))
}

// Failed prints an isolated per-package failure.
func (l *Linear) Failed(pkg string, phase domain.Phase, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cross := l.out.String("!").Foreground(l.out.Color("1"))
	l.printf("  [%s] %s failed during %s: %v\n", cross, pkg, phase, err)
}

// Summary renders the final counts.
func (l *Linear) Summary(report *domain.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.printf("[*] %d packages, %d indexed, %d library entries\n",
		report.Total, report.Indexed, report.Providers)
	l.printf("[*] %d updated, %d unchanged, %d failed\n",
		report.Updated, report.Unchanged, report.Failed())
}

func (l *Linear) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(l.out, format, args...)
}
