// Package repo implements publishing package archives into the on-disk
// repository layout consumed by the package manager.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Publisher = (*Publisher)(nil)

// ArchiveFilename is the name every published archive is stored under
// inside its version directory.
const ArchiveFilename = "app.tar.zst"

// Publisher copies archives into `<root>/<arch>/<name>/<version>/` and
// maintains the per-architecture index.
type Publisher struct {
	loader   ports.ConfigLoader
	archiver ports.Archiver
	hasher   ports.Hasher
	logger   ports.Logger
}

// New creates a Publisher. The repository root and architecture come from
// the configuration, loaded fresh on every push.
func New(loader ports.ConfigLoader, archiver ports.Archiver, hasher ports.Hasher, log ports.Logger) *Publisher {
	return &Publisher{
		loader:   loader,
		archiver: archiver,
		hasher:   hasher,
		logger:   log,
	}
}

// indexEntry is one line of index.txt.
type indexEntry struct {
	name     string
	version  string
	digest   string
	deps     []string
	provides []string
}

func (e indexEntry) String() string {
	return strings.Join([]string{
		e.name,
		e.version,
		e.digest,
		strings.Join(e.deps, ","),
		strings.Join(e.provides, ","),
	}, "|")
}

// Push publishes every archive matched by the given path patterns. Archives
// that are not name-version packages are skipped, not failed: push is
// routinely pointed at whole build-output directories.
func (p *Publisher) Push(ctx context.Context, patterns []string) (*domain.PushReport, error) {
	cfg, err := p.loader.Load(".")
	if err != nil {
		return nil, err
	}
	if cfg.Repository.Root == "" {
		return nil, domain.ErrRepositoryRootNotSet
	}
	archDir := filepath.Join(cfg.Repository.Root, cfg.Architecture)

	archives, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoArchivesMatched, "failed to expand push patterns"), "patterns", strings.Join(patterns, " "))
	}

	report := &domain.PushReport{}
	var entries []indexEntry
	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, ok, err := p.publishOne(archDir, archive)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.Skipped = append(report.Skipped, filepath.Base(archive))
			continue
		}
		entries = append(entries, entry)
		report.Pushed = append(report.Pushed, entry.name)
		p.logger.Info(fmt.Sprintf("pushed %s %s", entry.name, entry.version))
	}

	if len(entries) > 0 {
		if err := p.updateIndex(archDir, entries); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// publishOne copies a single archive into the repository layout. The second
// return value is false when the file is not a publishable package.
func (p *Publisher) publishOne(archDir, archive string) (indexEntry, bool, error) {
	if !domain.IsPackageArchive(filepath.Base(archive)) {
		return indexEntry{}, false, nil
	}
	name, version, err := domain.ParseArchiveName(archive)
	if err != nil || version == "" {
		// Versionless archives cannot be addressed in the layout.
		return indexEntry{}, false, nil
	}

	digest, err := p.hasher.ComputeFileDigest(archive)
	if err != nil {
		return indexEntry{}, false, zerr.With(zerr.Wrap(err, "failed to digest archive"), "archive", archive)
	}

	entry := indexEntry{
		name:     name,
		version:  version,
		digest:   digest,
		deps:     p.readMetaList(archive, "deps.txt"),
		provides: p.readMetaList(archive, "provides.txt"),
	}

	versionDir := filepath.Join(archDir, name, version)
	if err := os.MkdirAll(versionDir, 0o750); err != nil {
		return indexEntry{}, false, zerr.With(zerr.Wrap(err, "failed to create version directory"), "path", versionDir)
	}
	if err := copyFile(archive, filepath.Join(versionDir, ArchiveFilename)); err != nil {
		return indexEntry{}, false, err
	}
	if err := writeFileAtomic(filepath.Join(versionDir, "hash.txt"), []byte(digest+"\n")); err != nil {
		return indexEntry{}, false, err
	}
	if err := writeFileAtomic(filepath.Join(archDir, name, "latest.txt"), []byte(version+"\n")); err != nil {
		return indexEntry{}, false, err
	}
	return entry, true, nil
}

// readMetaList reads a line-per-item metadata entry from the archive. A
// missing entry is an empty list.
func (p *Publisher) readMetaList(archive, name string) []string {
	data, err := p.archiver.ReadEntry(archive, name)
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			p.logger.Warn(fmt.Sprintf("unreadable %s in %s, publishing without it", name, filepath.Base(archive)))
		}
		return nil
	}

	var items []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

// updateIndex merges the pushed entries into index.txt, keeping one line per
// package name, sorted. The index is rewritten atomically.
func (p *Publisher) updateIndex(archDir string, pushed []indexEntry) error {
	indexPath := filepath.Join(archDir, "index.txt")

	merged := map[string]indexEntry{}
	if data, err := os.ReadFile(indexPath); err == nil { //nolint:gosec // path derives from config
		for _, line := range strings.Split(string(data), "\n") {
			entry, ok := parseIndexLine(line)
			if !ok {
				continue
			}
			merged[entry.name] = entry
		}
	}
	for _, entry := range pushed {
		merged[entry.name] = entry
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(merged[name].String())
		b.WriteByte('\n')
	}
	return writeFileAtomic(indexPath, []byte(b.String()))
}

func parseIndexLine(line string) (indexEntry, bool) {
	fields := strings.Split(strings.TrimSpace(line), "|")
	if len(fields) != 5 || fields[0] == "" {
		return indexEntry{}, false
	}
	return indexEntry{
		name:     fields[0],
		version:  fields[1],
		digest:   fields[2],
		deps:     splitList(fields[3]),
		provides: splitList(fields[4]),
	}, true
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func expandPatterns(patterns []string) ([]string, error) {
	var archives []string
	seen := map[string]struct{}{}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid pattern"), "pattern", pattern)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			archives = append(archives, m)
		}
	}
	sort.Strings(archives)
	return archives, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // path comes from the user's patterns
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "path", src)
	}
	defer in.Close() //nolint:errcheck

	tmp := dst + ".tmp"
	out, err := os.Create(tmp) //nolint:gosec // path derives from config
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create archive copy"), "path", tmp)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to copy archive"), "path", dst)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to flush archive copy"), "path", tmp)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to replace archive"), "path", dst)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // repository metadata is world-readable
		return zerr.With(zerr.Wrap(err, "failed to write repository file"), "path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to replace repository file"), "path", path)
	}
	return nil
}
