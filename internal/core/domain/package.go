// Package domain holds the core types for lrepo: package identity,
// the provider index, dependency sets, and run reports.
package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Archive extensions recognized as LankeOS packages.
const (
	ExtLpkg   = ".lpkg"
	ExtTarZst = ".tar.zst"
)

// Package is one binary package archive being processed. The scratch
// directory is only populated while a gendeps run is in flight.
type Package struct {
	// Name is the package name, everything before the last hyphen in the
	// archive filename stem.
	Name string

	// Version is the remainder after the last hyphen. Empty when the stem
	// contains no hyphen.
	Version string

	// Archive is the absolute path to the on-disk archive.
	Archive string

	// Scratch is the directory the archive is unpacked into for the
	// duration of a run.
	Scratch string
}

// ContentDir returns the package's installable file tree inside the scratch
// directory.
func (p *Package) ContentDir() string {
	return filepath.Join(p.Scratch, "content")
}

// DepsFile returns the path of the package's dependency file inside the
// scratch directory.
func (p *Package) DepsFile() string {
	return filepath.Join(p.Scratch, "deps.txt")
}

// ProvidesFile returns the path of the package's provides file inside the
// scratch directory.
func (p *Package) ProvidesFile() string {
	return filepath.Join(p.Scratch, "provides.txt")
}

// IsPackageArchive reports whether the filename carries a recognized package
// archive extension.
func IsPackageArchive(filename string) bool {
	return strings.HasSuffix(filename, ExtLpkg) || strings.HasSuffix(filename, ExtTarZst)
}

// TrimArchiveExt strips the package archive extension from a filename.
func TrimArchiveExt(filename string) (string, error) {
	switch {
	case strings.HasSuffix(filename, ExtLpkg):
		return strings.TrimSuffix(filename, ExtLpkg), nil
	case strings.HasSuffix(filename, ExtTarZst):
		return strings.TrimSuffix(filename, ExtTarZst), nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedArchiveExt, "failed to trim archive extension"), "filename", filename)
	}
}

// ParseArchiveName splits an archive filename into package name and version.
// The name is everything before the last hyphen in the stem, matching the
// package manager's own parsing. A stem without a hyphen is a bare name with
// an empty version.
func ParseArchiveName(filename string) (name, version string, err error) {
	stem, err := TrimArchiveExt(filepath.Base(filename))
	if err != nil {
		return "", "", err
	}
	if stem == "" {
		return "", "", zerr.With(zerr.Wrap(ErrInvalidArchiveName, "failed to parse archive name"), "filename", filename)
	}

	idx := strings.LastIndex(stem, "-")
	if idx < 0 {
		return stem, "", nil
	}
	if idx == 0 || idx == len(stem)-1 {
		return "", "", zerr.With(zerr.Wrap(ErrInvalidArchiveName, "failed to parse archive name"), "filename", filename)
	}
	return stem[:idx], stem[idx+1:], nil
}
