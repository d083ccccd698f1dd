// Package elfscan implements the ELF inspector using native parsing of the
// dynamic section via debug/elf. No external tools are invoked.
package elfscan

import (
	"debug/elf"
	"io"
	"os"

	"github.com/Wtada233/lrepo/internal/core/ports"
)

var _ ports.Inspector = (*Inspector)(nil)

// Inspector reads dynamic-linking metadata from ELF objects. All methods are
// pure reads; failures degrade to "no information" rather than errors, since
// a package tree may contain arbitrary non-ELF or malformed files.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// IsELF reports whether the file's first four bytes are the ELF magic number.
// Missing files, permission errors, and short files all report false.
func (i *Inspector) IsELF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // read-only

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return false
	}
	return string(magic[:]) == elf.ELFMAG
}

// Sonames returns the DT_SONAME entries from the object's dynamic section.
// An object with no dynamic section (a static binary) yields nil.
func (i *Inspector) Sonames(path string) []string {
	f, err := elf.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close() //nolint:errcheck // read-only

	sonames, err := f.DynString(elf.DT_SONAME)
	if err != nil {
		return nil
	}
	return sonames
}

// Needed returns the DT_NEEDED entries from the object's dynamic section.
// An object with no dynamic section yields nil.
func (i *Inspector) Needed(path string) []string {
	f, err := elf.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close() //nolint:errcheck // read-only

	needed, err := f.ImportedLibraries()
	if err != nil {
		return nil
	}
	return needed
}
