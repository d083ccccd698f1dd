// Package fs provides file system adapters for walking content trees and
// hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker enumerates the regular files of an unpacked content tree.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root. Symlinks and special
// files are skipped: only regular files can be ELF objects, and following
// links could leave the scratch area. A missing root yields nothing, since
// a package without a content tree simply has no ELF objects.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries contribute nothing; the scan of the
				// rest of the tree continues.
				return nil //nolint:nilerr // intentional skip
			}

			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
