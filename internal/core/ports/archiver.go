package ports

import "context"

// Archiver unpacks and rebuilds package archives.
//
//go:generate go run go.uber.org/mock/mockgen -source=archiver.go -destination=mocks/mock_archiver.go -package=mocks
type Archiver interface {
	// Unpack extracts the archive into destDir, creating it if absent.
	Unpack(ctx context.Context, archivePath, destDir string) error

	// Repack rebuilds the archive from srcDir with ownership normalized to
	// root:root, writing to a temporary path and atomically replacing the
	// original.
	Repack(ctx context.Context, srcDir, archivePath string) error

	// ReadEntry returns the contents of the named root-level entry, or
	// domain.ErrEntryNotFound if the archive has no such entry.
	ReadEntry(archivePath, name string) ([]byte, error)
}
