// Package archive implements the package unpacker/repacker for
// zstd-compressed tar archives.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/zerr"
)

var _ ports.Archiver = (*Archiver)(nil)

// Archiver reads and writes .lpkg archives: a zstd stream wrapping a tar
// whose root holds content/, deps.txt and optionally provides.txt.
type Archiver struct{}

// NewArchiver creates a new Archiver.
func NewArchiver() *Archiver {
	return &Archiver{}
}

// Unpack extracts the archive into destDir, creating the directory if
// absent. Entries that would escape destDir are rejected.
func (a *Archiver) Unpack(ctx context.Context, archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create extraction directory"), "dir", destDir)
	}
	destReal, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve extraction directory"), "dir", destDir)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "archive", archivePath)
	}
	defer f.Close() //nolint:errcheck // read-only

	zr, err := zstd.NewReader(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open zstd stream"), "archive", archivePath)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read tar entry"), "archive", archivePath)
		}

		target, err := securePath(destDir, hdr.Name)
		if err != nil {
			return err
		}
		if target == "" {
			continue // archive root entry ("." or "./")
		}

		if err := containParent(destReal, target); err != nil {
			return err
		}
		if err := a.extractEntry(tr, hdr, target); err != nil {
			return err
		}
	}
}

func (a *Archiver) extractEntry(tr *tar.Reader, hdr *tar.Header, target string) error {
	mode := hdr.FileInfo().Mode().Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, mode); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
		}
	case tar.TypeReg:
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode) //nolint:gosec // target contained by containParent
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
		}
		if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // archives are operator-supplied
			_ = out.Close()
			return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
		}
		if err := out.Close(); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to close file"), "path", target)
		}
	case tar.TypeSymlink:
		if err := os.Symlink(hdr.Linkname, target); err != nil && !errors.Is(err, fs.ErrExist) {
			return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", target)
		}
	default:
		// Device nodes and the like never appear in packages; skip them.
	}
	return nil
}

// containParent verifies the entry's parent directory resolves inside the
// extraction root before creating it. A symlink extracted earlier in the
// same archive could otherwise redirect later entries outside destDir.
func containParent(destReal, target string) error {
	parent := filepath.Dir(target)

	// Resolve the deepest ancestor that already exists; anything below it
	// is about to be created fresh and cannot be a symlink.
	base := parent
	for {
		if _, err := os.Lstat(base); err == nil {
			break
		}
		base = filepath.Dir(base)
	}
	real, err := filepath.EvalSymlinks(base)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve parent directory"), "path", base)
	}
	if real != destReal && !strings.HasPrefix(real, destReal+string(os.PathSeparator)) {
		return zerr.With(zerr.New("archive entry escapes extraction directory"), "entry", target)
	}

	if err := os.MkdirAll(parent, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", parent)
	}
	return nil
}

// Repack rebuilds the archive from srcDir. Every tar header's owner is
// normalized to root:root so ownership recorded by whoever unpacked or
// edited the tree does not leak into the published archive. The new archive
// is written next to the original and renamed over it, so an interrupted
// repack never leaves a truncated primary archive.
func (a *Archiver) Repack(ctx context.Context, srcDir, archivePath string) error {
	tmpPath := archivePath + ".repacked"

	if err := a.writeArchive(ctx, srcDir, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to replace archive"), "archive", archivePath)
	}
	return nil
}

func (a *Archiver) writeArchive(ctx context.Context, srcDir, outPath string) error {
	out, err := os.Create(outPath) //nolint:gosec // path derived from operator-supplied archive
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create archive"), "path", outPath)
	}

	zw, err := zstd.NewWriter(out)
	if err != nil {
		_ = out.Close()
		return zerr.Wrap(err, "failed to create zstd stream")
	}
	tw := tar.NewWriter(zw)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}
		return a.addEntry(tw, srcDir, path, d)
	})

	// Close in stream order; the first failure wins.
	if err := tw.Close(); walkErr == nil && err != nil {
		walkErr = zerr.Wrap(err, "failed to finalize tar stream")
	}
	if err := zw.Close(); walkErr == nil && err != nil {
		walkErr = zerr.Wrap(err, "failed to finalize zstd stream")
	}
	if err := out.Close(); walkErr == nil && err != nil {
		walkErr = zerr.Wrap(err, "failed to close archive")
	}

	if walkErr != nil {
		return zerr.With(zerr.Wrap(walkErr, "failed to write archive"), "path", outPath)
	}
	return nil
}

func (a *Archiver) addEntry(tw *tar.Writer, srcDir, path string, d fs.DirEntry) error {
	rel, err := filepath.Rel(srcDir, path)
	if err != nil {
		return err
	}

	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to build tar header"), "path", path)
	}

	hdr.Name = filepath.ToSlash(rel)
	if info.IsDir() {
		hdr.Name += "/"
	}

	// Canonical ownership for every published entry.
	hdr.Uid = 0
	hdr.Gid = 0
	hdr.Uname = "root"
	hdr.Gname = "root"

	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write tar header"), "path", path)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path) //nolint:gosec // path comes from walking srcDir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only

	if _, err := io.Copy(tw, f); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// ReadEntry streams the archive and returns the contents of the named
// root-level entry. Returns domain.ErrEntryNotFound when absent.
func (a *Archiver) ReadEntry(archivePath, name string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open archive"), "archive", archivePath)
	}
	defer f.Close() //nolint:errcheck // read-only

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open zstd stream"), "archive", archivePath)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read tar entry"), "archive", archivePath)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if path.Clean(hdr.Name) == name {
			data, err := io.ReadAll(tr) //nolint:gosec // metadata entries are small
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to read entry"), "entry", name)
			}
			return data, nil
		}
	}
	err = zerr.Wrap(domain.ErrEntryNotFound, "failed to locate archive entry")
	return nil, zerr.With(zerr.With(err, "archive", archivePath), "entry", name)
}

// securePath joins a tar entry name onto destDir, rejecting absolute names
// and parent traversal. An empty result means the entry is the archive root.
func securePath(destDir, name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if clean == "." || clean == "/" {
		return "", nil
	}
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", zerr.With(zerr.New("archive entry escapes extraction directory"), "entry", name)
	}
	return filepath.Join(destDir, filepath.FromSlash(clean)), nil
}
