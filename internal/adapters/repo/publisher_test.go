package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Wtada233/lrepo/internal/adapters/archive"
	"github.com/Wtada233/lrepo/internal/adapters/fs"
	"github.com/Wtada233/lrepo/internal/adapters/repo"
	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newPublisher(t *testing.T, root string) *repo.Publisher {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(domain.Config{
		Architecture: "amd64",
		Jobs:         8,
		Repository:   domain.RepositoryConfig{Root: root},
	}, nil).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	return repo.New(loader, archive.NewArchiver(), fs.NewHasher(), log)
}

// stageArchive builds a pushable archive with the given metadata files.
func stageArchive(t *testing.T, dir, filename string, meta map[string]string) string {
	t.Helper()

	stage := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(stage, "content", "usr", "bin"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(stage, "content", "usr", "bin", "tool"), []byte("payload"), 0o755))
	for name, content := range meta {
		require.NoError(t, os.WriteFile(filepath.Join(stage, name), []byte(content), 0o644))
	}

	path := filepath.Join(dir, filename)
	require.NoError(t, archive.NewArchiver().Repack(context.Background(), stage, path))
	return path
}

func TestPublisher_Push(t *testing.T) {
	root := t.TempDir()
	pub := newPublisher(t, root)

	srcDir := t.TempDir()
	archivePath := stageArchive(t, srcDir, "foo-1.0.lpkg", map[string]string{
		"deps.txt":     "glibc\nzlib\n",
		"provides.txt": "libfoo.so.1\n",
	})

	report, err := pub.Push(context.Background(), []string{filepath.Join(srcDir, "*.lpkg")})
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, report.Pushed)
	assert.Empty(t, report.Skipped)

	versionDir := filepath.Join(root, "amd64", "foo", "1.0")

	published, err := os.ReadFile(filepath.Join(versionDir, repo.ArchiveFilename))
	require.NoError(t, err)
	original, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	assert.Equal(t, original, published)

	digest, err := fs.NewHasher().ComputeFileDigest(archivePath)
	require.NoError(t, err)
	hash, err := os.ReadFile(filepath.Join(versionDir, "hash.txt"))
	require.NoError(t, err)
	assert.Equal(t, digest+"\n", string(hash))

	latest, err := os.ReadFile(filepath.Join(root, "amd64", "foo", "latest.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.0\n", string(latest))

	index, err := os.ReadFile(filepath.Join(root, "amd64", "index.txt"))
	require.NoError(t, err)
	assert.Equal(t, "foo|1.0|"+digest+"|glibc,zlib|libfoo.so.1\n", string(index))
}

func TestPublisher_PushMergesIndex(t *testing.T) {
	root := t.TempDir()
	pub := newPublisher(t, root)

	srcDir := t.TempDir()
	stageArchive(t, srcDir, "foo-1.0.lpkg", map[string]string{"deps.txt": ""})
	stageArchive(t, srcDir, "bar-2.0.lpkg", map[string]string{"deps.txt": "foo\n"})

	_, err := pub.Push(context.Background(), []string{filepath.Join(srcDir, "foo-1.0.lpkg")})
	require.NoError(t, err)
	_, err = pub.Push(context.Background(), []string{filepath.Join(srcDir, "bar-2.0.lpkg")})
	require.NoError(t, err)

	// Pushing a new version replaces the package's line, not the whole index.
	stageArchive(t, srcDir, "foo-1.1.lpkg", map[string]string{"deps.txt": ""})
	_, err = pub.Push(context.Background(), []string{filepath.Join(srcDir, "foo-1.1.lpkg")})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(root, "amd64", "index.txt"))
	require.NoError(t, err)

	lines := string(index)
	assert.Contains(t, lines, "bar|2.0|")
	assert.Contains(t, lines, "foo|1.1|")
	assert.NotContains(t, lines, "foo|1.0|")

	latest, err := os.ReadFile(filepath.Join(root, "amd64", "foo", "latest.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.1\n", string(latest))
}

func TestPublisher_PushSkipsUnpublishable(t *testing.T) {
	root := t.TempDir()
	pub := newPublisher(t, root)

	srcDir := t.TempDir()
	stageArchive(t, srcDir, "good-1.0.lpkg", map[string]string{"deps.txt": ""})
	// No version component in the stem.
	stageArchive(t, srcDir, "noversion.lpkg", map[string]string{"deps.txt": ""})
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "notes.txt"), []byte("x"), 0o644))

	report, err := pub.Push(context.Background(), []string{filepath.Join(srcDir, "*")})
	require.NoError(t, err)

	assert.Equal(t, []string{"good"}, report.Pushed)
	assert.ElementsMatch(t, []string{"noversion.lpkg", "notes.txt"}, report.Skipped)
}

func TestPublisher_PushMissingMetadataIsEmpty(t *testing.T) {
	root := t.TempDir()
	pub := newPublisher(t, root)

	srcDir := t.TempDir()
	stageArchive(t, srcDir, "bare-1.0.lpkg", nil)

	_, err := pub.Push(context.Background(), []string{filepath.Join(srcDir, "bare-1.0.lpkg")})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(root, "amd64", "index.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "bare|1.0|")
	assert.Regexp(t, `^bare\|1\.0\|[0-9a-f]{64}\|\|\n$`, string(index))
}

func TestPublisher_PushMissingProvidesDoesNotWarn(t *testing.T) {
	root := t.TempDir()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(domain.Config{
		Architecture: "amd64",
		Jobs:         8,
		Repository:   domain.RepositoryConfig{Root: root},
	}, nil)

	// No Warn expectation: an archive that ships no provides.txt is routine,
	// not a metadata read failure.
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	pub := repo.New(loader, archive.NewArchiver(), fs.NewHasher(), log)

	srcDir := t.TempDir()
	stageArchive(t, srcDir, "quiet-1.0.lpkg", map[string]string{"deps.txt": "glibc\n"})

	report, err := pub.Push(context.Background(), []string{filepath.Join(srcDir, "quiet-1.0.lpkg")})
	require.NoError(t, err)
	assert.Equal(t, []string{"quiet"}, report.Pushed)
}

func TestPublisher_PushErrors(t *testing.T) {
	t.Run("unconfigured repository root", func(t *testing.T) {
		pub := newPublisher(t, "")

		_, err := pub.Push(context.Background(), []string{"foo-1.0.lpkg"})
		assert.ErrorIs(t, err, domain.ErrRepositoryRootNotSet)
	})

	t.Run("no archives matched", func(t *testing.T) {
		pub := newPublisher(t, t.TempDir())

		_, err := pub.Push(context.Background(), []string{filepath.Join(t.TempDir(), "*.lpkg")})
		assert.ErrorIs(t, err, domain.ErrNoArchivesMatched)
	})
}
