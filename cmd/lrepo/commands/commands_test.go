package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Wtada233/lrepo/cmd/lrepo/commands"
	"github.com/Wtada233/lrepo/internal/app"
	"github.com/Wtada233/lrepo/internal/build"
	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	genDepsFunc func(ctx context.Context, dir string, opts app.GenDepsOptions) (*domain.Report, error)
	pushFunc    func(ctx context.Context, patterns []string) (*domain.PushReport, error)
}

func (m *mockApp) GenDeps(ctx context.Context, dir string, opts app.GenDepsOptions) (*domain.Report, error) {
	if m.genDepsFunc != nil {
		return m.genDepsFunc(ctx, dir, opts)
	}
	return &domain.Report{}, nil
}

func (m *mockApp) Push(ctx context.Context, patterns []string) (*domain.PushReport, error) {
	if m.pushFunc != nil {
		return m.pushFunc(ctx, patterns)
	}
	return &domain.PushReport{}, nil
}

func TestCommands_GenDeps(t *testing.T) {
	t.Run("defaults to the current directory", func(t *testing.T) {
		var capturedDir string
		var capturedOpts app.GenDepsOptions
		mock := &mockApp{
			genDepsFunc: func(_ context.Context, dir string, opts app.GenDepsOptions) (*domain.Report, error) {
				capturedDir = dir
				capturedOpts = opts
				return &domain.Report{}, nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"gendeps"})
		cli.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, ".", capturedDir)
		assert.Zero(t, capturedOpts.Jobs)
	})

	t.Run("wires directory and jobs flag", func(t *testing.T) {
		var capturedDir string
		var capturedOpts app.GenDepsOptions
		mock := &mockApp{
			genDepsFunc: func(_ context.Context, dir string, opts app.GenDepsOptions) (*domain.Report, error) {
				capturedDir = dir
				capturedOpts = opts
				return &domain.Report{}, nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"gendeps", "/srv/out", "-j", "4"})
		cli.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "/srv/out", capturedDir)
		assert.Equal(t, 4, capturedOpts.Jobs)
	})

	t.Run("propagates errors", func(t *testing.T) {
		wantErr := errors.New("boom")
		mock := &mockApp{
			genDepsFunc: func(context.Context, string, app.GenDepsOptions) (*domain.Report, error) {
				return nil, wantErr
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"gendeps"})
		cli.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

		assert.ErrorIs(t, cli.Execute(context.Background()), wantErr)
	})
}

func TestCommands_Push(t *testing.T) {
	t.Run("passes patterns through and prints the summary", func(t *testing.T) {
		var capturedPatterns []string
		mock := &mockApp{
			pushFunc: func(_ context.Context, patterns []string) (*domain.PushReport, error) {
				capturedPatterns = patterns
				return &domain.PushReport{
					Pushed:  []string{"foo", "bar"},
					Skipped: []string{"notes.txt"},
				}, nil
			},
		}

		var out bytes.Buffer
		cli := commands.New(mock)
		cli.SetArgs([]string{"push", "out/foo-1.0.lpkg", "out/bar-2.0.lpkg"})
		cli.SetOutput(&out, &bytes.Buffer{})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []string{"out/foo-1.0.lpkg", "out/bar-2.0.lpkg"}, capturedPatterns)
		assert.Contains(t, out.String(), "pushed 2 package(s)")
		assert.Contains(t, out.String(), "skipped notes.txt")
	})

	t.Run("no arguments shows help without calling the app", func(t *testing.T) {
		called := false
		mock := &mockApp{
			pushFunc: func(context.Context, []string) (*domain.PushReport, error) {
				called = true
				return &domain.PushReport{}, nil
			},
		}

		var out bytes.Buffer
		cli := commands.New(mock)
		cli.SetArgs([]string{"push"})
		cli.SetOutput(&out, &bytes.Buffer{})

		require.NoError(t, cli.Execute(context.Background()))
		assert.False(t, called)
		assert.Contains(t, out.String(), "Usage:")
	})
}

func TestCommands_Version(t *testing.T) {
	var out bytes.Buffer
	cli := commands.New(&mockApp{})
	cli.SetArgs([]string{"version"})
	cli.SetOutput(&out, &bytes.Buffer{})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "lrepo version "+build.Version)
}

func TestCommands_UnknownCommand(t *testing.T) {
	cli := commands.New(&mockApp{})
	cli.SetArgs([]string{"frobnicate"})
	cli.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	assert.Error(t, cli.Execute(context.Background()))
}
