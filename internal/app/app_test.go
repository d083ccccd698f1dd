package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Wtada233/lrepo/internal/app"
	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"github.com/Wtada233/lrepo/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestApp_GenDeps(t *testing.T) {
	t.Run("uses the configured job count by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockLoader := mocks.NewMockConfigLoader(ctrl)
		mockDepGen := mocks.NewMockDepGenerator(ctrl)
		mockPublisher := mocks.NewMockPublisher(ctrl)
		mockLogger := mocks.NewMockLogger(ctrl)

		cfg := domain.DefaultConfig()
		cfg.Jobs = 3
		mockLoader.EXPECT().Load(".").Return(cfg, nil)

		want := &domain.Report{Total: 1, Indexed: 1}
		mockDepGen.EXPECT().
			Generate(gomock.Any(), ports.GenerateOptions{Dir: "/srv/out", Jobs: 3}).
			Return(want, nil)

		a := app.New(mockLoader, mockDepGen, mockPublisher, mockLogger)
		report, err := a.GenDeps(context.Background(), "/srv/out", app.GenDepsOptions{})
		require.NoError(t, err)
		assert.Same(t, want, report)
	})

	t.Run("flag overrides the configured job count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockLoader := mocks.NewMockConfigLoader(ctrl)
		mockDepGen := mocks.NewMockDepGenerator(ctrl)
		mockPublisher := mocks.NewMockPublisher(ctrl)
		mockLogger := mocks.NewMockLogger(ctrl)

		mockLoader.EXPECT().Load(".").Return(domain.DefaultConfig(), nil)
		mockDepGen.EXPECT().
			Generate(gomock.Any(), ports.GenerateOptions{Dir: ".", Jobs: 16}).
			Return(&domain.Report{}, nil)

		a := app.New(mockLoader, mockDepGen, mockPublisher, mockLogger)
		_, err := a.GenDeps(context.Background(), ".", app.GenDepsOptions{Jobs: 16})
		require.NoError(t, err)
	})

	t.Run("config load failure aborts the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockLoader := mocks.NewMockConfigLoader(ctrl)
		mockDepGen := mocks.NewMockDepGenerator(ctrl)
		mockPublisher := mocks.NewMockPublisher(ctrl)
		mockLogger := mocks.NewMockLogger(ctrl)

		loadErr := errors.New("bad yaml")
		mockLoader.EXPECT().Load(".").Return(domain.Config{}, loadErr)

		a := app.New(mockLoader, mockDepGen, mockPublisher, mockLogger)
		_, err := a.GenDeps(context.Background(), ".", app.GenDepsOptions{})
		assert.ErrorIs(t, err, loadErr)
	})
}

func TestApp_Push(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockDepGen := mocks.NewMockDepGenerator(ctrl)
	mockPublisher := mocks.NewMockPublisher(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	want := &domain.PushReport{Pushed: []string{"foo"}}
	mockPublisher.EXPECT().Push(gomock.Any(), []string{"out/*.lpkg"}).Return(want, nil)

	a := app.New(mockLoader, mockDepGen, mockPublisher, mockLogger)
	report, err := a.Push(context.Background(), []string{"out/*.lpkg"})
	require.NoError(t, err)
	assert.Same(t, want, report)
}
