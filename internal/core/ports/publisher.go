package ports

import (
	"context"

	"github.com/Wtada233/lrepo/internal/core/domain"
)

// Publisher pushes package archives into a repository layout and maintains
// its index.
//
//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	// Push publishes every archive matched by the given path patterns.
	Push(ctx context.Context, patterns []string) (*domain.PushReport, error)
}
