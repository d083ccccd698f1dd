package ports

import "github.com/Wtada233/lrepo/internal/core/domain"

// ConfigLoader loads the lrepo configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory,
	// falling back to defaults when no config file exists.
	Load(cwd string) (domain.Config, error)
}
