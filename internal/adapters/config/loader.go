// Package config provides the configuration loader for lrepo.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Wtada233/lrepo/internal/core/domain"
	"github.com/Wtada233/lrepo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Lrepofile represents the structure of the lrepo.yaml configuration file.
type Lrepofile struct {
	Version      string        `yaml:"version"`
	Architecture string        `yaml:"architecture"`
	Jobs         int           `yaml:"jobs"`
	Repository   RepositoryDTO `yaml:"repository"`
}

// RepositoryDTO represents the push target in the configuration.
type RepositoryDTO struct {
	Root string `yaml:"root"`
}

// Load reads the configuration from the given working directory. A missing
// file is not an error: the defaults apply.
func (l *FileConfigLoader) Load(cwd string) (domain.Config, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Lrepofile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	cfg := domain.DefaultConfig()
	if file.Architecture != "" {
		cfg.Architecture = file.Architecture
	}
	if file.Jobs > 0 {
		cfg.Jobs = file.Jobs
	}
	cfg.Repository.Root = file.Repository.Root

	return cfg, nil
}
