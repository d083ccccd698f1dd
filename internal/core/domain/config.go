package domain

// RepositoryConfig describes where push publishes packages.
type RepositoryConfig struct {
	// Root is the repository root directory.
	Root string
}

// Config is the lrepo tool configuration.
type Config struct {
	// Architecture is the target architecture namespace in the repository
	// layout. All packages in one invocation share it.
	Architecture string

	// Jobs is the default worker-pool size per phase.
	Jobs int

	// Repository configures the push target.
	Repository RepositoryConfig
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Architecture: "amd64",
		Jobs:         8,
	}
}
