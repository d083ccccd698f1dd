package domain

import "sync"

// ProviderIndex maps a library identifier (a declared SONAME, or a bare
// shared-object filename recorded as a fallback) to the name of the package
// that provides it. Registration is first-writer-wins: once a key is
// claimed it is never overwritten, so every consumer within one run resolves
// to the same provider even when two packages declare the same identifier.
//
// The index is written concurrently during Phase 1 and must be treated as
// read-only once Phase 2 begins.
type ProviderIndex struct {
	mu        sync.RWMutex
	providers map[string]string
}

// NewProviderIndex creates an empty ProviderIndex.
func NewProviderIndex() *ProviderIndex {
	return &ProviderIndex{providers: make(map[string]string)}
}

// Register records pkg as the provider of lib. It reports whether the
// registration took effect; false means another package already claimed lib.
func (x *ProviderIndex) Register(lib, pkg string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.providers[lib]; exists {
		return false
	}
	x.providers[lib] = pkg
	return true
}

// Lookup returns the provider of lib.
func (x *ProviderIndex) Lookup(lib string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	pkg, ok := x.providers[lib]
	return pkg, ok
}

// Len returns the number of registered library identifiers.
func (x *ProviderIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.providers)
}
