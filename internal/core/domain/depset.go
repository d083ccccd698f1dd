package domain

import (
	"sort"
	"strings"
)

// DependencySet accumulates the package names a package requires. The zero
// value is not usable; construct with NewDependencySet.
type DependencySet struct {
	members map[string]struct{}
}

// NewDependencySet creates an empty DependencySet.
func NewDependencySet() *DependencySet {
	return &DependencySet{members: make(map[string]struct{})}
}

// Add inserts a package name into the set.
func (s *DependencySet) Add(pkg string) {
	s.members[pkg] = struct{}{}
}

// Remove deletes a package name from the set. Used to strip a package's own
// name, since a package never depends on itself.
func (s *DependencySet) Remove(pkg string) {
	delete(s.members, pkg)
}

// Sorted returns the members lexicographically sorted and deduplicated.
func (s *DependencySet) Sorted() []string {
	out := make([]string, 0, len(s.members))
	for pkg := range s.members {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// Serialize renders the set in deps.txt format: one name per line, sorted,
// with a trailing newline unless the set is empty.
func (s *DependencySet) Serialize() []byte {
	deps := s.Sorted()
	if len(deps) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(deps, "\n") + "\n")
}
