package ports

// Inspector extracts dynamic-linking metadata from ELF objects.
//
//go:generate go run go.uber.org/mock/mockgen -source=inspector.go -destination=mocks/mock_inspector.go -package=mocks
type Inspector interface {
	// IsELF reports whether the file at path starts with the ELF magic
	// number. Any read failure is treated as "not ELF".
	IsELF(path string) bool

	// Sonames returns the SONAME entries declared in the object's dynamic
	// section. Malformed or non-dynamic objects yield nil.
	Sonames(path string) []string

	// Needed returns the NEEDED entries declared in the object's dynamic
	// section. Malformed or non-dynamic objects yield nil.
	Needed(path string) []string
}
