package ports

// Hasher computes content hashes and archive digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash computes the XXHash of a file's content.
	ComputeFileHash(path string) (uint64, error)

	// ComputeHash computes the XXHash of a byte slice.
	ComputeHash(data []byte) uint64

	// ComputeFileDigest computes the hex-encoded SHA-256 digest of a file.
	// This is the digest recorded next to published archives.
	ComputeFileDigest(path string) (string, error)
}
