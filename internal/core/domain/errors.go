package domain

import "go.trai.ch/zerr"

var (
	// ErrNotADirectory is returned when the gendeps target path is not a directory.
	ErrNotADirectory = zerr.New("target is not a directory")

	// ErrInvalidArchiveName is returned when an archive filename does not follow
	// the name-version convention.
	ErrInvalidArchiveName = zerr.New("invalid archive name")

	// ErrUnsupportedArchiveExt is returned for files that are not .lpkg or .tar.zst archives.
	ErrUnsupportedArchiveExt = zerr.New("unsupported archive extension")

	// ErrRepositoryRootNotSet is returned when push runs without a configured repository root.
	ErrRepositoryRootNotSet = zerr.New("repository root not configured")

	// ErrEntryNotFound is returned when a requested archive entry does not exist.
	ErrEntryNotFound = zerr.New("archive entry not found")

	// ErrNoArchivesMatched is returned when push patterns match no files.
	ErrNoArchivesMatched = zerr.New("no archives matched")
)
