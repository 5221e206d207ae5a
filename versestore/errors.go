package versestore

import "errors"

var (
	// ErrTaggerRequired is returned when a nil tagger is provided.
	ErrTaggerRequired = errors.New("source tagger required")

	// ErrLoaderRequired is returned when a nil loader is provided.
	ErrLoaderRequired = errors.New("loader required")

	// ErrInvalidPattern is returned for malformed file or mapping patterns.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNotDirectory is returned when the source path is not a directory.
	ErrNotDirectory = errors.New("source path is not a directory")
)

// Reasons recorded on IngestErrors for skipped files.
const (
	reasonUnreadable     = "unreadable file"
	reasonEncoding       = "file is not valid UTF-8"
	reasonMalformed      = "malformed CSV"
	reasonEmpty          = "file has no header row"
	reasonMissingColumns = "missing required columns"
)
