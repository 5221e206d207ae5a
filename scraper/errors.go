package scraper

import "errors"

var (
	// ErrVerseNotFound is returned when the API has no such verse, which
	// marks the end of a chapter.
	ErrVerseNotFound = errors.New("verse not found")

	// ErrInvalidRateLimit is returned when a non-positive rate is configured.
	ErrInvalidRateLimit = errors.New("rate limit must be positive")

	// ErrHTTPClientRequired is returned when a nil HTTP client is provided.
	ErrHTTPClientRequired = errors.New("http client required")
)
