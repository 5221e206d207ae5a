package index

import "errors"

var (
	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrRepositoryRequired is returned by Open when no repository is configured.
	ErrRepositoryRequired = errors.New("index repository required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbeddingCount is returned when the embedder returns a different
	// number of vectors than texts.
	ErrEmbeddingCount = errors.New("embedding count mismatch")

	// ErrInconsistentDimensions is returned when vectors in one build differ in length.
	ErrInconsistentDimensions = errors.New("inconsistent embedding dimensions")
)
