package retrieval

import "errors"

var (
	// ErrStoreRequired is returned when a verse store is not provided.
	ErrStoreRequired = errors.New("verse store required")

	// ErrIndexRequired is returned when an embedding index is not provided.
	ErrIndexRequired = errors.New("embedding index required")
)
