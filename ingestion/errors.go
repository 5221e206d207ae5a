package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a verse store is not provided.
	ErrStoreRequired = errors.New("verse store required")

	// ErrIndexRequired is returned when an embedding index is not provided.
	ErrIndexRequired = errors.New("embedding index required")

	// ErrPipelineRequired is returned when a watcher is created without a pipeline.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrInvalidSourceConfig is returned when a source mapping file cannot be used.
	ErrInvalidSourceConfig = errors.New("invalid source config")
)
