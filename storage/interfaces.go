package storage

import (
	"context"
	"time"

	"github.com/poiesic/saarthi/core"
)

// IndexMeta describes a persisted embedding index generation.
type IndexMeta struct {
	Model       string    `json:"model"`
	Dimensions  int       `json:"dimensions"`
	Count       int       `json:"count"`
	BuildID     string    `json:"build_id"`
	Fingerprint string    `json:"fingerprint"`
	Generation  uint64    `json:"generation"`
	BuiltAt     time.Time `json:"built_at"`
}

// IndexEntry pairs a verse record with its normalized embedding.
type IndexEntry struct {
	Record core.VerseRecord
	Vector []float32
}

// IndexSnapshot is a complete embedding index: metadata plus entries in
// insertion order.
type IndexSnapshot struct {
	Meta    IndexMeta
	Entries []IndexEntry
}

// IndexRepository persists embedding index snapshots.
// Implementations must be thread-safe and support concurrent access.
type IndexRepository interface {
	// SaveIndex replaces the stored index with snapshot. The previous
	// generation stays readable until the new one is fully written, and is
	// removed afterwards. Meta.Generation is assigned by the repository.
	SaveIndex(ctx context.Context, snapshot *IndexSnapshot) error

	// LoadIndex returns the current snapshot with entries in the order they
	// were saved. Returns ErrNotFound if no index has been saved.
	LoadIndex(ctx context.Context) (*IndexSnapshot, error)

	// LoadMeta returns only the metadata of the current snapshot.
	// Returns ErrNotFound if no index has been saved.
	LoadMeta(ctx context.Context) (*IndexMeta, error)

	// Close releases resources held by the repository.
	Close() error
}
