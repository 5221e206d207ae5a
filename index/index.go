// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/storage"
)

// DefaultBatchSize is the number of verses sent to the embedder per call.
const DefaultBatchSize = 32

type entry struct {
	record core.VerseRecord
	vector []float32
}

// Index is an in-memory embedding index over verse records.
//
// Build embeds outside the lock and then swaps the new entries in under the
// write lock, so queries see either the previous index or the new one,
// never a partial build. The entries slice is never mutated after a swap.
type Index struct {
	embedder    ai.Embedder
	repo        storage.IndexRepository
	pool        *ants.Pool
	poolSize    int
	batchSize   int
	maxAttempts int
	retryDelay  time.Duration
	progress    io.Writer
	logger      *slog.Logger

	mu      sync.RWMutex
	ready   bool
	entries []entry
	meta    storage.IndexMeta
}

// Option configures an Index.
type Option func(*Index) error

// WithRepository persists every build and enables Open.
func WithRepository(repo storage.IndexRepository) Option {
	return func(ix *Index) error {
		ix.repo = repo
		return nil
	}
}

// WithBatchSize sets how many texts are embedded per call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(ix *Index) error {
		if size < 1 {
			size = 1
		}
		ix.batchSize = size
		return nil
	}
}

// WithPoolSize sets how many batches are embedded concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Index) error {
		if size < 1 {
			size = 1
		}
		ix.poolSize = size
		return nil
	}
}

// WithMaxAttempts sets how many times a failing batch is tried.
// Default is 1, meaning no retries.
func WithMaxAttempts(attempts int) Option {
	return func(ix *Index) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		ix.maxAttempts = attempts
		return nil
	}
}

// WithRetryDelay sets the base delay for exponential backoff between attempts.
// Default is one second.
func WithRetryDelay(delay time.Duration) Option {
	return func(ix *Index) error {
		ix.retryDelay = delay
		return nil
	}
}

// WithProgress reports build progress to w.
func WithProgress(w io.Writer) Option {
	return func(ix *Index) error {
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// New creates an empty, not-yet-built index.
func New(embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	ix := &Index{
		embedder:    embedder,
		poolSize:    poolSize,
		batchSize:   DefaultBatchSize,
		maxAttempts: 1,
		retryDelay:  time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	ix.logger = ix.logger.With("component", "embedding-index")

	pool, err := ants.NewPool(ix.poolSize)
	if err != nil {
		return nil, err
	}
	ix.pool = pool
	return ix, nil
}

// Release frees the worker pool. The index must not be built afterwards.
func (ix *Index) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// Build replaces the index with one vector per record.
//
// The previous index stays queryable until the new one is complete. On any
// failure, including persistence, the previous index is left untouched. An
// empty record set yields a ready, empty index.
func (ix *Index) Build(ctx context.Context, records []core.VerseRecord) (*storage.IndexMeta, error) {
	model := ix.embedder.Model()
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].EmbeddingText()
	}

	ix.logger.Info("building index", "records", len(records), "model", model)
	started := time.Now()

	vectors, err := ix.embedAll(ctx, texts)
	if err != nil {
		ix.logger.Warn("index build failed, keeping previous index", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingBackend, err)
	}

	dims := 0
	entries := make([]entry, len(records))
	for i := range records {
		if i == 0 {
			dims = len(vectors[i])
		} else if len(vectors[i]) != dims {
			return nil, fmt.Errorf("%w: %w: %s has %d, expected %d", core.ErrEmbeddingBackend,
				ErrInconsistentDimensions, records[i].ID(), len(vectors[i]), dims)
		}
		entries[i] = entry{record: records[i], vector: vectors[i]}
	}

	meta := storage.IndexMeta{
		Model:       model,
		Dimensions:  dims,
		Count:       len(entries),
		BuildID:     uuid.NewString(),
		Fingerprint: core.CorpusFingerprint(model, records),
		BuiltAt:     time.Now().UTC(),
	}

	if ix.repo != nil {
		snapshot := &storage.IndexSnapshot{Meta: meta, Entries: make([]storage.IndexEntry, len(entries))}
		for i, e := range entries {
			snapshot.Entries[i] = storage.IndexEntry{Record: e.record, Vector: e.vector}
		}
		if err := ix.repo.SaveIndex(ctx, snapshot); err != nil {
			ix.logger.Warn("failed to persist index, keeping previous index", "err", err)
			return nil, fmt.Errorf("persist index: %w", err)
		}
		meta = snapshot.Meta
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.meta = meta
	ix.ready = true
	ix.mu.Unlock()

	ix.logger.Info("index built",
		"records", meta.Count,
		"dimensions", meta.Dimensions,
		"build_id", meta.BuildID,
		"elapsed", time.Since(started).Round(time.Millisecond))
	return &meta, nil
}

// Open loads the persisted index and returns its records in insertion order,
// so callers can restore the verse store without re-reading source files.
// Returns storage.ErrNotFound when nothing has been persisted.
func (ix *Index) Open(ctx context.Context) ([]core.VerseRecord, error) {
	if ix.repo == nil {
		return nil, ErrRepositoryRequired
	}
	snapshot, err := ix.repo.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, len(snapshot.Entries))
	records := make([]core.VerseRecord, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		entries[i] = entry{record: e.Record, vector: e.Vector}
		records[i] = e.Record
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.meta = snapshot.Meta
	ix.ready = true
	ix.mu.Unlock()

	if snapshot.Meta.Model != ix.embedder.Model() {
		ix.logger.Warn("persisted index was built with a different model; reembed before querying",
			"index_model", snapshot.Meta.Model, "embedder_model", ix.embedder.Model())
	}
	ix.logger.Info("index opened", "records", len(entries), "build_id", snapshot.Meta.BuildID)
	return records, nil
}

// Query returns up to k records most similar to text, best first. Ties keep
// insertion order. It fails with core.ErrIndexNotReady before the first
// build and with core.ErrModelMismatch when the embedder's model differs
// from the one the index was built with.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]core.ScoredVerse, error) {
	ix.mu.RLock()
	ready, entries, meta := ix.ready, ix.entries, ix.meta
	ix.mu.RUnlock()

	if !ready {
		return nil, core.ErrIndexNotReady
	}
	if model := ix.embedder.Model(); model != meta.Model {
		return nil, fmt.Errorf("%w: index built with %q, embedder is %q", core.ErrModelMismatch, meta.Model, model)
	}
	if k <= 0 || len(entries) == 0 {
		return []core.ScoredVerse{}, nil
	}

	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vector, err = ix.embedder.EmbedText(ctx, text)
		return err
	}, ix.maxAttempts, ix.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingBackend, err)
	}
	if len(vector) != meta.Dimensions {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index has %d",
			core.ErrModelMismatch, len(vector), meta.Dimensions)
	}
	vector = NormalizeVector(vector)

	results := make([]core.ScoredVerse, len(entries))
	for i, e := range entries {
		results[i] = core.ScoredVerse{Record: e.record, Score: dotProduct(vector, e.vector)}
	}
	slices.SortStableFunc(results, func(a, b core.ScoredVerse) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Ready reports whether the index has been built or opened.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ready
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Meta returns the metadata of the current index.
func (ix *Index) Meta() (storage.IndexMeta, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.meta, ix.ready
}

// Model returns the embedding model the current index was built with.
func (ix *Index) Model() string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.meta.Model
}

// EmbedderModel returns the model of the configured embedder.
func (ix *Index) EmbedderModel() string {
	return ix.embedder.Model()
}

// IDs returns the stable identifiers of indexed records in insertion order.
func (ix *Index) IDs() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ids := make([]string, len(ix.entries))
	for i := range ix.entries {
		ids[i] = ix.entries[i].record.ID()
	}
	return ids
}

// IsNotPersisted reports whether err means no index has been saved yet.
func IsNotPersisted(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
