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

package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/index"
	"github.com/poiesic/saarthi/storage"
	"github.com/poiesic/saarthi/versestore"
)

// Pipeline orchestrates loading source files, embedding the corpus and
// publishing the result to the verse store. Rebuilds are serialized.
type Pipeline struct {
	store    *versestore.Store
	index    *index.Index
	loader   *versestore.Loader
	mapping  versestore.SourceMapping
	pattern  string
	poolSize int
	logger   *slog.Logger

	mu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSourceConfig applies a source mapping file. A non-empty pattern in
// the config overrides the default file pattern.
func WithSourceConfig(cfg *SourceConfig) Option {
	return func(p *Pipeline) error {
		if cfg == nil {
			return nil
		}
		p.mapping = cfg.Sources
		if cfg.Pattern != "" {
			p.pattern = cfg.Pattern
		}
		return nil
	}
}

// WithSourceMapping declares the source tag of individual files.
func WithSourceMapping(mapping versestore.SourceMapping) Option {
	return func(p *Pipeline) error {
		p.mapping = mapping
		return nil
	}
}

// WithPattern sets the filename glob of source files.
// Default is versestore.DefaultPattern.
func WithPattern(pattern string) Option {
	return func(p *Pipeline) error {
		p.pattern = pattern
		return nil
	}
}

// WithPoolSize sets how many source files are parsed concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new indexing pipeline over store and ix.
func NewPipeline(store *versestore.Store, ix *index.Index, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if ix == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	p := &Pipeline{
		store:    store,
		index:    ix,
		pattern:  versestore.DefaultPattern,
		poolSize: poolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Loader is created after options so it sees the final config.
	tagger, err := versestore.NewTagger(p.mapping)
	if err != nil {
		return nil, err
	}
	loader, err := versestore.NewLoader(
		versestore.WithTagger(tagger),
		versestore.WithPattern(p.pattern),
		versestore.WithParsePoolSize(p.poolSize),
		versestore.WithLoaderLogger(p.logger),
	)
	if err != nil {
		return nil, err
	}
	p.loader = loader
	p.logger = p.logger.With("component", "indexing-pipeline")
	return p, nil
}

// Matches reports whether a file name would be picked up by a rebuild.
func (p *Pipeline) Matches(name string) bool {
	return p.loader.Matches(name)
}

// Rebuild loads every source file in dir, rebuilds the index from the
// merged corpus and then replaces the store's corpus. When the index build
// fails both the previous index and the previous corpus stay in place.
func (p *Pipeline) Rebuild(ctx context.Context, dir string) (*core.IndexStats, error) {
	return p.rebuild(ctx, dir, false)
}

// RebuildIfChanged is Rebuild, except that the embedding step is skipped
// when the corpus and embedding model match the current index. The returned
// stats have Unchanged set in that case.
func (p *Pipeline) RebuildIfChanged(ctx context.Context, dir string) (*core.IndexStats, error) {
	return p.rebuild(ctx, dir, true)
}

func (p *Pipeline) rebuild(ctx context.Context, dir string, skipUnchanged bool) (*core.IndexStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result, err := p.loader.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	records := result.Corpus.Records()

	if skipUnchanged {
		fingerprint := core.CorpusFingerprint(p.index.EmbedderModel(), records)
		if meta, ok := p.index.Meta(); ok && meta.Fingerprint == fingerprint && meta.Model == p.index.EmbedderModel() {
			p.store.Replace(result.Corpus)
			stats := newStats(result.Corpus, &meta)
			addLoadStats(stats, result)
			stats.Unchanged = true
			p.logger.Info("sources unchanged, index kept", "records", stats.TotalRecords, "build_id", meta.BuildID)
			return stats, nil
		}
	}

	meta, err := p.index.Build(ctx, records)
	if err != nil {
		return nil, err
	}
	p.store.Replace(result.Corpus)

	stats := newStats(result.Corpus, meta)
	addLoadStats(stats, result)
	p.logger.Info("rebuild complete",
		"records", stats.TotalRecords,
		"sources", len(stats.RecordsPerSource),
		"files", stats.FilesIndexed,
		"skipped", len(stats.Skipped))
	return stats, nil
}

// Reembed rebuilds the index from the store's current corpus without
// reading source files, typically after the embedding model changed.
func (p *Pipeline) Reembed(ctx context.Context) (*core.IndexStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	corpus := p.store.Corpus()
	p.logger.Info("reembedding corpus", "records", corpus.Len(), "model", p.index.EmbedderModel())
	meta, err := p.index.Build(ctx, corpus.Records())
	if err != nil {
		return nil, err
	}
	return newStats(corpus, meta), nil
}

func newStats(corpus *versestore.Corpus, meta *storage.IndexMeta) *core.IndexStats {
	return &core.IndexStats{
		RecordsPerSource: corpus.CountsBySource(),
		TotalRecords:     corpus.Len(),
		Model:            meta.Model,
		BuildID:          meta.BuildID,
		Fingerprint:      meta.Fingerprint,
	}
}

func addLoadStats(stats *core.IndexStats, result *versestore.LoadResult) {
	stats.FilesIndexed = len(result.Files)
	stats.Skipped = result.Skipped
	stats.Duplicates = result.Duplicates
}
