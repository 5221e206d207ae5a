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

package saarthi

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/ai/openai"
	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/index"
	"github.com/poiesic/saarthi/ingestion"
	"github.com/poiesic/saarthi/retrieval"
	"github.com/poiesic/saarthi/storage"
	"github.com/poiesic/saarthi/storage/badger"
	"github.com/poiesic/saarthi/versestore"
)

// Engine wires the verse store, embedding index, indexing pipeline and
// retriever over one badger database. Construct it once per process.
type Engine struct {
	backend   *badger.Backend
	repo      storage.IndexRepository
	provider  ai.AIProvider
	store     *versestore.Store
	index     *index.Index
	pipeline  *ingestion.Pipeline
	retriever *retrieval.Retriever
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.AIProvider
	sourceConfig *ingestion.SourceConfig
	batchSize    int
	poolSize     int
	maxAttempts  int
	progress     io.Writer
	defaultN     int
	monitor      retrieval.Monitor
	logger       *slog.Logger
}

// WithAIConfig sets the embedding and chat configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses an existing AI provider instead of building one from
// the AI config. The engine closes it on Close.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithSourceConfig applies a source mapping to every rebuild.
func WithSourceConfig(cfg *ingestion.SourceConfig) EngineOption {
	return func(o *engineOptions) {
		o.sourceConfig = cfg
	}
}

// WithBatchSize sets how many verses are embedded per request.
func WithBatchSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.batchSize = size
	}
}

// WithPoolSize sets the worker pool size for embedding and file parsing.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// WithMaxAttempts sets how many times a failing embedding request is tried.
func WithMaxAttempts(attempts int) EngineOption {
	return func(o *engineOptions) {
		o.maxAttempts = attempts
	}
}

// WithProgress reports embedding progress to w during rebuilds.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithDefaultN sets the number of semantic hits per query.
func WithDefaultN(n int) EngineOption {
	return func(o *engineOptions) {
		o.defaultN = n
	}
}

// WithMonitor installs a retrieval monitor.
func WithMonitor(monitor retrieval.Monitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open opens (or creates) the engine database at path. A previously built
// index is restored together with its verses, so queries work without a
// rebuild.
func Open(ctx context.Context, path string, opts ...EngineOption) (*Engine, error) {
	options := applyOptions(opts)
	backend, err := badger.OpenBackendWithLogger(path, false, options.logger)
	if err != nil {
		return nil, err
	}
	return newEngine(ctx, backend, options)
}

// OpenInMemory creates an engine whose index lives only in memory.
func OpenInMemory(ctx context.Context, opts ...EngineOption) (*Engine, error) {
	options := applyOptions(opts)
	backend, err := badger.OpenBackendWithLogger("", true, options.logger)
	if err != nil {
		return nil, err
	}
	return newEngine(ctx, backend, options)
}

func applyOptions(opts []EngineOption) *engineOptions {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		maxAttempts: 1,
		defaultN:    retrieval.DefaultN,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	return options
}

func newEngine(ctx context.Context, backend *badger.Backend, options *engineOptions) (*Engine, error) {
	e := &Engine{
		backend: backend,
		logger:  options.logger.With("component", "engine"),
	}

	if err := e.init(ctx, options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init(ctx context.Context, options *engineOptions) error {
	repo, err := badger.NewIndexRepository(e.backend)
	if err != nil {
		return err
	}
	e.repo = repo

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return err
		}
	}
	e.provider = provider

	e.store, err = versestore.New(versestore.WithLogger(options.logger))
	if err != nil {
		return err
	}

	indexOpts := []index.Option{
		index.WithRepository(repo),
		index.WithLogger(options.logger),
		index.WithMaxAttempts(options.maxAttempts),
	}
	if options.batchSize > 0 {
		indexOpts = append(indexOpts, index.WithBatchSize(options.batchSize))
	}
	if options.poolSize > 0 {
		indexOpts = append(indexOpts, index.WithPoolSize(options.poolSize))
	}
	if options.progress != nil {
		indexOpts = append(indexOpts, index.WithProgress(options.progress))
	}
	e.index, err = index.New(provider.Embedder(), indexOpts...)
	if err != nil {
		return err
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithSourceConfig(options.sourceConfig),
		ingestion.WithLogger(options.logger),
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.poolSize))
	}
	e.pipeline, err = ingestion.NewPipeline(e.store, e.index, pipelineOpts...)
	if err != nil {
		return err
	}

	e.retriever, err = retrieval.New(e.store, e.index,
		retrieval.WithDefaultN(options.defaultN),
		retrieval.WithMonitor(options.monitor),
		retrieval.WithLogger(options.logger))
	if err != nil {
		return err
	}

	return e.restore(ctx)
}

// restore hydrates the store and index from the last persisted build.
func (e *Engine) restore(ctx context.Context) error {
	records, err := e.index.Open(ctx)
	if index.IsNotPersisted(err) {
		e.logger.Info("no persisted index; run a rebuild before querying")
		return nil
	}
	if err != nil {
		return err
	}
	corpus, duplicates := versestore.NewCorpusFromRecords(records)
	if duplicates > 0 {
		e.logger.Warn("persisted index contains duplicate verses", "duplicates", duplicates)
	}
	e.store.Replace(corpus)
	return nil
}

// Close releases the index workers, the AI provider and the database.
func (e *Engine) Close() error {
	if e.index != nil {
		e.index.Release()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Error("error closing index repository", "err", err)
			return err
		}
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Rebuild re-reads every source file in dir and rebuilds the index.
func (e *Engine) Rebuild(ctx context.Context, dir string) (*core.IndexStats, error) {
	return e.pipeline.Rebuild(ctx, dir)
}

// RebuildIfChanged rebuilds only when the sources or embedding model changed.
func (e *Engine) RebuildIfChanged(ctx context.Context, dir string) (*core.IndexStats, error) {
	return e.pipeline.RebuildIfChanged(ctx, dir)
}

// Reembed rebuilds the index from the loaded verses with the current embedder.
func (e *Engine) Reembed(ctx context.Context) (*core.IndexStats, error) {
	return e.pipeline.Reembed(ctx)
}

// NewWatcher creates a watcher that rebuilds when files in dir change.
func (e *Engine) NewWatcher(dir string, opts ...ingestion.WatcherOption) (*ingestion.Watcher, error) {
	return ingestion.NewWatcher(e.pipeline, dir, opts...)
}

// Retrieve returns context for a query. It never fails; see retrieval.Result.Err.
func (e *Engine) Retrieve(ctx context.Context, q retrieval.Query) *retrieval.Result {
	return e.retriever.Retrieve(ctx, q)
}

// Lookup finds one verse by citation. An empty source searches every source.
func (e *Engine) Lookup(source, chapter, verse string) (core.VerseRecord, bool) {
	return e.store.Lookup(source, chapter, verse)
}

// RandomVerse returns a uniformly chosen verse.
func (e *Engine) RandomVerse() (core.VerseRecord, bool) {
	return e.store.Random(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// DailyVerse returns the verse of the day for t.
func (e *Engine) DailyVerse(t time.Time) (core.VerseRecord, bool) {
	return e.store.DailyVerse(t)
}

// Store returns the verse store.
func (e *Engine) Store() *versestore.Store {
	return e.store
}

// Index returns the embedding index.
func (e *Engine) Index() *index.Index {
	return e.index
}

// Pipeline returns the indexing pipeline.
func (e *Engine) Pipeline() *ingestion.Pipeline {
	return e.pipeline
}

// Retriever returns the hybrid retriever.
func (e *Engine) Retriever() *retrieval.Retriever {
	return e.retriever
}
