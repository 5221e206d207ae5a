package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/index"
	"github.com/poiesic/saarthi/reference"
	"github.com/poiesic/saarthi/versestore"
)

// DefaultN is the number of semantic hits returned when a query sets none.
const DefaultN = 3

// Retriever answers queries from the verse store and the embedding index.
type Retriever struct {
	store    *versestore.Store
	index    *index.Index
	defaultN int
	monitor  Monitor
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithDefaultN sets the number of semantic hits for queries without N.
// Default is 3.
func WithDefaultN(n int) Option {
	return func(r *Retriever) error {
		if n < 1 {
			n = DefaultN
		}
		r.defaultN = n
		return nil
	}
}

// WithMonitor installs a Monitor that observes every retrieval.
func WithMonitor(monitor Monitor) Option {
	return func(r *Retriever) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates a Retriever.
func New(store *versestore.Store, ix *index.Index, opts ...Option) (*Retriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if ix == nil {
		return nil, ErrIndexRequired
	}
	r := &Retriever{
		store:    store,
		index:    ix,
		defaultN: DefaultN,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever")
	return r, nil
}

// Retrieve returns context for the query.
func (r *Retriever) Retrieve(ctx context.Context, q Query) *Result {
	return r.RetrieveWithMonitor(ctx, q, nil)
}

// RetrieveWithMonitor is Retrieve with a per-call monitor that replaces the
// retriever's default monitor.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, q Query, monitor Monitor) *Result {
	if monitor == nil {
		monitor = r.monitor
	}
	monitor.Start(q)

	result := r.retrieve(ctx, q, monitor)
	if result.Err != nil {
		monitor.Failure(result.Err)
	}
	monitor.Finish(result)
	return result
}

func (r *Retriever) retrieve(ctx context.Context, q Query, monitor Monitor) *Result {
	match := reference.Parse(q.Text)
	monitor.ParsedReference(match)

	if record, ok := r.lookup(q.Text, match); ok {
		monitor.ExactHit(record)
		r.logger.Debug("exact reference", "citation", record.Citation())
		return exactResult(record)
	}

	n := q.N
	if n <= 0 {
		n = r.defaultN
	}
	hits, err := r.index.Query(ctx, q.Text, n)
	if err != nil {
		if !errors.Is(err, core.ErrIndexNotReady) {
			r.logger.Warn("semantic search failed, continuing without context", "err", err)
		}
		return emptyResult(err)
	}
	monitor.SemanticHits(hits)
	return semanticResult(hits)
}

// lookup resolves a parsed citation against the store. A source named in
// the query narrows the lookup; otherwise the first verse with that chapter
// and verse in ingestion order wins.
func (r *Retriever) lookup(text string, match reference.Match) (core.VerseRecord, bool) {
	chapter, verse, ok := match.Ref()
	if !ok {
		return core.VerseRecord{}, false
	}
	source, _ := reference.DetectSource(text, r.store.Sources())
	return r.store.Lookup(source, strconv.Itoa(chapter), strconv.Itoa(verse))
}
