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

package versestore

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/saarthi/core"
)

// Store holds the current corpus and answers exact lookups.
// The corpus is replaced wholesale; it is never patched in place.
type Store struct {
	mu     sync.RWMutex
	corpus *Corpus
	loader *Loader
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLoader sets the loader used by Load.
func WithLoader(loader *Loader) Option {
	return func(s *Store) error {
		if loader == nil {
			return ErrLoaderRequired
		}
		s.loader = loader
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates an empty Store.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		corpus: NewCorpus(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.loader == nil {
		loader, err := NewLoader(WithLoaderLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.loader = loader
	}
	s.logger = s.logger.With("component", "verse-store")
	return s, nil
}

// Load reads every source file in dir and replaces the current corpus.
// Malformed files are skipped and reported in the result.
func (s *Store) Load(ctx context.Context, dir string) (*LoadResult, error) {
	result, err := s.loader.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	s.Replace(result.Corpus)
	return result, nil
}

// Replace swaps in a new corpus.
func (s *Store) Replace(corpus *Corpus) {
	if corpus == nil {
		corpus = NewCorpus()
	}
	s.mu.Lock()
	s.corpus = corpus
	s.mu.Unlock()
	s.logger.Debug("corpus replaced", "records", corpus.Len())
}

// Corpus returns the current corpus. Callers must not modify it.
func (s *Store) Corpus() *Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus
}

// Lookup finds a verse by exact, normalized match. Chapter and verse compare
// equal across integer and string spellings ("02" matches 2). When source is
// empty every source is searched and the first match in ingestion order is
// returned, so the answer depends on which files were loaded first.
func (s *Store) Lookup(source, chapter, verse string) (core.VerseRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(source) == "" {
		return s.corpus.FindRef(chapter, verse)
	}
	return s.corpus.Get(core.NewVerseKey(source, chapter, verse))
}

// Records returns a copy of all records in ingestion order.
func (s *Store) Records() []core.VerseRecord {
	return s.Corpus().Records()
}

// Sources returns the distinct source tags in ingestion order.
func (s *Store) Sources() []string {
	return s.Corpus().Sources()
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return s.Corpus().Len()
}

// Random returns a uniformly chosen verse.
func (s *Store) Random(r *rand.Rand) (core.VerseRecord, bool) {
	corpus := s.Corpus()
	if corpus.Len() == 0 {
		return core.VerseRecord{}, false
	}
	return corpus.At(r.IntN(corpus.Len())), true
}

// DailyVerse returns the verse of the day for t. The same calendar day (UTC)
// always yields the same verse for an unchanged corpus.
func (s *Store) DailyVerse(t time.Time) (core.VerseRecord, bool) {
	corpus := s.Corpus()
	if corpus.Len() == 0 {
		return core.VerseRecord{}, false
	}
	y, m, d := t.UTC().Date()
	day := uint64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
	r := rand.New(rand.NewPCG(day, uint64(corpus.Len())))
	return corpus.At(r.IntN(corpus.Len())), true
}
