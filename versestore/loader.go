package versestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/saarthi/core"
)

// DefaultPattern selects the files scanned in a source directory.
const DefaultPattern = "*.csv"

// LoadResult is the outcome of loading a source directory.
type LoadResult struct {
	Corpus     *Corpus
	Files      []*FileResult
	Skipped    []*core.IngestError
	Duplicates int
}

// Loader discovers and parses the tabular source files of a directory.
type Loader struct {
	tagger   *Tagger
	pattern  string
	poolSize int
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithTagger sets the source tagger. Default uses no explicit mapping,
// so only source columns and the filename heuristic apply.
func WithTagger(tagger *Tagger) LoaderOption {
	return func(l *Loader) error {
		if tagger == nil {
			return ErrTaggerRequired
		}
		l.tagger = tagger
		return nil
	}
}

// WithPattern sets the filename glob used to discover source files.
// Default is "*.csv". Matching is case-insensitive.
func WithPattern(pattern string) LoaderOption {
	return func(l *Loader) error {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if _, err := filepath.Match(pattern, ""); err != nil || pattern == "" {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
		l.pattern = pattern
		return nil
	}
}

// WithParsePoolSize sets how many files are parsed concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithParsePoolSize(size int) LoaderOption {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.poolSize = size
		return nil
	}
}

// WithLoaderLogger sets a custom logger.
// Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	tagger, err := NewTagger(nil)
	if err != nil {
		return nil, err
	}
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	l := &Loader{
		tagger:   tagger,
		pattern:  DefaultPattern,
		poolSize: poolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "verse-loader")
	return l, nil
}

// Pattern returns the filename glob used for discovery.
func (l *Loader) Pattern() string {
	return l.pattern
}

// Matches reports whether a file name is picked up by the loader.
func (l *Loader) Matches(name string) bool {
	ok, _ := filepath.Match(l.pattern, strings.ToLower(filepath.Base(name)))
	return ok
}

// Discover lists matching files in dir in lexical order.
func (l *Loader) Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !l.Matches(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// Load parses every matching file in dir and merges them into a Corpus.
//
// Files are parsed concurrently but merged in lexical filename order, so
// when two files declare the same (source, chapter, verse) the record from
// the lexically earlier file is kept. Files that cannot be used are skipped
// and reported in LoadResult.Skipped; only an unreadable directory fails
// the whole load.
func (l *Loader) Load(ctx context.Context, dir string) (*LoadResult, error) {
	files, err := l.Discover(dir)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("discovered source files", "dir", dir, "files", len(files))

	results := make([]*FileResult, len(files))
	errs := make([]error, len(files))

	pool, err := ants.NewPool(l.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i], errs[i] = ReadFile(path, l.tagger)
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	out := &LoadResult{Corpus: NewCorpus()}
	for i, path := range files {
		if errs[i] != nil {
			var ingestErr *core.IngestError
			if !errors.As(errs[i], &ingestErr) {
				ingestErr = core.NewIngestError(path, reasonUnreadable, errs[i])
			}
			l.logger.Warn("skipping source file", "path", path, "err", ingestErr)
			out.Skipped = append(out.Skipped, ingestErr)
			continue
		}

		result := results[i]
		if result.Origin == OriginHeuristic {
			l.logger.Info("source inferred from filename", "path", path, "source", core.SourceFromFilename(path))
		}
		if result.InvalidRows > 0 {
			l.logger.Warn("skipped invalid rows", "path", path, "rows", result.InvalidRows)
		}
		for _, record := range result.Records {
			if !out.Corpus.Add(record) {
				out.Duplicates++
				l.logger.Warn("duplicate verse ignored", "path", path, "id", record.ID())
			}
		}
		out.Files = append(out.Files, result)
	}

	l.logger.Info("loaded corpus",
		"files", len(out.Files),
		"skipped", len(out.Skipped),
		"records", out.Corpus.Len(),
		"duplicates", out.Duplicates)
	return out, nil
}
