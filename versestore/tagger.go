package versestore

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/saarthi/core"
)

// SourceMapping associates file names (or filepath.Match globs over the
// base name) with a declared source tag.
type SourceMapping map[string]string

// Origin describes how a file's source tag was decided.
type Origin string

const (
	// OriginColumn means each row carried its own source column.
	OriginColumn Origin = "column"
	// OriginMapping means the file matched an explicit mapping entry.
	OriginMapping Origin = "mapping"
	// OriginHeuristic means the filename heuristic was used.
	OriginHeuristic Origin = "heuristic"
)

type mappingRule struct {
	pattern string
	source  string
}

// Tagger decides the source tag for records read from a file.
// Precedence: the row's source column, then the explicit mapping,
// then core.SourceFromFilename.
type Tagger struct {
	rules []mappingRule
}

// NewTagger validates the mapping and returns a Tagger. Patterns are
// matched case-insensitively in lexical order; the first match wins.
func NewTagger(mapping SourceMapping) (*Tagger, error) {
	rules := make([]mappingRule, 0, len(mapping))
	for pattern, source := range mapping {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
		}
		if strings.TrimSpace(source) == "" {
			return nil, fmt.Errorf("%w: %q maps to an empty source", ErrInvalidPattern, pattern)
		}
		rules = append(rules, mappingRule{pattern: pattern, source: core.CanonicalSource(source)})
	}
	slices.SortFunc(rules, func(a, b mappingRule) int {
		return strings.Compare(a.pattern, b.pattern)
	})
	return &Tagger{rules: rules}, nil
}

// FileSource returns the file-level source tag for path and how it was chosen.
func (t *Tagger) FileSource(path string) (string, Origin) {
	name := strings.ToLower(filepath.Base(path))
	for _, rule := range t.rules {
		if ok, _ := filepath.Match(rule.pattern, name); ok {
			return rule.source, OriginMapping
		}
	}
	return core.SourceFromFilename(path), OriginHeuristic
}

// RowSource applies the row's own source column when present.
func (t *Tagger) RowSource(column, fileSource string) string {
	if column = strings.TrimSpace(column); column != "" {
		return core.CanonicalSource(column)
	}
	return fileSource
}
