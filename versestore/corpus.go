package versestore

import (
	"github.com/poiesic/saarthi/core"
)

// refKey indexes records by normalized chapter and verse only, for lookups
// that do not name a source.
type refKey struct {
	chapter string
	verse   string
}

// Corpus is an ordered, duplicate-free collection of verse records.
// It is built once and treated as read-only afterwards.
type Corpus struct {
	records []core.VerseRecord
	byKey   map[core.VerseKey]int
	byRef   map[refKey]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		byKey: make(map[core.VerseKey]int),
		byRef: make(map[refKey]int),
	}
}

// NewCorpusFromRecords builds a corpus keeping the first occurrence of
// every (source, chapter, verse). It returns the number of dropped duplicates.
func NewCorpusFromRecords(records []core.VerseRecord) (*Corpus, int) {
	c := NewCorpus()
	duplicates := 0
	for _, r := range records {
		if !c.Add(r) {
			duplicates++
		}
	}
	return c, duplicates
}

// Add appends a record unless its key is already present.
// It reports whether the record was added.
func (c *Corpus) Add(record core.VerseRecord) bool {
	key := record.Key()
	if _, exists := c.byKey[key]; exists {
		return false
	}
	idx := len(c.records)
	c.records = append(c.records, record)
	c.byKey[key] = idx
	ref := refKey{chapter: key.Chapter, verse: key.Verse}
	if _, exists := c.byRef[ref]; !exists {
		c.byRef[ref] = idx
	}
	return true
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a copy of the records in insertion order.
func (c *Corpus) Records() []core.VerseRecord {
	if c == nil {
		return nil
	}
	out := make([]core.VerseRecord, len(c.records))
	copy(out, c.records)
	return out
}

// At returns the record at position i in insertion order.
func (c *Corpus) At(i int) core.VerseRecord {
	return c.records[i]
}

// Get returns the record with the given normalized key.
func (c *Corpus) Get(key core.VerseKey) (core.VerseRecord, bool) {
	if c == nil {
		return core.VerseRecord{}, false
	}
	idx, ok := c.byKey[key]
	if !ok {
		return core.VerseRecord{}, false
	}
	return c.records[idx], true
}

// FindRef returns the first record, in insertion order, whose chapter and
// verse match regardless of source.
func (c *Corpus) FindRef(chapter, verse string) (core.VerseRecord, bool) {
	if c == nil {
		return core.VerseRecord{}, false
	}
	idx, ok := c.byRef[refKey{chapter: core.NormalizeRef(chapter), verse: core.NormalizeRef(verse)}]
	if !ok {
		return core.VerseRecord{}, false
	}
	return c.records[idx], true
}

// CountsBySource returns the number of records per source tag.
func (c *Corpus) CountsBySource() map[string]int {
	counts := make(map[string]int)
	if c == nil {
		return counts
	}
	for _, r := range c.records {
		counts[r.Source]++
	}
	return counts
}

// Sources returns the distinct source tags in order of first appearance.
func (c *Corpus) Sources() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var sources []string
	for _, r := range c.records {
		if !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}
	return sources
}
