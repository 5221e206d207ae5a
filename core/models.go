package core

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// VerseRecord is a single verse loaded from a tabular source.
// Chapter and Verse keep their textual form so that named chapters
// ("Brihadaranyaka") and composite verse numbers ("1.4.10") survive intact.
type VerseRecord struct {
	Source      string `json:"source"`
	Chapter     string `json:"chapter"`
	Verse       string `json:"verse"`
	Sanskrit    string `json:"sanskrit"`
	Translation string `json:"translation"`
}

// ID returns the stable index identifier "{source}_{chapter}_{verse}".
func (r *VerseRecord) ID() string {
	return r.Source + "_" + r.Chapter + "_" + r.Verse
}

// Citation returns the human readable "{source} {chapter}.{verse}" form.
func (r *VerseRecord) Citation() string {
	return r.Source + " " + r.Chapter + "." + r.Verse
}

// EmbeddingText returns the text fed to the embedder at build time.
func (r *VerseRecord) EmbeddingText() string {
	return r.Translation + " (Sanskrit: " + r.Sanskrit + ")"
}

// Key returns the normalized identity of the record.
func (r *VerseRecord) Key() VerseKey {
	return NewVerseKey(r.Source, r.Chapter, r.Verse)
}

// VerseKey is the normalized (source, chapter, verse) tuple used for
// uniqueness checks and exact lookups.
type VerseKey struct {
	Source  string
	Chapter string
	Verse   string
}

// NewVerseKey builds a normalized key. Source aliases are resolved and
// chapter/verse are passed through NormalizeRef.
func NewVerseKey(source, chapter, verse string) VerseKey {
	return VerseKey{
		Source:  strings.ToLower(CanonicalSource(source)),
		Chapter: NormalizeRef(chapter),
		Verse:   NormalizeRef(verse),
	}
}

// NormalizeRef canonicalizes a chapter or verse reference so that integer
// and string spellings of the same value compare equal ("02", " 2 " and "2").
// Non-numeric references are trimmed and lower-cased.
func NormalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return strconv.FormatUint(n, 10)
	}
	return strings.ToLower(ref)
}

// ScoredVerse is a record returned from similarity search together with
// its cosine similarity to the query.
type ScoredVerse struct {
	Record VerseRecord
	Score  float32
}

// IndexStats summarizes a rebuild of the embedding index.
type IndexStats struct {
	RecordsPerSource map[string]int
	TotalRecords     int
	FilesIndexed     int
	Skipped          []*IngestError
	Duplicates       int
	Model            string
	BuildID          string
	Fingerprint      string
	Unchanged        bool
}

// Fingerprint returns a hex BLAKE2b digest over the given parts.
// Parts are length-prefixed so that ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...string) string {
	h, _ := blake2b.New(16, nil)
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{':'})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CorpusFingerprint hashes the identity and embedding text of every record
// in order, together with the embedding model name.
func CorpusFingerprint(model string, records []VerseRecord) string {
	parts := make([]string, 0, len(records)*2+1)
	parts = append(parts, model)
	for i := range records {
		parts = append(parts, records[i].ID(), records[i].EmbeddingText())
	}
	return Fingerprint(parts...)
}
