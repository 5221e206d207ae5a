package reference

import "strconv"

// Match is the outcome of parsing a query for a chapter/verse citation.
// It is one of CompactMatch, VerboseMatch or NoMatch.
type Match interface {
	// Ref returns the parsed chapter and verse. ok is false for NoMatch.
	Ref() (chapter, verse int, ok bool)
	isMatch()
}

// CompactMatch is a "C.V" or "C:V" citation.
type CompactMatch struct {
	Chapter int
	Verse   int
	// Offset is the byte offset of the match in the query.
	Offset int
}

// VerboseMatch is a "chapter N ... verse M" citation.
type VerboseMatch struct {
	Chapter int
	Verse   int
	Offset  int
}

// NoMatch means the query carries no recognizable citation. It is an
// ordinary outcome, not an error: retrieval falls through to semantic search.
type NoMatch struct{}

func (m CompactMatch) Ref() (int, int, bool) { return m.Chapter, m.Verse, true }
func (m VerboseMatch) Ref() (int, int, bool) { return m.Chapter, m.Verse, true }
func (NoMatch) Ref() (int, int, bool)        { return 0, 0, false }

func (CompactMatch) isMatch() {}
func (VerboseMatch) isMatch() {}
func (NoMatch) isMatch()      {}

func (m CompactMatch) String() string {
	return strconv.Itoa(m.Chapter) + "." + strconv.Itoa(m.Verse)
}

func (m VerboseMatch) String() string {
	return "chapter " + strconv.Itoa(m.Chapter) + " verse " + strconv.Itoa(m.Verse)
}

func (NoMatch) String() string {
	return "no match"
}
