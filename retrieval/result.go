package retrieval

import (
	"strings"

	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/core"
)

// DirectReferenceCitation is the single citation of an exact match.
const DirectReferenceCitation = "Direct Reference (Scholar Mode)"

// Query is a retrieval request. Mode and Language are carried for the
// generation step and do not affect retrieval.
type Query struct {
	Text     string
	N        int
	Mode     ai.Mode
	Language string
}

// Result is the outcome of Retrieve. Citations is empty exactly when
// ContextText is empty. Err records why retrieval produced nothing, if it
// failed; it is informational and never needs to be returned upward.
type Result struct {
	ContextText string             `json:"context_text"`
	Citations   []string           `json:"citations"`
	Exact       bool               `json:"exact"`
	Hits        []core.ScoredVerse `json:"-"`
	Err         error              `json:"-"`
}

// Empty reports whether no verse matched.
func (r *Result) Empty() bool {
	return len(r.Citations) == 0
}

func emptyResult(err error) *Result {
	return &Result{Citations: []string{}, Err: err}
}

func exactResult(record core.VerseRecord) *Result {
	return &Result{
		ContextText: formatExact(record),
		Citations:   []string{DirectReferenceCitation},
		Exact:       true,
		Hits:        []core.ScoredVerse{{Record: record, Score: 1}},
	}
}

func semanticResult(hits []core.ScoredVerse) *Result {
	if len(hits) == 0 {
		return emptyResult(nil)
	}
	var b strings.Builder
	citations := make([]string, len(hits))
	for i := range hits {
		citations[i] = hits[i].Record.Citation()
		b.WriteString(citations[i])
		b.WriteString(": ")
		b.WriteString(hits[i].Record.Translation)
		b.WriteString("\n")
	}
	return &Result{ContextText: b.String(), Citations: citations, Hits: hits}
}

func formatExact(r core.VerseRecord) string {
	return "**" + r.Source + " " + r.Chapter + "." + r.Verse + "**\n" +
		"Sanskrit: " + r.Sanskrit + "\n" +
		"Translation: " + r.Translation
}
