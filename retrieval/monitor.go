package retrieval

import (
	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/reference"
)

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to trace which path a query took.
type Monitor interface {
	Start(query Query)
	ParsedReference(match reference.Match)
	ExactHit(record core.VerseRecord)
	SemanticHits(hits []core.ScoredVerse)
	Failure(err error)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)                     {}
func (n *noopMonitor) ParsedReference(_ reference.Match) {}
func (n *noopMonitor) ExactHit(_ core.VerseRecord)       {}
func (n *noopMonitor) SemanticHits(_ []core.ScoredVerse) {}
func (n *noopMonitor) Failure(_ error)                   {}
func (n *noopMonitor) Finish(_ *Result)                  {}
