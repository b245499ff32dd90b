package search

import "github.com/poiesic/vidqa/core"

// RetrievalMonitor provides hooks to observe retrieval.
// Implement this interface to trace queries and their results.
type RetrievalMonitor interface {
	Start(query string, k int)
	AfterEmbedding(dimensions int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)         {}
func (n *noopMonitor) AfterEmbedding(_ int)          {}
func (n *noopMonitor) Finish(_ []*core.SearchResult) {}
