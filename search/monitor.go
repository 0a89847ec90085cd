package search

import "github.com/sushilduseja/divine-vision/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results
// during search, including degraded-signal conditions that are absorbed
// rather than surfaced as errors.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordSearch(items []RankedItem)
	AfterConceptSearch(items []RankedItem)
	AfterSemanticSearch(items []RankedItem)
	SemanticUnavailable(err error)
	AfterFusion(results []*core.SearchResult)
	RerankFailed(err error)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterKeywordSearch(_ []RankedItem)    {}
func (n *noopMonitor) AfterConceptSearch(_ []RankedItem)    {}
func (n *noopMonitor) AfterSemanticSearch(_ []RankedItem)   {}
func (n *noopMonitor) SemanticUnavailable(_ error)          {}
func (n *noopMonitor) AfterFusion(_ []*core.SearchResult)   {}
func (n *noopMonitor) RerankFailed(_ error)                 {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)        {}
