package search

import "github.com/sushilduseja/divine-vision/core"

// RankedItem is one entry of a scorer's ranked list. Score is local to
// the producing scorer and is not comparable across scorers; fusion
// consumes rank positions only.
type RankedItem struct {
	Verse *core.Verse

	// Score is the scorer-local relevance. Items with score 0 never
	// appear in a ranked list.
	Score float64

	// MatchedConcepts holds the concept tags that matched, for the
	// concept scorer only.
	MatchedConcepts []string

	// Synthetic marks a similarity computed against a fallback vector
	// derived from the verse text rather than a real embedding.
	Synthetic bool
}
