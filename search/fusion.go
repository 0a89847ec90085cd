package search

import (
	"sort"

	"github.com/sushilduseja/divine-vision/core"
)

// rrfK is the standard Reciprocal Rank Fusion damping constant. Larger
// values flatten the difference between adjacent ranks.
const rrfK = 60

// scoredList is one scorer's output, tagged with its identity and its
// fusion weight.
type scoredList struct {
	matchType core.MatchType
	weight    float64
	items     []RankedItem
}

// fuseRRF merges the ranked lists with weighted Reciprocal Rank Fusion.
//
// A verse at 0-based rank r in a list with weight w contributes
// w/(rrfK+r+1) to its fused score; contributions from different lists
// sum, joined on the verse id. Lists with weight 0 contribute nothing
// and do not mark match types, so a single remaining signal degenerates
// to that scorer's own ordering.
//
// The output contains every verse with a nonzero fused score, sorted
// descending. Ties break by first-contribution order, which makes the
// fused ranking deterministic for a fixed corpus and config. No
// truncation happens here; the orchestrator truncates after the
// optional re-rank stage so re-ranking sees a wider candidate pool.
//
// When several scorers touch the same verse, the reported match type
// follows a fixed dominance order: semantic over keyword over concept.
func fuseRRF(lists []scoredList) []*core.SearchResult {
	type fused struct {
		result *core.SearchResult
		score  float64
		order  int
		types  map[core.MatchType]bool
	}

	byID := make(map[core.ID]*fused)
	sequence := make([]*fused, 0)

	for _, list := range lists {
		if list.weight == 0 {
			continue
		}
		for rank, item := range list.items {
			id := item.Verse.Id()
			f, ok := byID[id]
			if !ok {
				f = &fused{
					result: &core.SearchResult{Verse: item.Verse},
					order:  len(sequence),
					types:  make(map[core.MatchType]bool, len(lists)),
				}
				byID[id] = f
				sequence = append(sequence, f)
			}

			f.score += list.weight / float64(rrfK+rank+1)
			f.types[list.matchType] = true

			switch list.matchType {
			case core.MatchSemantic:
				f.result.Similarity = item.Score
				f.result.SyntheticVector = item.Synthetic
			case core.MatchConcept:
				if len(item.MatchedConcepts) > 0 {
					f.result.MatchedConcepts = item.MatchedConcepts
				}
			}
		}
	}

	results := make([]*core.SearchResult, 0, len(sequence))
	for _, f := range sequence {
		if f.score == 0 {
			continue
		}
		f.result.RelevanceScore = f.score
		f.result.MatchType = dominantMatchType(f.types)
		results = append(results, f.result)
	}

	order := make(map[*core.SearchResult]int, len(sequence))
	for _, f := range sequence {
		order[f.result] = f.order
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return order[results[i]] < order[results[j]]
	})

	return results
}

// dominantMatchType picks the reported match type when several scorers
// contributed: semantic wins over keyword, keyword over concept.
func dominantMatchType(types map[core.MatchType]bool) core.MatchType {
	switch {
	case types[core.MatchSemantic]:
		return core.MatchSemantic
	case types[core.MatchKeyword]:
		return core.MatchKeyword
	case types[core.MatchConcept]:
		return core.MatchConcept
	}
	return ""
}
