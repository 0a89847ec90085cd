package search

import (
	"sort"
	"strings"

	"github.com/sushilduseja/divine-vision/core"
)

// keywordTagWeight discounts keyword-tag matches relative to concept-tag
// matches; keywords are a secondary, noisier vocabulary.
const keywordTagWeight = 0.7

// CharSimilarityFunc is the last-resort tier of the fuzzy tag matcher.
// It returns a similarity in [0,1] for two strings that share no exact,
// substring or token-level overlap. It is isolated behind this type so
// the default positional heuristic can be swapped for something like
// edit distance without touching callers.
type CharSimilarityFunc func(a, b string) float64

// PositionalCharSimilarity is the default CharSimilarityFunc: the
// fraction of positions, over the shorter string's length, where both
// strings carry the same rune. Weak typo tolerance only.
func PositionalCharSimilarity(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	minLen := len(ar)
	if len(br) < minLen {
		minLen = len(br)
	}
	if minLen == 0 {
		return 0
	}

	matching := 0
	for i := 0; i < minLen; i++ {
		if ar[i] == br[i] {
			matching++
		}
	}
	return float64(matching) / float64(minLen)
}

// fuzzyMatch scores how well a query matches one tag, in [0,1], tiered:
// exact equality 1.0, substring containment either direction 0.8,
// token overlap 0.6 scaled by the fraction of matching query tokens,
// and finally 0.3 scaled by charSim as a weak last resort.
func fuzzyMatch(query, tag string, charSim CharSimilarityFunc) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(strings.TrimSpace(tag))
	if q == "" || t == "" {
		return 0
	}

	if q == t {
		return 1.0
	}
	if strings.Contains(q, t) || strings.Contains(t, q) {
		return 0.8
	}

	queryTokens := strings.Fields(q)
	tagTokens := strings.Fields(t)
	matching := 0
	for _, qt := range queryTokens {
		for _, tt := range tagTokens {
			if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
				matching++
				break
			}
		}
	}
	if matching > 0 {
		return 0.6 * float64(matching) / float64(len(queryTokens))
	}

	if charSim != nil {
		return 0.3 * charSim(q, t)
	}
	return 0
}

// rankConcept scores verses by their best tag match against the query
// and returns the nonzero-scoring verses sorted descending, truncated
// to limit. Concept tags count at full weight, keyword tags at
// keywordTagWeight; the verse score is the larger of the two.
func rankConcept(query string, verses []*core.Verse, limit int, charSim CharSimilarityFunc) []RankedItem {
	if strings.TrimSpace(query) == "" || len(verses) == 0 || limit <= 0 {
		return nil
	}

	items := make([]RankedItem, 0, len(verses))
	for _, v := range verses {
		var conceptBest float64
		var matched []string
		for _, tag := range v.Concepts {
			score := fuzzyMatch(query, tag, charSim)
			if score > 0 {
				matched = append(matched, tag)
			}
			if score > conceptBest {
				conceptBest = score
			}
		}

		var keywordBest float64
		for _, tag := range v.Keywords {
			if score := fuzzyMatch(query, tag, charSim); score > keywordBest {
				keywordBest = score
			}
		}

		score := conceptBest
		if weighted := keywordBest * keywordTagWeight; weighted > score {
			score = weighted
		}
		if score > 0 {
			items = append(items, RankedItem{Verse: v, Score: score, MatchedConcepts: matched})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
