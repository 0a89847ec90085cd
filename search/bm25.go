package search

import (
	"math"
	"sort"

	"github.com/sushilduseja/divine-vision/core"
)

// BM25 parameters. Standard values from the literature.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// rankKeyword scores verses against the query with BM25 and returns the
// nonzero-scoring verses sorted descending, truncated to limit.
//
// Document frequency, IDF and average document length are computed per
// call over the given verse subset, because the source filter changes
// both N and df between queries. IDF uses the +1 smoothing variant,
// ln((N - df + 0.5)/(df + 0.5) + 1), which stays non-negative for terms
// present in most documents.
func rankKeyword(query string, verses []*core.Verse, limit int) []RankedItem {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || len(verses) == 0 || limit <= 0 {
		return nil
	}

	docs := make([]map[string]int, len(verses))
	docLens := make([]int, len(verses))
	totalLen := 0
	for i, v := range verses {
		tokens := Tokenize(v.Document())
		freq := make(map[string]int, len(tokens))
		for _, t := range tokens {
			freq[t]++
		}
		docs[i] = freq
		docLens[i] = len(tokens)
		totalLen += len(tokens)
	}
	avgLen := float64(totalLen) / float64(len(verses))

	// Deduplicate query terms so repeated words do not double-count.
	seen := make(map[string]bool, len(queryTokens))
	terms := make([]string, 0, len(queryTokens))
	for _, t := range queryTokens {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	n := float64(len(verses))
	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		df := 0
		for _, doc := range docs {
			if doc[term] > 0 {
				df++
			}
		}
		idf[term] = math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1)
	}

	items := make([]RankedItem, 0, len(verses))
	for i, v := range verses {
		var score float64
		for _, term := range terms {
			freq := docs[i][term]
			if freq == 0 {
				continue
			}
			f := float64(freq)
			lengthNorm := 1 - bm25B + bm25B*(float64(docLens[i])/avgLen)
			score += idf[term] * (f * (bm25K1 + 1)) / (f + bm25K1*lengthNorm)
		}
		if score > 0 {
			items = append(items, RankedItem{Verse: v, Score: score})
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
