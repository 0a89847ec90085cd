package search

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/sushilduseja/divine-vision/core"
)

// syntheticVectorDim matches the dimensionality of the default
// embedding model so synthetic and real vectors can coexist.
const syntheticVectorDim = 384

// CosineSimilarity computes dot(a,b) / (|a|*|b|). It returns 0 when the
// dimensions differ or either vector has zero magnitude; shape mismatch
// degrades to no similarity rather than an error.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankSemantic ranks verses by cosine similarity between the query
// vector and each verse's stored embedding, returning positive-scoring
// verses sorted descending, truncated to limit.
//
// Verses without a stored embedding are skipped unless synthetic
// fallback is enabled, in which case a hash-derived pseudo-vector is
// substituted and the item is flagged Synthetic. A synthetic similarity
// is a stand-in for missing data, not a genuine semantic signal.
func rankSemantic(queryVector []float32, verses []*core.Verse, records map[core.ID]*core.EmbeddingRecord, limit int, synthetic bool) []RankedItem {
	if len(queryVector) == 0 || len(verses) == 0 || limit <= 0 {
		return nil
	}

	items := make([]RankedItem, 0, len(verses))
	for _, v := range verses {
		var vector []float32
		var isSynthetic bool

		if rec, ok := records[v.Id()]; ok {
			vector = rec.Vector
		} else if synthetic {
			vector = syntheticVector(v.Document(), len(queryVector))
			isSynthetic = true
		} else {
			continue
		}

		if sim := CosineSimilarity(queryVector, vector); sim > 0 {
			items = append(items, RankedItem{Verse: v, Score: sim, Synthetic: isSynthetic})
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

// syntheticVector derives a deterministic pseudo-embedding from text.
// Same text, same vector; no semantic meaning whatsoever.
func syntheticVector(text string, dim int) []float32 {
	if dim <= 0 {
		dim = syntheticVectorDim
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}
