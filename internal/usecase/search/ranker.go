package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/atlant-labs/prodex/internal/domain"
)

// Rank scores items against the query vector by cosine similarity and returns
// the top k results in descending score order. Ties keep corpus order
// (stable sort). An empty item set yields an empty result, not an error.
// A query/item dimensionality mismatch is a configuration error and fails loudly.
func Rank(query []float32, items []domain.Item, k int) ([]domain.ScoredResult, error) {
	if len(items) == 0 || k <= 0 {
		return []domain.ScoredResult{}, nil
	}

	results := make([]domain.ScoredResult, 0, len(items))
	for i := range items {
		if len(items[i].Vector) != len(query) {
			return nil, fmt.Errorf("item %q has dimension %d, query has %d: %w",
				items[i].ID, len(items[i].Vector), len(query), domain.ErrVectorDimMismatch)
		}
		results = append(results, domain.ScoredResult{
			Item:  items[i],
			Score: cosine(query, items[i].Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// cosine computes the cosine similarity of two equal-length vectors.
// A zero-magnitude vector yields similarity 0. Accumulation is done in
// float64 to limit rounding drift over long vectors.
func cosine(a, b []float32) float64 {
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
