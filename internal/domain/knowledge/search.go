package knowledge

import (
	"fmt"
	"sort"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// Search projects query into the index's vector space and returns up to topK
// records scoring strictly above threshold, best first. Equal scores keep
// corpus order. An empty result means nothing was similar enough.
func (ix *Index) Search(query string, topK int, threshold float64) ([]entities.QueryMatch, error) {
	if ix == nil || ix.model == nil || len(ix.vectors) != len(ix.records) {
		return nil, ErrIndexState
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", ErrIndexState, topK)
	}

	queryVec := ix.model.Transform(query)
	if len(queryVec.Indices) == 0 {
		return nil, nil
	}

	type scored struct {
		index int
		score float64
	}

	results := make([]scored, 0, len(ix.records))
	for i, vec := range ix.vectors {
		results = append(results, scored{index: i, score: clamp(cosineSimilarity(queryVec, vec))})
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	// Take top K
	if len(results) > topK {
		results = results[:topK]
	}

	matches := make([]entities.QueryMatch, 0, len(results))
	for _, r := range results {
		if r.score <= threshold {
			break
		}
		matches = append(matches, entities.QueryMatch{
			Index:  r.index,
			Record: ix.records[r.index],
			Score:  r.score,
		})
	}
	return matches, nil
}

// clamp keeps rounding noise inside [0, 1].
func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
