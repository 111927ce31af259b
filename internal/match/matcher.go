// Package match resolves image crops to catalog items by nearest-neighbor
// search over precomputed embedding variants.
package match

import (
	"context"
	"fmt"
	"image"
	"sort"

	"inventory-scanner/internal/catalog"
	"inventory-scanner/internal/encoder"
)

// Result is one ranked candidate. Score is cosine similarity (higher is
// better), grouped by base item name: the best of an item's variant
// vectors speaks for the item.
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Matcher ranks crops against the catalog through the shared encoder.
type Matcher struct {
	cat *catalog.Catalog
	svc *encoder.Service
}

// New creates a matcher over a catalog and encoder service.
func New(cat *catalog.Catalog, svc *encoder.Service) *Matcher {
	return &Matcher{cat: cat, svc: svc}
}

// MatchCrop embeds one crop and ranks the candidates against it. Encoder
// failure surfaces as an error for this region only.
func (m *Matcher) MatchCrop(ctx context.Context, crop image.Image, candidates []string) ([]Result, error) {
	enc, err := m.svc.Get(ctx)
	if err != nil {
		return nil, err
	}
	query, err := enc.Embed(crop)
	if err != nil {
		return nil, fmt.Errorf("embed crop: %w", err)
	}
	return m.Rank(query, candidates), nil
}

// Rank scores the candidate names against a query embedding and returns
// them sorted by descending similarity. An empty candidate list means the
// full catalog. Unknown names and entries without stored vectors are
// skipped, not fatal.
func (m *Matcher) Rank(query []float64, candidates []string) []Result {
	if len(candidates) == 0 {
		candidates = m.cat.Names()
	}

	results := make([]Result, 0, len(candidates))
	for _, name := range candidates {
		entry := m.cat.Get(name)
		if entry == nil {
			continue
		}
		score, ok := entry.Similarity(query)
		if !ok {
			continue
		}
		results = append(results, Result{Label: name, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
