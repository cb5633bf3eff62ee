package search

import (
	"sort"

	"github.com/kailas-cloud/worldsearch/internal/domain/search/result"
)

// rank keeps one result per id (the highest-scoring), orders by score descending
// with ties broken by ascending id, and caps the list at limit.
func rank(in []result.Result, limit int) []result.Result {
	best := make(map[int64]int, len(in))
	out := make([]result.Result, 0, len(in))

	for _, r := range in {
		if i, ok := best[r.ID()]; ok {
			if r.Score() > out[i].Score() {
				out[i] = r
			}
			continue
		}
		best[r.ID()] = len(out)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score() != out[j].Score() {
			return out[i].Score() > out[j].Score()
		}
		return out[i].ID() < out[j].ID()
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
