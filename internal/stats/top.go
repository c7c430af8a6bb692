package stats

import (
	"sort"

	"github.com/verte-zerg/kanatype/internal/model"
)

// TopCharsByFrequency returns the top N characters by occurrence count.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Occur == sorted[j].Occur {
			return sorted[i].Char < sorted[j].Char
		}
		return sorted[i].Occur > sorted[j].Occur
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for _, agg := range sorted[:n] {
		out = append(out, agg.Char)
	}
	return out
}
