package stats

import (
	"sort"

	"github.com/verte-zerg/kanatype/internal/model"
)

// SelectWeakChars selects the lowest-accuracy characters from aggregates.
// Characters with equal accuracy are ordered by slower mean time.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Occur > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, ti := CharMetrics(candidates[i])
		aj, tj := CharMetrics(candidates[j])
		if ai != aj {
			return ai < aj
		}
		if ti != tj {
			return ti > tj
		}
		return candidates[i].Char < candidates[j].Char
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].Char)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}
