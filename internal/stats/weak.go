package stats

import (
	"sort"

	"github.com/verte-zerg/romarace/internal/model"
)

// SelectWeakKeys returns the top lowest-accuracy romaji keys. Keys with fewer
// than minSamples keystrokes are skipped so one slip does not dominate.
func SelectWeakKeys(aggs []model.KeyAggregate, top, minSamples int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	candidates := make([]model.KeyAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Key == "" || agg.Key == " " || agg.Correct+agg.Incorrect < minSamples {
			continue
		}
		candidates = append(candidates, agg)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := accuracy(candidates[i]), accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Key < candidates[j].Key
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		if accuracy(agg) >= 1 {
			break
		}
		weakSet[[]rune(agg.Key)[0]] = struct{}{}
	}
	return weakSet
}

func accuracy(agg model.KeyAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
