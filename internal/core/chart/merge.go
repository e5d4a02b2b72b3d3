package chart

import (
	"sort"
	"time"
)

// AggregatedPoint is one bucket of an organization series
type AggregatedPoint struct {
	Date         time.Time
	Repositories int

	// weighted, from summed counts
	Stats
}

// Merge sums every repository's standing record per bucket and recomputes coverage
// from the summed counts. repositories are folded in id order so output is reproducible
func Merge(series map[int64][]Bucket) []AggregatedPoint {
	ids := make([]int64, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	acc := map[int64]*AggregatedPoint{}
	for _, id := range ids {
		for _, b := range series[id] {
			k := b.Start.UnixNano()
			p, ok := acc[k]
			if !ok {
				p = &AggregatedPoint{Date: b.Start}
				acc[k] = p
			}
			p.Totals = p.Totals.Add(b.Totals())
			p.Repositories++
		}
	}

	out := make([]AggregatedPoint, 0, len(acc))
	for _, p := range acc {
		p.Stats = statsOf(p.Totals)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
