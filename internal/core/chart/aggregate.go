package chart

import (
	"sort"
	"strings"
	"time"

	"covtrend/internal/core/coverage"
)

// Bucket is the record standing for one repository in one time bucket
type Bucket struct {
	Start          time.Time
	RepositoryID   int64
	Record         coverage.Record
	CarriedForward bool
}

// Totals of the standing record, records reaching a bucket always carry totals
func (b Bucket) Totals() coverage.Totals {
	t, _ := b.Record.Totals.Get()
	return t
}

// Aggregate groups records per repository and bucket and keeps one winner per group
// with UnitCommit every record is its own bucket. buckets come back sorted by Start
func Aggregate(records []coverage.Record, u GroupingUnit, fn AggFunction, m AggMetric) map[int64][]Bucket {
	out := map[int64][]Bucket{}
	if u == UnitCommit {
		for _, r := range records {
			out[r.RepositoryID] = append(out[r.RepositoryID], Bucket{Start: r.Timestamp.UTC(), RepositoryID: r.RepositoryID, Record: r})
		}
		for id := range out {
			bs := out[id]
			sort.SliceStable(bs, func(i, j int) bool {
				if !bs[i].Start.Equal(bs[j].Start) {
					return bs[i].Start.Before(bs[j].Start)
				}
				return bs[i].Record.ID < bs[j].Record.ID
			})
		}
		return out
	}

	type key struct {
		repo  int64
		start int64
	}
	winners := map[key]Bucket{}
	for _, r := range records {
		start := Truncate(r.Timestamp, u)
		k := key{repo: r.RepositoryID, start: start.UnixNano()}
		cur, seen := winners[k]
		if !seen || beats(fn, m, r, cur.Record) {
			winners[k] = Bucket{Start: start, RepositoryID: r.RepositoryID, Record: r}
		}
	}
	for k, b := range winners {
		out[k.repo] = append(out[k.repo], b)
	}
	for id := range out {
		bs := out[id]
		sort.Slice(bs, func(i, j int) bool { return bs[i].Start.Before(bs[j].Start) })
	}
	return out
}

// beats reports whether cand should replace cur as a bucket winner
// max ties go to the later record, min ties to the earlier one, the id settles the rest
func beats(fn AggFunction, m AggMetric, cand, cur coverage.Record) bool {
	c := compareMetric(m, cand, cur)
	if c == 0 {
		c = cand.Timestamp.Compare(cur.Timestamp)
		if c == 0 {
			c = strings.Compare(cand.ID, cur.ID)
		}
	}
	if fn == FuncMin {
		return c < 0
	}
	return c > 0
}

func compareMetric(m AggMetric, a, b coverage.Record) int {
	at, _ := a.Totals.Get()
	bt, _ := b.Totals.Get()
	switch m {
	case MetricCoverage:
		return coverage.CompareCoverage(at, bt)
	case MetricComplexity:
		switch {
		case at.Complexity < bt.Complexity:
			return -1
		case at.Complexity > bt.Complexity:
			return 1
		}
		return 0
	case MetricTimestamp:
		return a.Timestamp.Compare(b.Timestamp)
	}
	return 0
}
