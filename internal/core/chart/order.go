package chart

import (
	"sort"
	"time"

	"covtrend/internal/core/coverage"

	"github.com/shopspring/decimal"
)

// Stats are the coverage figures shared by repository and organization points
type Stats struct {
	Totals          coverage.Totals
	Coverage        decimal.Decimal
	CoverageChange  decimal.Decimal
	ComplexityRatio *decimal.Decimal
}

// statsOf derives coverage and complexity from t, the change is left at zero
func statsOf(t coverage.Totals) Stats {
	return Stats{Totals: t, Coverage: t.CoverageRounded(), ComplexityRatio: t.ComplexityRatio()}
}

// Point is one bucket of one repository
type Point struct {
	Date            time.Time
	RepositoryID    int64
	Repository      string
	CommitID        string
	Branch          string
	CommitTimestamp time.Time
	CarriedForward  bool
	Stats
}

// Points flattens per repository series into points sorted by date then repository id
// coverage changes are computed per repository in chronological order
func Points(series map[int64][]Bucket, names map[int64]string) []Point {
	var out []Point
	for id, bs := range series {
		prev := decimal.Zero
		for i, b := range bs {
			p := Point{
				Date:            b.Start,
				RepositoryID:    id,
				Repository:      names[id],
				CommitID:        b.Record.ID,
				Branch:          b.Record.Branch,
				CommitTimestamp: b.Record.Timestamp,
				CarriedForward:  b.CarriedForward,
				Stats:           statsOf(b.Totals()),
			}
			if i > 0 {
				p.CoverageChange = p.Coverage.Sub(prev)
			}
			prev = p.Coverage
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].RepositoryID != out[j].RepositoryID {
			return out[i].RepositoryID < out[j].RepositoryID
		}
		return out[i].CommitID < out[j].CommitID
	})
	return out
}

// WithChanges sets coverage deltas on points already sorted oldest first
// the first point always has a zero change
func WithChanges(points []AggregatedPoint) []AggregatedPoint {
	for i := range points {
		if i == 0 {
			points[i].CoverageChange = decimal.Zero
			continue
		}
		points[i].CoverageChange = points[i].Coverage.Sub(points[i-1].Coverage)
	}
	return points
}

// Order applies the display ordering to points sorted oldest first
// deltas are attached before this runs so they never depend on display order
func Order[T any](points []T, o Ordering) []T {
	if o != Decreasing {
		return points
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}
