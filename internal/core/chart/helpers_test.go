package chart

import (
	"time"

	"covtrend/internal/core/coverage"
)

func day(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }

func rec(id string, repo int64, ts time.Time, lines, hits, partials int64) coverage.Record {
	return coverage.Record{
		ID:           id,
		RepositoryID: repo,
		Branch:       "main",
		Timestamp:    ts,
		State:        coverage.StateComplete,
		CIPassed:     true,
		Totals: coverage.Present(coverage.Totals{
			Lines:    lines,
			Hits:     hits,
			Partials: partials,
			Misses:   lines - hits - partials,
		}),
	}
}

func withComplexity(r coverage.Record, c, n int64) coverage.Record {
	t := r.Totals.MustGet()
	t.Complexity, t.ComplexityTotal = c, n
	r.Totals = coverage.Present(t)
	return r
}
