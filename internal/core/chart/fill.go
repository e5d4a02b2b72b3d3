package chart

import (
	"time"

	"covtrend/internal/core/coverage"
)

// Fill lays one repository's buckets over grid
// a grid slot without a bucket inherits the last standing record, seed stands before the first bucket
// nothing is emitted until a record is known, so a repository with no records yields nothing
func Fill(repo int64, buckets []Bucket, seed *coverage.Record, grid []time.Time) []Bucket {
	out := make([]Bucket, 0, len(grid))
	last := seed
	i := 0
	for _, g := range grid {
		for i < len(buckets) && buckets[i].Start.Before(g) {
			rec := buckets[i].Record
			last = &rec
			i++
		}
		if i < len(buckets) && buckets[i].Start.Equal(g) {
			out = append(out, buckets[i])
			rec := buckets[i].Record
			last = &rec
			i++
			continue
		}
		if last == nil {
			continue
		}
		out = append(out, Bucket{Start: g, RepositoryID: repo, Record: *last, CarriedForward: true})
	}
	return out
}

// latestPerRepository keeps the newest valid record of each repository
func latestPerRepository(records []coverage.Record) map[int64]*coverage.Record {
	out := map[int64]*coverage.Record{}
	for _, r := range records {
		cur, ok := out[r.RepositoryID]
		if !ok || r.Timestamp.After(cur.Timestamp) {
			rec := r
			out[r.RepositoryID] = &rec
		}
	}
	return out
}
