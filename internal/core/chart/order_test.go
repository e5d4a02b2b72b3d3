package chart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrdering_ChangesBeforeReversal(t *testing.T) {
	t.Parallel()

	pts := []AggregatedPoint{
		{Date: day(1), Stats: Stats{Coverage: decimal.NewFromInt(80)}},
		{Date: day(2), Stats: Stats{Coverage: decimal.NewFromInt(85)}},
		{Date: day(3), Stats: Stats{Coverage: decimal.NewFromInt(90)}},
	}
	got := Order(WithChanges(pts), Decreasing)

	wantDays := []int{3, 2, 1}
	wantChange := []int64{5, 5, 0}
	for i, p := range got {
		if p.Date.Day() != wantDays[i] {
			t.Fatalf("position %d day %d, want %d", i, p.Date.Day(), wantDays[i])
		}
		if !p.CoverageChange.Equal(decimal.NewFromInt(wantChange[i])) {
			t.Fatalf("day %d change %s, want %d", p.Date.Day(), p.CoverageChange, wantChange[i])
		}
	}
}

func TestOrder_Increasing(t *testing.T) {
	t.Parallel()

	in := []int{1, 2, 3}
	if got := Order(in, Increasing); got[0] != 1 || got[2] != 3 {
		t.Fatalf("increasing changed order: %v", got)
	}
	if got := Order([]int{}, Decreasing); len(got) != 0 {
		t.Fatalf("empty reversal: %v", got)
	}
}

func TestPoints_PerRepositoryChanges(t *testing.T) {
	t.Parallel()

	series := map[int64][]Bucket{
		1: {
			{Start: day(1), RepositoryID: 1, Record: rec("a", 1, day(1), 10, 5, 0)},
			{Start: day(2), RepositoryID: 1, Record: rec("a", 1, day(1), 10, 5, 0), CarriedForward: true},
			{Start: day(3), RepositoryID: 1, Record: rec("b", 1, day(3), 10, 8, 0)},
		},
		2: {
			{Start: day(2), RepositoryID: 2, Record: withComplexity(rec("z", 2, day(2), 4, 1, 0), 1, 4)},
		},
	}
	pts := Points(series, map[int64]string{1: "api", 2: "web"})
	if len(pts) != 4 {
		t.Fatalf("got %d points", len(pts))
	}
	order := []string{"api", "api", "web", "api"}
	for i, p := range pts {
		if p.Repository != order[i] {
			t.Fatalf("position %d repository %s, want %s", i, p.Repository, order[i])
		}
	}
	if !pts[1].CarriedForward || !pts[1].CoverageChange.IsZero() {
		t.Fatalf("carried point: %+v", pts[1])
	}
	if pts[3].CoverageChange.String() != "30" {
		t.Fatalf("api day 3 change = %s", pts[3].CoverageChange)
	}
	if !pts[2].CoverageChange.IsZero() || pts[2].ComplexityRatio == nil || pts[2].ComplexityRatio.String() != "0.25" {
		t.Fatalf("web point: %+v", pts[2])
	}
	if pts[0].ComplexityRatio != nil {
		t.Fatalf("zero complexity total should leave ratio nil")
	}
}

func TestStats_SharedByPointKinds(t *testing.T) {
	t.Parallel()

	series := map[int64][]Bucket{
		7: {{Start: day(1), RepositoryID: 7, Record: withComplexity(rec("a", 7, day(1), 8, 6, 1), 3, 12)}},
	}
	repo := Points(series, map[int64]string{7: "api"})[0].Stats
	org := Merge(series)[0].Stats

	if !repo.Coverage.Equal(decimal.RequireFromString("87.5")) || !repo.CoverageChange.IsZero() {
		t.Fatalf("repository stats = %+v", repo)
	}
	if repo.ComplexityRatio == nil || !repo.ComplexityRatio.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("complexity ratio = %v", repo.ComplexityRatio)
	}
	if !org.Coverage.Equal(repo.Coverage) || org.Totals != repo.Totals || !org.ComplexityRatio.Equal(*repo.ComplexityRatio) {
		t.Fatalf("single repository merge should match its points: %+v vs %+v", org, repo)
	}
}
