package service

import (
	"covtrend/internal/core/chart"
	"covtrend/internal/services/api/charts/domain"

	"github.com/shopspring/decimal"
)

func toRepositoryChart(res chart.Result) domain.RepositoryChart {
	out := domain.RepositoryChart{
		QueryID:    res.ID,
		Coverage:   make([]domain.PointDTO, 0, len(res.Points)),
		Complexity: make([]domain.ComplexityPointDTO, 0, len(res.Points)),
	}
	for _, p := range res.Points {
		out.Coverage = append(out.Coverage, domain.PointDTO{
			Date:            p.Date,
			RepositoryID:    p.RepositoryID,
			Repository:      p.Repository,
			CommitID:        p.CommitID,
			Branch:          p.Branch,
			CommitTimestamp: p.CommitTimestamp,
			CarriedForward:  p.CarriedForward,
			TotalLines:      p.Totals.Lines,
			TotalHits:       p.Totals.Hits,
			TotalMisses:     p.Totals.Misses,
			TotalPartials:   p.Totals.Partials,
			Coverage:        p.Coverage.InexactFloat64(),
			CoverageChange:  p.CoverageChange.InexactFloat64(),
		})
		out.Complexity = append(out.Complexity, domain.ComplexityPointDTO{
			Date:            p.Date,
			RepositoryID:    p.RepositoryID,
			Repository:      p.Repository,
			CommitID:        p.CommitID,
			Complexity:      p.Totals.Complexity,
			ComplexityTotal: p.Totals.ComplexityTotal,
			ComplexityRatio: ratio(p.ComplexityRatio),
		})
	}
	return out
}

func toOrganizationChart(res chart.Result) domain.OrganizationChart {
	out := domain.OrganizationChart{
		QueryID:  res.ID,
		Coverage: make([]domain.AggregatedPointDTO, 0, len(res.Aggregated)),
	}
	for _, p := range res.Aggregated {
		out.Coverage = append(out.Coverage, domain.AggregatedPointDTO{
			Date:                 p.Date,
			RepositoryCount:      p.Repositories,
			TotalLines:           p.Totals.Lines,
			TotalHits:            p.Totals.Hits,
			TotalMisses:          p.Totals.Misses,
			TotalPartials:        p.Totals.Partials,
			WeightedCoverage:     p.Coverage.InexactFloat64(),
			CoverageChange:       p.CoverageChange.InexactFloat64(),
			TotalComplexity:      p.Totals.Complexity,
			TotalComplexityTotal: p.Totals.ComplexityTotal,
			ComplexityRatio:      ratio(p.ComplexityRatio),
		})
	}
	return out
}

func ratio(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
