// Package domain holds DTOs for chart http and service contracts
package domain

import (
	"encoding/json"
	"time"
)

// ChartInput is a raw chart request
// Params carries the unvalidated body, Service and Owner come from the path
type ChartInput struct {
	Service string         `json:"-"`
	Owner   string         `json:"-"`
	UserID  int64          `json:"-"`
	Params  map[string]any `json:"params"`
}

// PointDTO is one bucket of one repository
type PointDTO struct {
	Date            time.Time `json:"date" example:"2026-03-01T00:00:00Z"`
	RepositoryID    int64     `json:"repository_id" example:"12"`
	Repository      string    `json:"repository" example:"api"`
	CommitID        string    `json:"commitid" example:"4e1f0c2"`
	Branch          string    `json:"branch" example:"main"`
	CommitTimestamp time.Time `json:"commit_timestamp"`
	CarriedForward  bool      `json:"carried_forward"`
	TotalLines      int64     `json:"total_lines" example:"1012"`
	TotalHits       int64     `json:"total_hits" example:"601"`
	TotalMisses     int64     `json:"total_misses" example:"323"`
	TotalPartials   int64     `json:"total_partials" example:"88"`
	Coverage        float64   `json:"coverage" example:"68.08"`
	CoverageChange  float64   `json:"coverage_change" example:"1.5"`
}

// ComplexityPointDTO is the complexity view of a repository point
type ComplexityPointDTO struct {
	Date            time.Time `json:"date"`
	RepositoryID    int64     `json:"repository_id"`
	Repository      string    `json:"repository"`
	CommitID        string    `json:"commitid"`
	Complexity      int64     `json:"complexity" example:"40"`
	ComplexityTotal int64     `json:"complexity_total" example:"100"`
	ComplexityRatio *float64  `json:"complexity_ratio" example:"0.4"`
}

// AggregatedPointDTO is one bucket of an organization series
type AggregatedPointDTO struct {
	Date                 time.Time `json:"date"`
	RepositoryCount      int       `json:"repository_count" example:"2"`
	TotalLines           int64     `json:"total_lines"`
	TotalHits            int64     `json:"total_hits"`
	TotalMisses          int64     `json:"total_misses"`
	TotalPartials        int64     `json:"total_partials"`
	WeightedCoverage     float64   `json:"weighted_coverage" example:"89.66"`
	CoverageChange       float64   `json:"coverage_change"`
	TotalComplexity      int64     `json:"total_complexity"`
	TotalComplexityTotal int64     `json:"total_complexity_total"`
	ComplexityRatio      *float64  `json:"complexity_ratio"`
}

// RepositoryChart is the per repository response
type RepositoryChart struct {
	QueryID    string               `json:"query_id" example:"5b0c8f9e-3c1f-4a53-9a57-0c6c8f8f2e10"`
	Coverage   []PointDTO           `json:"coverage"`
	Complexity []ComplexityPointDTO `json:"complexity"`
}

// OrganizationChart is the merged organization response
type OrganizationChart struct {
	QueryID  string               `json:"query_id"`
	Coverage []AggregatedPointDTO `json:"coverage"`
}

// ChartBody is the raw request body, a flat parameter map
type ChartBody struct {
	Params map[string]any
}

// UnmarshalJSON decodes the whole body as the parameter map
func (b *ChartBody) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.Params)
}
