// Package chart turns per commit coverage records into bucketed trend series
//
// A query runs linearly: Validate, ApplyDefaultFilters, ApplySimpleFilters,
// Aggregate, Fill, optionally Merge, then ordering with coverage deltas
package chart

import (
	"sort"
	"strings"
	"time"
)

// GroupingUnit is the calendar unit records are bucketed by
type GroupingUnit uint8

const (
	// UnitCommit disables bucketing, every record is its own point
	UnitCommit GroupingUnit = iota + 1
	UnitDay
	UnitWeek
	UnitMonth
	UnitQuarter
	UnitYear
)

var unitNames = map[GroupingUnit]string{
	UnitCommit:  "commit",
	UnitDay:     "day",
	UnitWeek:    "week",
	UnitMonth:   "month",
	UnitQuarter: "quarter",
	UnitYear:    "year",
}

func (u GroupingUnit) String() string { return unitNames[u] }

// ParseGroupingUnit maps a wire name onto GroupingUnit
func ParseGroupingUnit(s string) (GroupingUnit, bool) { return parseEnum(unitNames, s) }

// AggFunction picks the winning record of a bucket
type AggFunction uint8

const (
	FuncMin AggFunction = iota + 1
	FuncMax
)

var funcNames = map[AggFunction]string{
	FuncMin: "min",
	FuncMax: "max",
}

func (f AggFunction) String() string { return funcNames[f] }

// ParseAggFunction maps a wire name onto AggFunction
func ParseAggFunction(s string) (AggFunction, bool) { return parseEnum(funcNames, s) }

// AggMetric is the value AggFunction compares
type AggMetric uint8

const (
	MetricCoverage AggMetric = iota + 1
	MetricComplexity
	MetricTimestamp
)

var metricNames = map[AggMetric]string{
	MetricCoverage:   "coverage",
	MetricComplexity: "complexity",
	MetricTimestamp:  "timestamp",
}

func (m AggMetric) String() string { return metricNames[m] }

// ParseAggMetric maps a wire name onto AggMetric
func ParseAggMetric(s string) (AggMetric, bool) { return parseEnum(metricNames, s) }

// Ordering is the display order of the output points
type Ordering uint8

const (
	// Increasing is oldest first, the default
	Increasing Ordering = iota + 1
	Decreasing
)

var orderingNames = map[Ordering]string{
	Increasing: "increasing",
	Decreasing: "decreasing",
}

func (o Ordering) String() string { return orderingNames[o] }

// ParseOrdering maps a wire name onto Ordering
func ParseOrdering(s string) (Ordering, bool) { return parseEnum(orderingNames, s) }

// Shape selects between per repository series and one merged series
type Shape uint8

const (
	ShapeRepository Shape = iota + 1
	ShapeOrganization
)

var shapeNames = map[Shape]string{
	ShapeRepository:   "repository",
	ShapeOrganization: "organization",
}

func (s Shape) String() string { return shapeNames[s] }

// serviceAliases maps every accepted provider spelling to its canonical name
var serviceAliases = map[string]string{
	"github":            "github",
	"gh":                "github",
	"gitlab":            "gitlab",
	"gl":                "gitlab",
	"bitbucket":         "bitbucket",
	"bb":                "bitbucket",
	"github_enterprise": "github_enterprise",
	"ghe":               "github_enterprise",
	"gitlab_enterprise": "gitlab_enterprise",
	"gle":               "gitlab_enterprise",
	"bitbucket_server":  "bitbucket_server",
	"bbs":               "bitbucket_server",
}

// DefaultService is used when a query names no provider
const DefaultService = "github"

// NormalizeService returns the canonical provider name for s
func NormalizeService(s string) (string, bool) {
	v, ok := serviceAliases[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// Params is a validated query
type Params struct {
	Owner           string
	Service         string
	RepositoryNames []string // empty means every permitted repository
	Branch          string   // empty means each repository default branch
	Start           *time.Time
	End             *time.Time
	Unit            GroupingUnit
	Function        AggFunction // zero when Unit is UnitCommit
	Metric          AggMetric   // zero when Unit is UnitCommit
	Ordering        Ordering
}

// Identity is the caller a query runs on behalf of
// the zero value is an anonymous caller
type Identity struct {
	UserID int64
}

// Anonymous reports whether no user is attached
func (i Identity) Anonymous() bool { return i.UserID == 0 }

func parseEnum[T comparable](names map[T]string, s string) (T, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range names {
		if v == s {
			return k, true
		}
	}
	var zero T
	return zero, false
}

// enumValues lists the wire names of an enum, sorted, space separated
func enumValues[T comparable](names map[T]string) string {
	out := make([]string, 0, len(names))
	for _, v := range names {
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}

func serviceValues() string {
	out := make([]string, 0, len(serviceAliases))
	for k := range serviceAliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}

// GroupingUnitNames lists grouping units from finest to coarsest
func GroupingUnitNames() []string { return orderedNames(unitNames) }

// AggFunctionNames lists aggregation functions
func AggFunctionNames() []string { return orderedNames(funcNames) }

// AggMetricNames lists aggregation metrics
func AggMetricNames() []string { return orderedNames(metricNames) }

func orderedNames[T ~uint8](names map[T]string) []string {
	keys := make([]T, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = names[k]
	}
	return out
}
