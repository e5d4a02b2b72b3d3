// Package coverage holds the per commit totals and the metrics derived from them
package coverage

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals are the pre aggregated counts of a single commit measurement
// hits + misses + partials == lines is expected but never enforced
type Totals struct {
	Lines           int64 `json:"lines"`
	Hits            int64 `json:"hits"`
	Misses          int64 `json:"misses"`
	Partials        int64 `json:"partials"`
	Complexity      int64 `json:"complexity"`
	ComplexityTotal int64 `json:"complexity_total"`
}

// Add returns the field wise sum of t and o
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Lines:           t.Lines + o.Lines,
		Hits:            t.Hits + o.Hits,
		Misses:          t.Misses + o.Misses,
		Partials:        t.Partials + o.Partials,
		Complexity:      t.Complexity + o.Complexity,
		ComplexityTotal: t.ComplexityTotal + o.ComplexityTotal,
	}
}

// Covered is the numerator of the coverage ratio
func (t Totals) Covered() int64 { return t.Hits + t.Partials }

// Coverage is (hits + partials) / lines as an exact percentage, zero when lines is zero
func (t Totals) Coverage() decimal.Decimal {
	if t.Lines == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(t.Covered()).
		Mul(hundred).
		DivRound(decimal.NewFromInt(t.Lines), 8)
}

// CoverageRounded is Coverage rounded half up to two places
func (t Totals) CoverageRounded() decimal.Decimal {
	return t.Coverage().Round(2)
}

// ComplexityRatio is complexity / complexity_total rounded to four places
// nil when complexity_total is zero, undefined is not the same as zero
func (t Totals) ComplexityRatio() *decimal.Decimal {
	if t.ComplexityTotal == 0 {
		return nil
	}
	r := decimal.NewFromInt(t.Complexity).DivRound(decimal.NewFromInt(t.ComplexityTotal), 4)
	return &r
}

// CompareCoverage orders a and b by coverage without any division
// returns -1, 0 or 1. zero line totals count as zero coverage
func CompareCoverage(a, b Totals) int {
	// a.covered/a.lines ? b.covered/b.lines  <=>  a.covered*b.lines ? b.covered*a.lines
	if a.Lines == 0 && b.Lines == 0 {
		return 0
	}
	if a.Lines == 0 {
		return decimal.Zero.Cmp(b.Coverage())
	}
	if b.Lines == 0 {
		return a.Coverage().Cmp(decimal.Zero)
	}
	l := decimal.NewFromInt(a.Covered()).Mul(decimal.NewFromInt(b.Lines))
	r := decimal.NewFromInt(b.Covered()).Mul(decimal.NewFromInt(a.Lines))
	return l.Cmp(r)
}

// MaybeTotals is either Present(Totals) or Absent
// the zero value is Absent, a record still being processed has no totals yet
type MaybeTotals struct {
	t  Totals
	ok bool
}

// Present wraps t as a present value
func Present(t Totals) MaybeTotals { return MaybeTotals{t: t, ok: true} }

// Absent is the missing value
func Absent() MaybeTotals { return MaybeTotals{} }

// Get returns the totals and whether they are present
func (m MaybeTotals) Get() (Totals, bool) { return m.t, m.ok }

// IsPresent reports whether totals exist
func (m MaybeTotals) IsPresent() bool { return m.ok }

// MustGet returns the totals and panics when absent
func (m MaybeTotals) MustGet() Totals {
	if !m.ok {
		panic("coverage: totals absent")
	}
	return m.t
}

// FromNullable builds MaybeTotals from nullable storage columns
// totals are fully present or fully absent, any nil lines column means absent
func FromNullable(lines, hits, misses, partials, complexity, complexityTotal *int64) MaybeTotals {
	if lines == nil || hits == nil || misses == nil || partials == nil {
		return Absent()
	}
	t := Totals{Lines: *lines, Hits: *hits, Misses: *misses, Partials: *partials}
	if complexity != nil {
		t.Complexity = *complexity
	}
	if complexityTotal != nil {
		t.ComplexityTotal = *complexityTotal
	}
	return Present(t)
}
