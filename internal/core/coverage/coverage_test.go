package coverage

import (
	"testing"
)

func TestCoverage_ZeroLines(t *testing.T) {
	t.Parallel()

	if got := (Totals{}).Coverage(); !got.IsZero() {
		t.Fatalf("Coverage on zero lines = %s, want 0", got)
	}
}

func TestCoverageRounded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Totals
		want string
	}{
		{Totals{Lines: 145, Hits: 114, Partials: 16}, "89.66"},
		{Totals{Lines: 3, Hits: 1}, "33.33"},
		{Totals{Lines: 3, Hits: 2}, "66.67"},
		{Totals{Lines: 8, Hits: 8}, "100"},
	}
	for _, c := range cases {
		if got := c.in.CoverageRounded().String(); got != c.want {
			t.Fatalf("CoverageRounded(%+v) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestComplexityRatio(t *testing.T) {
	t.Parallel()

	if r := (Totals{Complexity: 3}).ComplexityRatio(); r != nil {
		t.Fatalf("ComplexityRatio with zero total = %s, want nil", r)
	}
	r := (Totals{Complexity: 1, ComplexityTotal: 3}).ComplexityRatio()
	if r == nil || r.String() != "0.3333" {
		t.Fatalf("ComplexityRatio = %v, want 0.3333", r)
	}
}

func TestAdd_CommutativeAssociative(t *testing.T) {
	t.Parallel()

	a := Totals{Lines: 120, Hits: 100, Partials: 10, Misses: 10, Complexity: 2, ComplexityTotal: 5}
	b := Totals{Lines: 25, Hits: 14, Partials: 6, Misses: 5}
	c := Totals{Lines: 7, Hits: 7}

	if a.Add(b) != b.Add(a) {
		t.Fatalf("Add not commutative")
	}
	if a.Add(b).Add(c) != a.Add(b.Add(c)) {
		t.Fatalf("Add not associative")
	}
	got := a.Add(b)
	want := Totals{Lines: 145, Hits: 114, Partials: 16, Misses: 15, Complexity: 2, ComplexityTotal: 5}
	if got != want {
		t.Fatalf("Add = %+v, want %+v", got, want)
	}
}

func TestCompareCoverage(t *testing.T) {
	t.Parallel()

	half := Totals{Lines: 4, Hits: 2}
	alsoHalf := Totals{Lines: 10, Hits: 4, Partials: 1}
	most := Totals{Lines: 10, Hits: 9}
	empty := Totals{}

	cases := []struct {
		name string
		a, b Totals
		want int
	}{
		{"equal ratios", half, alsoHalf, 0},
		{"less", half, most, -1},
		{"greater", most, half, 1},
		{"both empty", empty, empty, 0},
		{"empty vs some", empty, half, -1},
		{"some vs empty", half, empty, 1},
		{"empty vs zero hits", empty, Totals{Lines: 5}, 0},
	}
	for _, c := range cases {
		if got := CompareCoverage(c.a, c.b); got != c.want {
			t.Fatalf("%s: CompareCoverage = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestMaybeTotals(t *testing.T) {
	t.Parallel()

	var zero MaybeTotals
	if zero.IsPresent() {
		t.Fatalf("zero MaybeTotals should be absent")
	}
	if _, ok := Absent().Get(); ok {
		t.Fatalf("Absent().Get ok = true")
	}
	p := Present(Totals{Lines: 1})
	if got, ok := p.Get(); !ok || got.Lines != 1 {
		t.Fatalf("Present().Get = %+v,%v", got, ok)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("MustGet on absent did not panic")
		}
	}()
	_ = Absent().MustGet()
}

func TestFromNullable(t *testing.T) {
	t.Parallel()

	n := func(v int64) *int64 { return &v }

	if FromNullable(nil, n(1), n(0), n(0), nil, nil).IsPresent() {
		t.Fatalf("nil lines should be absent")
	}
	m := FromNullable(n(10), n(7), n(2), n(1), nil, n(4))
	got, ok := m.Get()
	if !ok {
		t.Fatalf("expected present totals")
	}
	want := Totals{Lines: 10, Hits: 7, Misses: 2, Partials: 1, ComplexityTotal: 4}
	if got != want {
		t.Fatalf("FromNullable = %+v, want %+v", got, want)
	}
}

func TestParseState_AndValid(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StatePending, StateComplete, StateError} {
		got, err := ParseState(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseState(%q) = %v,%v", s.String(), got, err)
		}
	}
	if _, err := ParseState("done"); err == nil {
		t.Fatalf("ParseState accepted unknown state")
	}

	ok := Record{State: StateComplete, CIPassed: true, Totals: Present(Totals{Lines: 1})}
	if !ok.Valid() {
		t.Fatalf("complete record should be valid")
	}
	bad := []Record{
		{State: StatePending, CIPassed: true, Totals: Present(Totals{})},
		{State: StateComplete, Deleted: true, CIPassed: true, Totals: Present(Totals{})},
		{State: StateComplete, CIPassed: false, Totals: Present(Totals{})},
		{State: StateComplete, CIPassed: true},
	}
	for i, r := range bad {
		if r.Valid() {
			t.Fatalf("record %d should be invalid", i)
		}
	}
}
