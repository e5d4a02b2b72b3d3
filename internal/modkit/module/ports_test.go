package module

import (
	"testing"

	"covtrend/internal/modkit/httpkit"
	"covtrend/internal/platform/testkit"
)

// limitsPort and sourcePort mirror the shape of the charts settings port
type limitsPort interface{ MaxBuckets() int }

type sourcePort interface{ Source() string }

type limits int

func (l limits) MaxBuckets() int { return int(l) }

type source string

func (s source) Source() string { return string(s) }

// chartsLike is a module double exporting a ports bundle
type chartsLike struct {
	name    string
	ports   any
	mounted int
}

func (m *chartsLike) Name() string                 { return m.name }
func (m *chartsLike) Ports() PortSet               { return m.ports }
func (m *chartsLike) MountRoutes(r httpkit.Router) { m.mounted++ }

var _ Module = (*chartsLike)(nil)

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Limits limitsPort
		Source sourcePort
		Prefix string
	}
	type hidden struct {
		limits limitsPort
	}

	cases := []struct {
		name    string
		ports   any
		wantOK  bool
		wantMax int
	}{
		{name: "nil ports", ports: nil},
		{name: "value implements the port", ports: limits(1000), wantOK: true, wantMax: 1000},
		{name: "exported bundle field", ports: bundle{Limits: limits(90), Source: source("ch"), Prefix: "/charts"}, wantOK: true, wantMax: 90},
		{name: "unexported field is skipped", ports: hidden{limits: limits(5)}},
		{name: "unrelated value", ports: "charts"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[limitsPort](&chartsLike{name: "charts", ports: tc.ports})
			if ok != tc.wantOK {
				t.Fatalf("ok=%v want %v", ok, tc.wantOK)
			}
			if ok && got.MaxBuckets() != tc.wantMax {
				t.Fatalf("MaxBuckets=%d want %d", got.MaxBuckets(), tc.wantMax)
			}
		})
	}
}

func TestPortsOf_PicksFieldByType(t *testing.T) {
	t.Parallel()

	m := &chartsLike{name: "charts", ports: struct {
		Limits limitsPort
		Source sourcePort
	}{limits(30), source("pg")}}

	src, ok := PortsOf[sourcePort](m)
	if !ok || src.Source() != "pg" {
		t.Fatalf("source port = %v,%v", src, ok)
	}
	if m.mounted != 0 {
		t.Fatalf("port lookup must not mount routes")
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	m := &chartsLike{name: "charts", ports: limits(365)}
	if got := MustPortsOf[limitsPort](m); got.MaxBuckets() != 365 {
		t.Fatalf("MaxBuckets=%d", got.MaxBuckets())
	}

	testkit.MustPanicWith(t, func() { _ = MustPortsOf[sourcePort](m) }, "charts", "requested port not found")
	testkit.MustPanicWith(t, func() { _ = MustPortsOf[limitsPort](&chartsLike{name: "meta"}) }, "meta")
}
