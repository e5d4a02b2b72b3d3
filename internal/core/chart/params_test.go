package chart

import (
	"reflect"
	"testing"
)

func TestParseEnums_Names(t *testing.T) {
	t.Parallel()

	if u, ok := ParseGroupingUnit(" Quarter "); !ok || u != UnitQuarter {
		t.Fatalf("ParseGroupingUnit=%v,%v", u, ok)
	}
	if _, ok := ParseGroupingUnit("fortnight"); ok {
		t.Fatalf("fortnight should not parse")
	}
	if f, ok := ParseAggFunction("MAX"); !ok || f != FuncMax {
		t.Fatalf("ParseAggFunction=%v,%v", f, ok)
	}
	if m, ok := ParseAggMetric("timestamp"); !ok || m != MetricTimestamp {
		t.Fatalf("ParseAggMetric=%v,%v", m, ok)
	}
}

func TestNormalizeService(t *testing.T) {
	t.Parallel()

	cases := map[string]string{"gh": "github", "GL": "gitlab", "bitbucket": "bitbucket", "bbs": "bitbucket_server"}
	for in, want := range cases {
		got, ok := NormalizeService(in)
		if !ok || got != want {
			t.Fatalf("NormalizeService(%q)=%q,%v want %q", in, got, ok, want)
		}
	}
	if _, ok := NormalizeService("sourceforge"); ok {
		t.Fatalf("unknown provider should not normalize")
	}
}

func TestNames_Ordered(t *testing.T) {
	t.Parallel()

	want := []string{"commit", "day", "week", "month", "quarter", "year"}
	if got := GroupingUnitNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupingUnitNames=%v", got)
	}
	if got := AggFunctionNames(); !reflect.DeepEqual(got, []string{"min", "max"}) {
		t.Fatalf("AggFunctionNames=%v", got)
	}
	if got := AggMetricNames(); !reflect.DeepEqual(got, []string{"coverage", "complexity", "timestamp"}) {
		t.Fatalf("AggMetricNames=%v", got)
	}
}

func TestIdentity_Anonymous(t *testing.T) {
	t.Parallel()

	if !(Identity{}).Anonymous() || (Identity{UserID: 3}).Anonymous() {
		t.Fatalf("Anonymous mismatch")
	}
}
