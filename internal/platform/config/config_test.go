package config

import (
	"reflect"
	"testing"
	"time"

	kit "covtrend/internal/platform/testkit"
)

func TestPrefix_Nests(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("CHART_")
	if got := c.key("MAX_BUCKETS"); got != "CORE_CHART_MAX_BUCKETS" {
		t.Fatalf("key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("PG_")
	t.Setenv("PG_DSN", "  postgres://covtrend@db/covtrend ")
	if got := c.MustString("DSN"); got != "postgres://covtrend@db/covtrend" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMay_ValuesAndFallbacks(t *testing.T) {
	c := New().Prefix("CHART_")
	t.Setenv("CHART_MAX_BUCKETS", " 366 ")
	t.Setenv("CHART_CONCURRENCY", "many")
	t.Setenv("CHART_QUERY_TIMEOUT", "150ms")
	t.Setenv("CHART_BACKLOG_WAIT", "soon")
	t.Setenv("CHART_MIRROR", "true")
	t.Setenv("CHART_PROFILER", "nope")
	t.Setenv("CHART_OWNER", " codecov ")

	if got := c.MayInt("MAX_BUCKETS", 1000); got != 366 {
		t.Fatalf("MAX_BUCKETS = %d", got)
	}
	if got := c.MayInt("CONCURRENCY", 8); got != 8 {
		t.Fatalf("bad CONCURRENCY should fall back, got %d", got)
	}
	if got := c.MayInt("MISSING", 4); got != 4 {
		t.Fatalf("missing int = %d", got)
	}
	if got := c.MayDuration("QUERY_TIMEOUT", time.Second); got != 150*time.Millisecond {
		t.Fatalf("QUERY_TIMEOUT = %v", got)
	}
	if got := c.MayDuration("BACKLOG_WAIT", time.Minute); got != time.Minute {
		t.Fatalf("bad BACKLOG_WAIT should fall back, got %v", got)
	}
	if !c.MayBool("MIRROR", false) || c.MayBool("PROFILER", false) || !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayString("OWNER", "x"); got != "codecov" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORE_API_")
	def := []string{"http://localhost:3000"}
	if got := c.MayCSV("CORS_ORIGINS", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("default = %#v", got)
	}
	t.Setenv("CORE_API_CORS_ORIGINS", " https://a.example, https://b.example , ,,")
	if got, want := c.MayCSV("CORS_ORIGINS", nil), []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	t.Setenv("CORE_API_CORS_ORIGINS", " , ,  ,")
	if got := c.MayCSV("CORS_ORIGINS", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("all empty should fall back, got %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("CHART_")
	if got := c.MayEnum("RECORD_SOURCE", "pg", "pg", "ch"); got != "pg" {
		t.Fatalf("default = %q", got)
	}
	if got := c.MayEnum("MISSING", "", "pg", "ch"); got != "" {
		t.Fatalf("empty default = %q", got)
	}
	t.Setenv("CHART_RECORD_SOURCE", "CH")
	if got := c.MayEnum("RECORD_SOURCE", "pg", "pg", "ch"); got != "CH" {
		t.Fatalf("allowed = %q", got)
	}
	t.Setenv("CHART_RECORD_SOURCE", "mysql")
	kit.MustPanic(t, func() { _ = c.MayEnum("RECORD_SOURCE", "pg", "pg", "ch") })
}
