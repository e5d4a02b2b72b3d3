package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "covtrend/internal/platform/errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{perr.Validation(map[string][]string{"grouping_unit": {"required field"}}), "400"},
		{perr.NotFoundf("owner"), "404"},
		{perr.Upstreamf("db down"), "502"},
		{errors.New("plain"), "500"},
	}
	for _, c := range cases {
		if got := Outcome(c.err); got != c.want {
			t.Fatalf("Outcome(%v)=%s want %s", c.err, got, c.want)
		}
	}
}

func TestObserveChart_Counts(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveChart("organization", 20*time.Millisecond, 12, nil)
	m.ObserveChart("organization", time.Millisecond, 0, perr.NotFoundf("owner"))

	if got := testutil.ToFloat64(m.chartQueries.WithLabelValues("organization", "ok")); got != 1 {
		t.Fatalf("ok count=%v", got)
	}
	if got := testutil.ToFloat64(m.chartQueries.WithLabelValues("organization", "404")); got != 1 {
		t.Fatalf("404 count=%v", got)
	}
}

func TestObserveChart_NilReceiver(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveChart("repository", time.Second, 1, nil)
}

func TestHandler_Serves(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveChart("repository", time.Millisecond, 3, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status=%d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "covtrend_chart_queries_total") {
		t.Fatalf("missing chart counter in scrape output")
	}
}
