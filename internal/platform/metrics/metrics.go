// Package metrics owns the prometheus registry and the collectors services report to
package metrics

import (
	"net/http"
	"strconv"
	"time"

	perr "covtrend/internal/platform/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "covtrend"

// Metrics is a private registry plus chart collectors
// each New call is independent so tests can build as many as they like
type Metrics struct {
	reg *prometheus.Registry

	chartQueries  *prometheus.CounterVec
	chartDuration *prometheus.HistogramVec
	chartPoints   *prometheus.HistogramVec
}

// New builds a registry with go and process collectors registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		reg: reg,
		chartQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "queries_total",
			Help:      "Chart queries by shape and outcome (ok or http status).",
		}, []string{"shape", "outcome"}),
		chartDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "query_duration_seconds",
			Help:      "Chart query latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"shape"}),
		chartPoints: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "query_points",
			Help:      "Points returned per chart query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"shape"}),
	}
	reg.MustRegister(m.chartQueries, m.chartDuration, m.chartPoints)
	return m
}

// Registry exposes the registry for extra collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the scrape endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveChart records one finished chart query
// nil receiver is a no op so callers need not guard
func (m *Metrics) ObserveChart(shape string, d time.Duration, points int, err error) {
	if m == nil {
		return
	}
	m.chartQueries.WithLabelValues(shape, Outcome(err)).Inc()
	m.chartDuration.WithLabelValues(shape).Observe(d.Seconds())
	if err == nil {
		m.chartPoints.WithLabelValues(shape).Observe(float64(points))
	}
}

// Outcome is the outcome label for err
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strconv.Itoa(perr.HTTPStatus(err))
}
