// Package http serves the meta endpoints: liveness, readiness, build and
// chart engine settings
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"covtrend/internal/core/version"
	"covtrend/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies, PG and CH may be nil when disabled
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Engine      EngineResponse
	Now         func() time.Time
}

// readyTimeout bounds every dependency probe
const readyTimeout = 2 * time.Second

// check states reported by /ready
const (
	checkOK      = "ok"
	checkFail    = "fail"
	checkSkipped = "skipped"
	checkUnknown = "unknown"
)

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/engine", h.engine)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"covtrend-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is one dependency probe
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok" enums:"ok,fail,skipped,unknown"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
	TookMs int64  `json:"took_ms" example:"3"`
}

// ReadyResponse summarizes readiness, fail answers 503
type ReadyResponse struct {
	Status string       `json:"status" example:"ok" enums:"ok,degraded,fail"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"    example:"covtrend-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// EngineResponse reports the chart engine limits and vocabulary
type EngineResponse struct {
	RecordSource   string            `json:"record_source"    example:"pg"`
	MaxBuckets     int               `json:"max_buckets"      example:"3660"`
	GroupingUnits  []string          `json:"grouping_units"`
	AggFunctions   []string          `json:"agg_functions"`
	AggValues      []string          `json:"agg_values"`
	QueryTimeoutMs int64             `json:"query_timeout_ms" example:"30000"`
	Build          version.BuildInfo `json:"build"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Now:     stamp(h.deps.Now()),
	}, nil
}

// @Summary Readiness with dependency checks
// @Description postgres backs every chart, clickhouse only the mirror and the ch record source
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	deps := []struct {
		name string
		dep  any
	}{{"pg", h.deps.PG}, {"ch", h.deps.CH}}
	checks := make([]ReadyCheck, len(deps))
	var g errgroup.Group
	for i, d := range deps {
		g.Go(func() error {
			checks[i] = probe(ctx, d.name, d.dep)
			return nil
		})
	}
	_ = g.Wait()

	out := ReadyResponse{Status: overall(checks[0], checks[1]), Checks: checks, Now: stamp(h.deps.Now())}
	if out.Status == checkFail {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// overall folds the pg and ch checks, a skipped ch is healthy
func overall(pg, ch ReadyCheck) string {
	switch {
	case pg.Status == checkFail || ch.Status == checkFail:
		return checkFail
	case pg.Status != checkOK || ch.Status == checkUnknown:
		return "degraded"
	}
	return checkOK
}

func probe(ctx stdctx.Context, name string, dep any) ReadyCheck {
	c := ReadyCheck{Name: name}
	p, ok := dep.(Pinger)
	switch {
	case dep == nil:
		c.Status = checkSkipped
		return c
	case !ok:
		c.Status = checkUnknown
		return c
	}
	start := time.Now()
	err := p.Ping(ctx)
	c.TookMs = time.Since(start).Milliseconds()
	c.Status = checkOK
	if err != nil {
		c.Status, c.Error = checkFail, err.Error()
	}
	return c
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	now := h.deps.Now()
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary Chart engine limits and build
// @Tags Meta
// @Produce json
// @Success 200 {object} EngineResponse
// @Router /meta/engine [get]
func (h *handlers) engine(_ *http.Request) (any, error) {
	out := h.deps.Engine
	out.Build = version.Info()
	return out, nil
}
