// Package module wires charts into the API using modkit
package module

import (
	"net/http"
	"strings"

	modkit "covtrend/internal/modkit"
	"covtrend/internal/modkit/httpkit"
	str "covtrend/internal/platform/strings"
	chartshttp "covtrend/internal/services/api/charts/http"
	chartsrepo "covtrend/internal/services/api/charts/repo"
	chartssvc "covtrend/internal/services/api/charts/service"
)

// Module implements the charts module
type Module struct {
	built modkit.Built
	mws   []func(http.Handler) http.Handler
	ports Ports
	svc   chartssvc.Service
}

// New constructs the charts module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("charts"), modkit.WithPrefix("/charts")}, opts...)...)
	cfg := FromConfig(deps.Cfg)

	svcOpts := chartssvc.Options{
		MaxBuckets:   cfg.MaxBuckets,
		Concurrency:  cfg.Concurrency,
		QueryTimeout: cfg.QueryTimeout,
		Metrics:      deps.Metrics,
	}
	if deps.CH != nil {
		ch := chartsrepo.NewCH(deps.CH)
		svcOpts.Mirror = ch
		if strings.EqualFold(cfg.RecordSource, SourceCH) {
			svcOpts.Records = ch
		}
	} else if strings.EqualFold(cfg.RecordSource, SourceCH) {
		deps.Log.Warn().Msg("charts: CHART_RECORD_SOURCE=ch without clickhouse, reading postgres")
	}
	svc := chartssvc.New(deps.PG, chartsrepo.NewPG(), svcOpts)

	return &Module{
		built: b,
		// identity before admission so rejected callers never queue
		mws: append([]func(http.Handler) http.Handler{
			httpkit.Auth(httpkit.NewHeaderPort(cfg.IdentityHeader)),
			httpkit.JSONOnly(),
			httpkit.Limit(cfg.MaxInflight, cfg.Backlog, cfg.BacklogWait),
		}, b.Mw...),
		ports: Ports{Charts: adaptChartsPort{svc: svc}, Settings: settings(cfg)},
		svc:   svc,
	}
}

// MountRoutes mounts the chart endpoints under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, m.mws, func(rr httpkit.Router) { chartshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
