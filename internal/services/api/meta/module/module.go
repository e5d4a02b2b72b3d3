// Package module mounts the meta endpoints
package module

import (
	"net/http"
	"time"

	"covtrend/internal/core/chart"
	"covtrend/internal/core/version"
	modkit "covtrend/internal/modkit"
	"covtrend/internal/modkit/httpkit"
	str "covtrend/internal/platform/strings"
	chartsmod "covtrend/internal/services/api/charts/module"

	metahttp "covtrend/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs the meta module
// chart settings come from a charts SettingsPort passed with WithPorts,
// otherwise they are read from config
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	charts := chartsmod.FromConfig(deps.Cfg)
	if sp, ok := b.Ports.(chartsmod.SettingsPort); ok {
		charts = sp.Settings()
	}
	return &Module{
		built: b,
		deps: metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   time.Now(),
			PG:          deps.PG,
			CH:          deps.CH,
			Engine:      engineInfo(charts),
		},
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, m.built.Mw, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// Ports implements the modkit.Module interface, meta exports none
func (m *Module) Ports() any { return nil }

func engineInfo(o chartsmod.Options) metahttp.EngineResponse {
	return metahttp.EngineResponse{
		RecordSource:   o.RecordSource,
		MaxBuckets:     o.MaxBuckets,
		GroupingUnits:  chart.GroupingUnitNames(),
		AggFunctions:   chart.AggFunctionNames(),
		AggValues:      chart.AggMetricNames(),
		QueryTimeoutMs: o.QueryTimeout.Milliseconds(),
	}
}
