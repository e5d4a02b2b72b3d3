// Package api provides the HTTP API for the application
package api

import (
	"covtrend/internal/platform/config"
	"covtrend/internal/platform/logger"
	"covtrend/internal/platform/metrics"
	phttp "covtrend/internal/platform/net/http"
	"covtrend/internal/platform/store"

	"covtrend/internal/modkit"
	"covtrend/internal/modkit/httpkit"
	"covtrend/internal/modkit/module"
	"covtrend/internal/modkit/swaggerkit"

	chartsmod "covtrend/internal/services/api/charts/module"
	metamod "covtrend/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		PG:      opt.Store.PG,
		CH:      opt.Store.CH,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	charts := chartsmod.New(deps)
	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(module.MustPortsOf[chartsmod.SettingsPort](charts))),
		charts,
	}

	// scrape endpoint lives outside the versioned api and its middleware
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	// versioned API with a common middleware stack
	origins := opt.Config.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil)
	httpkit.MountAPIV1(r, httpkit.CommonStack(origins), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
