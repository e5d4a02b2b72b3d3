// @title         Covtrend API
// @version       0.1.0
// @description   Coverage trend charts per repository and per organization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"covtrend/internal/modkit/repokit"
	"covtrend/internal/platform/config"
	"covtrend/internal/platform/logger"
	"covtrend/internal/platform/metrics"
	phttp "covtrend/internal/platform/net/http"
	"covtrend/internal/platform/store"

	"covtrend/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	// postgres is required, clickhouse only backs the mirror and the ch record source
	cfg := store.FromConfig(root, "covtrend", "api")
	if !cfg.PG.Enabled {
		l.Fatal().Msg("SERVICE_PGSQL_DBURL is required")
	}
	st, err := store.Open(context.Background(), cfg, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	var m *metrics.Metrics
	if apiCfg.MayBool("METRICS", true) {
		m = metrics.New()
	}

	// http server reads CORE_API_PORT and the CORE_API_*_TIMEOUT keys, modules read their own prefixes
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Metrics:        m,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	l.Info().Bool("clickhouse", cfg.CH.Enabled).Msg("covtrend-api starting")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
