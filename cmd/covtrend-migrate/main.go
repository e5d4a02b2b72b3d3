package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"covtrend/internal/platform/config"
	"covtrend/internal/platform/logger"
	"covtrend/internal/platform/store"
	"covtrend/internal/platform/store/migrations"
	chartsrepo "covtrend/internal/services/api/charts/repo"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: covtrend-migrate [--clickhouse] up|down|version|to <n>\n")
	flag.PrintDefaults()
}

func main() {
	withCH := flag.Bool("clickhouse", false, "also create the clickhouse mirror table")
	flag.Usage = usage
	flag.Parse()

	cfg := store.FromConfig(config.New(), "covtrend", "migrate")
	l := logger.Named("migrate")

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if !cfg.PG.Enabled {
		l.Fatal().Msg("SERVICE_PGSQL_DBURL is required")
	}
	m, err := migrations.New(cfg.PG.URL)
	if err != nil {
		l.Fatal().Err(err).Msg("open migrator")
	}
	defer func() {
		if err := m.Close(); err != nil {
			l.Error().Err(err).Msg("close migrator")
		}
	}()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "to":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		v, convErr := strconv.ParseUint(args[1], 10, 32)
		if convErr != nil {
			l.Fatal().Err(convErr).Str("version", args[1]).Msg("bad version")
		}
		err = m.To(uint(v))
	case "version":
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal().Err(err).Str("cmd", args[0]).Msg("migration failed")
	}

	v, dirty, err := m.Version()
	if err != nil {
		l.Fatal().Err(err).Msg("read version")
	}
	l.Info().Uint("version", v).Bool("dirty", dirty).Str("cmd", args[0]).Msg("postgres schema")

	if !*withCH {
		return
	}
	ctx := context.Background()
	if !cfg.CH.Enabled {
		l.Fatal().Msg("--clickhouse needs SERVICE_CLICKHOUSE_DBURL")
	}
	cfg.PG.Enabled = false
	st, err := store.Open(ctx, cfg, store.WithLogger(*logger.Get()))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(ctx) }()

	if err := chartsrepo.NewCH(st.CH).EnsureSchema(ctx); err != nil {
		l.Fatal().Err(err).Msg("clickhouse schema")
	}
	l.Info().Str("table", chartsrepo.CHTable).Msg("clickhouse schema ready")
}
