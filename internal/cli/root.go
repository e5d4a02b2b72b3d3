// Package cli is the covtrend command line: ad hoc charts and the clickhouse mirror
package cli

import (
	"context"
	"io"
	"strings"

	"covtrend/internal/core/version"
	"covtrend/internal/platform/logger"
	"covtrend/internal/platform/store"
	chartsrepo "covtrend/internal/services/api/charts/repo"
	chartssvc "covtrend/internal/services/api/charts/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Settings is the resolved cli configuration (flags, env, config file)
type Settings struct {
	DBURL        string
	CHURL        string
	RecordSource string
	Format       string
}

// Opener builds a chart service for the given settings
// the returned func releases whatever the service holds
type Opener func(ctx context.Context, s Settings) (chartssvc.Service, func(), error)

// App carries the command dependencies
type App struct {
	Open Opener
	v    *viper.Viper
}

// NewRootCmd builds the command tree, a nil open uses the store backed opener
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = OpenStore
	}
	app := &App{Open: open, v: viper.New()}

	root := &cobra.Command{
		Use:           "covtrend",
		Short:         "Coverage trend charts from the command line",
		Version:       version.Info().Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initConfig()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .covtrend.yaml in . or $HOME)")
	pf.String("db-url", "", "postgres url")
	pf.String("ch-url", "", "clickhouse url, enables the mirror and the ch record source")
	pf.String("record-source", "pg", "where coverage records are read from (pg|ch)")
	pf.StringP("format", "f", FormatTable, "output format (table|json)")
	for _, k := range []string{"config", "db-url", "ch-url", "record-source", "format"} {
		_ = app.v.BindPFlag(k, pf.Lookup(k))
	}

	root.AddCommand(app.chartCmd(), app.mirrorCmd())
	return root
}

func (a *App) initConfig() error {
	v := a.v
	if f := v.GetString("config"); f != "" {
		v.SetConfigFile(f)
	} else {
		v.SetConfigName(".covtrend")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix("COVTREND")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// Settings returns the merged configuration
func (a *App) Settings() Settings {
	return Settings{
		DBURL:        a.v.GetString("db-url"),
		CHURL:        a.v.GetString("ch-url"),
		RecordSource: strings.ToLower(a.v.GetString("record-source")),
		Format:       strings.ToLower(a.v.GetString("format")),
	}
}

// OpenStore opens postgres and optional clickhouse and builds the chart service on them
func OpenStore(ctx context.Context, s Settings) (chartssvc.Service, func(), error) {
	if s.DBURL == "" {
		return nil, nil, errMissing("db-url")
	}
	cfg := store.Config{
		AppName: "covtrend-cli",
		PG:      store.PGConfig{Enabled: true, URL: s.DBURL, MaxConns: 2, SlowQueryMs: 500, ConnectRetries: 3},
		CH:      store.CHConfig{Enabled: s.CHURL != "", URL: s.CHURL, Role: "cli"},
	}
	st, err := store.Open(ctx, cfg, store.WithLogger(*logger.Named("cli")))
	if err != nil {
		return nil, nil, err
	}

	opts := chartssvc.Options{}
	if st.CH != nil {
		ch := chartsrepo.NewCH(st.CH)
		opts.Mirror = ch
		if s.RecordSource == "ch" {
			opts.Records = ch
		}
	}
	svc := chartssvc.New(st.PG, chartsrepo.NewPG(), opts)
	return svc, func() { _ = st.Close(context.Background()) }, nil
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
