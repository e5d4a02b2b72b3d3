package store

import (
	"testing"
	"time"

	"covtrend/internal/platform/config"

	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://covtrend@db:5432/covtrend")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "12")
	t.Setenv("SERVICE_PGSQL_PING_TIMEOUT", "750ms")
	t.Setenv("SERVICE_PGSQL_LOG_SQL", "true")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "")

	got := FromConfig(config.New(), "covtrend", "api")
	require.Equal(t, Config{
		AppName: "covtrend",
		PG: PGConfig{
			Enabled:        true,
			URL:            "postgres://covtrend@db:5432/covtrend",
			MaxConns:       12,
			SlowQueryMs:    500,
			LogSQL:         true,
			ConnectRetries: 20,
			PingTimeout:    750 * time.Millisecond,
		},
		CH: CHConfig{Role: "api"},
	}, got)

	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://ch:9000/covtrend")
	got = FromConfig(config.New(), "covtrend", "migrate")
	require.True(t, got.CH.Enabled)
	require.Equal(t, "migrate", got.CH.Role)
}
