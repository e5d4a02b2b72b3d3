package modkit

import (
	"covtrend/internal/modkit/repokit"
	"covtrend/internal/platform/config"
	"covtrend/internal/platform/logger"
	"covtrend/internal/platform/metrics"
	"covtrend/internal/platform/store"
)

// Deps are the process wide handles every module New receives
// CH and Metrics are nil when disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	Metrics *metrics.Metrics
}
