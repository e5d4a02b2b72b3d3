package module

import (
	"time"

	"covtrend/internal/core/chart"
	"covtrend/internal/platform/config"
)

// record sources
const (
	SourcePG = "pg"
	SourceCH = "ch"
)

// Options holds configuration settings for the charts module
type Options struct {
	RecordSource   string
	MaxBuckets     int
	Concurrency    int
	QueryTimeout   time.Duration
	IdentityHeader string

	// request admission, MaxInflight 0 disables it
	MaxInflight int
	Backlog     int
	BacklogWait time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CHART_")
	return Options{
		RecordSource:   c.MayEnum("RECORD_SOURCE", SourcePG, SourcePG, SourceCH),
		MaxBuckets:     c.MayInt("MAX_BUCKETS", chart.DefaultMaxBuckets),
		Concurrency:    c.MayInt("CONCURRENCY", 8),
		QueryTimeout:   c.MayDuration("QUERY_TIMEOUT", 30*time.Second),
		IdentityHeader: c.MayString("IDENTITY_HEADER", "X-User-ID"),
		MaxInflight:    c.MayInt("MAX_INFLIGHT", 0),
		Backlog:        c.MayInt("BACKLOG", 32),
		BacklogWait:    c.MayDuration("BACKLOG_WAIT", 5*time.Second),
	}
}
