// Package service contains chart workflows
package service

import (
	"context"
	"time"

	"covtrend/internal/core/chart"
	"covtrend/internal/modkit/repokit"
	perr "covtrend/internal/platform/errors"
	"covtrend/internal/platform/logger"
	"covtrend/internal/platform/metrics"
	"covtrend/internal/services/api/charts/domain"
	"covtrend/internal/services/api/charts/repo"
)

// DefaultMirrorPage is the commit page size used by Mirror
const DefaultMirrorPage = 5000

// Service defines the chart service contract
type Service interface {
	domain.ServicePort
	Mirror(ctx context.Context, since time.Time, pageSize int) (int, error)
}

// Options tunes the chart service
type Options struct {
	MaxBuckets   int
	Concurrency  int
	QueryTimeout time.Duration

	// Records overrides where coverage records are read from, nil reads postgres
	Records chart.RecordSource
	// Mirror is the clickhouse sink for Mirror, nil disables it
	Mirror  *repo.CH
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Svc implements the chart service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	engine  *chart.Engine
	timeout time.Duration
	mirror  *repo.CH
	metrics *metrics.Metrics
}

// New constructs a chart service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("charts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("charts.Service requires a non nil Repo binder")
	}
	r := repokit.MustBind(binder, db)

	var src chart.RecordSource = r
	if opts.Records != nil {
		src = opts.Records
	}
	eng := chart.New(src, r, r, chart.Options{
		MaxBuckets:  opts.MaxBuckets,
		Concurrency: opts.Concurrency,
		Now:         opts.Now,
	})
	return &Svc{
		Repo:    r,
		binder:  binder,
		db:      db,
		engine:  eng,
		timeout: opts.QueryTimeout,
		mirror:  opts.Mirror,
		metrics: opts.Metrics,
	}
}

// Repository runs a per repository chart
func (s *Svc) Repository(ctx context.Context, in domain.ChartInput) (domain.RepositoryChart, error) {
	res, err := s.run(ctx, in, chart.ShapeRepository)
	if err != nil {
		return domain.RepositoryChart{}, err
	}
	return toRepositoryChart(res), nil
}

// Organization runs a merged organization chart
func (s *Svc) Organization(ctx context.Context, in domain.ChartInput) (domain.OrganizationChart, error) {
	res, err := s.run(ctx, in, chart.ShapeOrganization)
	if err != nil {
		return domain.OrganizationChart{}, err
	}
	return toOrganizationChart(res), nil
}

func (s *Svc) run(ctx context.Context, in domain.ChartInput, shape chart.Shape) (chart.Result, error) {
	params := make(map[string]any, len(in.Params)+2)
	for k, v := range in.Params {
		params[k] = v
	}
	// path values win over the body
	if in.Owner != "" {
		params[chart.KeyOwner] = in.Owner
	}
	if in.Service != "" {
		params[chart.KeyService] = in.Service
	}

	ctx = logger.WithOwner(ctx, in.Service, in.Owner)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.engine.RunQuery(ctx, chart.Identity{UserID: in.UserID}, chart.Query{Params: params, Shape: shape})
	took := time.Since(start)
	s.metrics.ObserveChart(shape.String(), took, res.Len(), err)

	l := logger.C(ctx)
	if err != nil {
		code := perr.CodeOf(err)
		ev := l.Debug()
		switch code {
		case perr.ErrorCodeUpstream, perr.ErrorCodeUnavailable, perr.ErrorCodeDB, perr.ErrorCodeUnknown:
			ev = l.Warn()
		}
		ev.Err(err).Stringer("code", code).Str("query_id", res.ID).Str("shape", shape.String()).Dur("took", took).Msg("chart: query failed")
		return res, err
	}
	l.Debug().
		Str("query_id", res.ID).
		Str("shape", shape.String()).
		Str("unit", res.Params.Unit.String()).
		Int64("user_id", in.UserID).
		Int("points", res.Len()).
		Dur("took", took).
		Msg("chart: query")
	return res, nil
}

// Mirror copies commits with a timestamp at or after since into clickhouse
// returns the number of rows written
func (s *Svc) Mirror(ctx context.Context, since time.Time, pageSize int) (int, error) {
	if s.mirror == nil {
		return 0, perr.Unavailablef("clickhouse mirror is not configured")
	}
	if pageSize <= 0 {
		pageSize = DefaultMirrorPage
	}
	var (
		after int64
		total int
	)
	for {
		rows, err := s.commitPage(ctx, since, after, pageSize)
		if err != nil {
			return total, err
		}
		if len(rows) == 0 {
			return total, nil
		}
		if err := s.mirror.Write(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		after = rows[len(rows)-1].ID
		logger.C(ctx).Debug().Int("rows", len(rows)).Int64("after", after).Msg("chart: mirrored page")
		if len(rows) < pageSize {
			return total, nil
		}
	}
}

// commitPage reads one mirror page inside a read only transaction
func (s *Svc) commitPage(ctx context.Context, since time.Time, after int64, limit int) ([]repo.CommitRow, error) {
	var rows []repo.CommitRow
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		if _, err := q.Exec(ctx, "set transaction read only"); err != nil {
			return perr.FromPostgres(err, "mirror transaction")
		}
		var err error
		rows, err = s.binder.Bind(q).CommitsSince(ctx, since, after, limit)
		return err
	})
	return rows, err
}
