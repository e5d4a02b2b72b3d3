package store

import (
	"context"
	"errors"
	"time"

	"covtrend/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter wraps pg.PG and implements RowQuerier + TxRunner
// pool queries and transaction queries share one traced querier
type pgAdapter struct {
	txQuerier
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{p: p, txQuerier: traced(p.Pool, p)}
}

func traced(q pgxQuerier, p *pg.PG) txQuerier {
	return txQuerier{tx: q, tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx runs fn inside one transaction, chart reads use it to see a single snapshot
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	done := false
	defer func() {
		// fn failed or panicked
		if !done {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()
	if err := fn(traced(tx, a.p)); err != nil {
		return err
	}
	done = true
	return tx.Commit(ctx)
}

// pgx results behind the store Row, Rows and CommandTag seams

type row struct {
	r     pgx.Row
	after func(error) // sees the scan error, nil is fine
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }

func (x rows) Columns() []string {
	var names []string
	for _, fd := range x.r.FieldDescriptions() {
		names = append(names, fd.Name)
	}
	return names
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }

// pgxQuerier is what *pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txQuerier is a RowQuerier that reports each statement to tracer
// a negative slowUS never flags a statement as slow
type txQuerier struct {
	tx     pgxQuerier
	tracer pg.QueryTracer
	slowUS int64
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	done := t.track(ctx, sql, args)
	ct, err := t.tx.Exec(ctx, sql, args...)
	done(err)
	return tag{ct}, err
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	done := t.track(ctx, sql, args)
	rs, err := t.tx.Query(ctx, sql, args...)
	done(err)
	if err != nil {
		return nil, err
	}
	return rows{rs}, nil
}

// QueryRow is reported once Scan runs, pgx defers its error until then
func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	done := t.track(ctx, sql, args)
	return row{r: t.tx.QueryRow(ctx, sql, args...), after: done}
}

func (t txQuerier) track(ctx context.Context, sql string, args []any) func(error) {
	if t.tracer == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		us := time.Since(start).Microseconds()
		t.tracer.OnQuery(ctx, pg.QueryEvent{SQL: sql, Args: args, ElapsedUS: us, Err: err, Slow: t.slowUS >= 0 && us >= t.slowUS})
	}
}
