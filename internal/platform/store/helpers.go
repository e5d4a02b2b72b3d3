package store

import (
	"context"
	"errors"

	perr "covtrend/internal/platform/errors"
)

// errExtraRows is returned by One when the query yields more than a row
var errExtraRows = errors.New("store: expected one row, got more")

// Scalar scans the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// One maps exactly one row, no rows is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var (
		out  T
		seen int
	)
	err := each(ctx, q, sql, args, func(r Row) error {
		if seen++; seen > 1 {
			return errExtraRows
		}
		v, err := scan(r)
		out = v
		return err
	})
	var zero T
	switch {
	case err != nil:
		return zero, err
	case seen == 0:
		return zero, perr.ErrNotFound
	}
	return out, nil
}

// Many maps every row in result order
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	var out []T
	err := each(ctx, q, sql, args, func(r Row) error {
		v, err := scan(r)
		if err == nil {
			out = append(out, v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// each runs fn per row and always closes the cursor
func each(ctx context.Context, q RowQuerier, sql string, args []any, fn func(Row) error) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
