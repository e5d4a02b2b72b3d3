//go:build integration_pg
// +build integration_pg

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	perr "covtrend/internal/platform/errors"
	"covtrend/internal/platform/store/migrations"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migratedPG starts postgres, applies the embedded migrations and returns an open adapter
func migratedPG(t *testing.T) *pgAdapter {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "covtrend",
				"POSTGRES_PASSWORD": "covtrend",
				"POSTGRES_DB":       "covtrend",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mp, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://covtrend:covtrend@%s:%s/covtrend?sslmode=disable", host, mp.Port())

	m, err := migrations.New(dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	txr, err := openPG(ctx, Config{PG: PGConfig{URL: dsn, MaxConns: 2, LogSQL: true}}, &Store{Log: zerolog.New(io.Discard)})
	require.NoError(t, err)
	a, ok := txr.(*pgAdapter)
	require.True(t, ok, "openPG returned %T", txr)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestSQLAdapter_Integration_Commits(t *testing.T) {
	a := migratedPG(t)
	ctx := context.Background()

	_, err := a.Exec(ctx, `insert into owners (ownerid, service, username) values (1, 'github', 'acme')`)
	require.NoError(t, err)
	_, err = a.Exec(ctx, `insert into repositories (repoid, ownerid, name, branch, private) values (10, 1, 'api', 'main', false)`)
	require.NoError(t, err)
	ct, err := a.Exec(ctx, `insert into commits (commitid, repoid, branch, "timestamp", state, deleted, ci_passed, lines, hits, misses, partials) values
		('a1', 10, 'main', '2026-01-01T10:00:00Z', 'complete', false, true, 100, 80, 20, 0),
		('a2', 10, 'main', '2026-01-02T10:00:00Z', 'complete', false, true, 100, 90, 10, 0)`)
	require.NoError(t, err)
	require.EqualValues(t, 2, ct.RowsAffected())

	branch, err := Scalar[string](ctx, a, `select branch from repositories where repoid = $1`, int64(10))
	require.NoError(t, err)
	require.Equal(t, "main", branch)

	rs, err := a.Query(ctx, `select commitid, hits from commits where repoid = $1 order by "timestamp"`, int64(10))
	require.NoError(t, err)
	require.Equal(t, []string{"commitid", "hits"}, rs.Columns())
	var shas []string
	for rs.Next() {
		var sha string
		var hits int64
		require.NoError(t, rs.Scan(&sha, &hits))
		shas = append(shas, sha)
	}
	require.NoError(t, rs.Err())
	rs.Close()
	require.Equal(t, []string{"a1", "a2"}, shas)
}

func TestSQLAdapter_Integration_ReadOnlyTx(t *testing.T) {
	a := migratedPG(t)
	ctx := context.Background()

	_, err := a.Exec(ctx, `insert into owners (ownerid, service, username) values (1, 'github', 'acme')`)
	require.NoError(t, err)

	err = a.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, "set transaction read only"); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `insert into owners (ownerid, service, username) values (2, 'github', 'bob')`)
		return err
	})
	require.Error(t, err)
	require.True(t, perr.IsCode(perr.FromPostgres(err, "mirror"), perr.ErrorCodeUnavailable))

	n, err := Scalar[int64](ctx, a, `select count(*) from owners`)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	rollback := errors.New("abort")
	err = a.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `insert into owners (ownerid, service, username) values (3, 'gitlab', 'carol')`); err != nil {
			return err
		}
		return rollback
	})
	require.ErrorIs(t, err, rollback)

	n, err = Scalar[int64](ctx, a, `select count(*) from owners`)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
