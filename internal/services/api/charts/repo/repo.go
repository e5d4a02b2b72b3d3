// Package repo provides postgres and clickhouse access for charts
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"covtrend/internal/core/chart"
	"covtrend/internal/core/coverage"
	"covtrend/internal/modkit/repokit"
	perr "covtrend/internal/platform/errors"
	"covtrend/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// Repo is the persistence surface the chart engine runs against
type Repo interface {
	chart.RecordSource
	chart.Directory
	chart.Authorizer

	// CommitsSince pages commits by id for mirroring into clickhouse
	CommitsSince(ctx context.Context, since time.Time, afterID int64, limit int) ([]CommitRow, error)
}

// CommitRow is a denormalized commit row, the clickhouse mirror shape
type CommitRow struct {
	ID      int64
	OwnerID int64
	Record  coverage.Record
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const recordColumns = `c.commitid, c.repoid, c.branch, c."timestamp", c.state, c.deleted, c.ci_passed,
c.lines, c.hits, c.misses, c.partials, c.complexity, c.complexity_total`

func (r *queries) FetchRecords(ctx context.Context, in chart.RecordQuery) ([]coverage.Record, error) {
	if len(in.Scopes) == 0 {
		return nil, nil
	}
	ids, branches := splitScopes(in.Scopes)
	const sql = `
select ` + recordColumns + `
from commits c
join unnest($1::bigint[], $2::text[]) as s(repoid, branch)
  on s.repoid = c.repoid and s.branch = c.branch
join repositories r on r.repoid = c.repoid
where r.ownerid = $3
and ($4::timestamptz is null or c."timestamp" >= $4)
and c."timestamp" <= $5
`
	out, err := store.Many(ctx, r.q, scanRecordRow, sql, ids, branches, in.OwnerID, in.Start, in.End)
	if err != nil {
		return nil, perr.FromPostgres(err, "fetch commits")
	}
	return out, nil
}

func (r *queries) FetchLatestBefore(ctx context.Context, scopes []chart.BranchScope, before time.Time) ([]coverage.Record, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	ids, branches := splitScopes(scopes)
	// same predicate as the default filters so a seed is always chartable
	const sql = `
select distinct on (c.repoid, c.branch) ` + recordColumns + `
from commits c
join unnest($1::bigint[], $2::text[]) as s(repoid, branch)
  on s.repoid = c.repoid and s.branch = c.branch
where c."timestamp" < $3
and c.state = 'complete'
and not c.deleted
and c.ci_passed
and c.lines is not null
order by c.repoid, c.branch, c."timestamp" desc, c.commitid desc
`
	out, err := store.Many(ctx, r.q, scanRecordRow, sql, ids, branches, before)
	if err != nil {
		return nil, perr.FromPostgres(err, "fetch seed commits")
	}
	return out, nil
}

func (r *queries) ResolveOwner(ctx context.Context, service, username string) (chart.Owner, error) {
	const sql = `
select ownerid, service, username
from owners
where service = $1 and lower(username) = lower($2)
`
	o, err := store.One(ctx, r.q, func(row store.Row) (chart.Owner, error) {
		var o chart.Owner
		err := row.Scan(&o.ID, &o.Service, &o.Username)
		return o, err
	}, sql, service, username)
	if errors.Is(err, perr.ErrNotFound) {
		return chart.Owner{}, perr.NotFoundf("owner %s/%s not found", service, username)
	}
	if err != nil {
		return chart.Owner{}, perr.FromPostgres(err, "resolve owner")
	}
	return o, nil
}

func (r *queries) ResolveRepositories(ctx context.Context, ownerID int64, names []string) ([]chart.Repository, error) {
	var lowered []string
	if len(names) > 0 {
		lowered = make([]string, len(names))
		for i, n := range names {
			lowered[i] = strings.ToLower(n)
		}
	}
	const sql = `
select repoid, ownerid, name, private
from repositories
where ownerid = $1
and ($2::text[] is null or lower(name) = any($2::text[]))
order by repoid
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (chart.Repository, error) {
		var rr chart.Repository
		err := row.Scan(&rr.ID, &rr.OwnerID, &rr.Name, &rr.Private)
		return rr, err
	}, sql, ownerID, lowered)
	if err != nil {
		return nil, perr.FromPostgres(err, "resolve repositories")
	}
	return out, nil
}

func (r *queries) ResolveDefaultBranch(ctx context.Context, repositoryID int64) (string, error) {
	b, err := store.Scalar[string](ctx, r.q, `select branch from repositories where repoid = $1`, repositoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", perr.NotFoundf("repository %d not found", repositoryID)
	}
	if err != nil {
		return "", perr.FromPostgres(err, "resolve default branch")
	}
	return b, nil
}

// readable is public, owned by the caller, or explicitly granted, $2 is the caller
const readable = `(not r.private or r.ownerid = $2 or exists (
  select 1 from repository_permissions p where p.repoid = r.repoid and p.userid = $2
))`

// readableBy picks the visibility predicate for id, key binds to $1
func readableBy(id chart.Identity, key int64) (string, []any) {
	if id.Anonymous() {
		return `not r.private`, []any{key}
	}
	return readable, []any{key, id.UserID}
}

func (r *queries) HasReadPermission(ctx context.Context, id chart.Identity, repositoryID int64) (bool, error) {
	pred, args := readableBy(id, repositoryID)
	ok, err := store.Scalar[bool](ctx, r.q, `select exists (select 1 from repositories r where r.repoid = $1 and `+pred+`)`, args...)
	if err != nil {
		return false, perr.FromPostgres(err, "read permission")
	}
	return ok, nil
}

func (r *queries) ResolvePermittedRepositories(ctx context.Context, id chart.Identity, ownerID int64) ([]int64, error) {
	pred, args := readableBy(id, ownerID)
	out, err := store.Many(ctx, r.q, func(row store.Row) (int64, error) {
		var v int64
		err := row.Scan(&v)
		return v, err
	}, `select r.repoid from repositories r where r.ownerid = $1 and `+pred+` order by r.repoid`, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "permitted repositories")
	}
	return out, nil
}

func (r *queries) CommitsSince(ctx context.Context, since time.Time, afterID int64, limit int) ([]CommitRow, error) {
	const sql = `
select c.id, r.ownerid, ` + recordColumns + `
from commits c
join repositories r on r.repoid = c.repoid
where c."timestamp" >= $1 and c.id > $2
order by c.id
limit $3
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (CommitRow, error) {
		var cr CommitRow
		rec, err := scanRecord(row, &cr.ID, &cr.OwnerID)
		cr.Record = rec
		return cr, err
	}, sql, since, afterID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "page commits")
	}
	return out, nil
}

func scanRecordRow(row store.Row) (coverage.Record, error) { return scanRecord(row) }

// scanRecord reads recordColumns, prefix receives any leading columns
func scanRecord(row store.Row, prefix ...any) (coverage.Record, error) {
	var (
		rec                                                     coverage.Record
		state                                                   string
		lines, hits, misses, partials, complexity, complexTotal *int64
	)
	dest := append(prefix,
		&rec.ID, &rec.RepositoryID, &rec.Branch, &rec.Timestamp, &state, &rec.Deleted, &rec.CIPassed,
		&lines, &hits, &misses, &partials, &complexity, &complexTotal,
	)
	if err := row.Scan(dest...); err != nil {
		return coverage.Record{}, err
	}
	st, err := coverage.ParseState(state)
	if err != nil {
		return coverage.Record{}, err
	}
	rec.State = st
	rec.Timestamp = rec.Timestamp.UTC()
	rec.Totals = coverage.FromNullable(lines, hits, misses, partials, complexity, complexTotal)
	return rec, nil
}

func splitScopes(scopes []chart.BranchScope) ([]int64, []string) {
	ids := make([]int64, len(scopes))
	branches := make([]string, len(scopes))
	for i, s := range scopes {
		ids[i] = s.RepositoryID
		branches[i] = s.Branch
	}
	return ids, branches
}
