package repo

import (
	"context"
	"strings"
	"time"

	"covtrend/internal/core/chart"
	"covtrend/internal/core/coverage"
	perr "covtrend/internal/platform/errors"
	"covtrend/internal/platform/store"
)

// CHTable is the clickhouse mirror of commits
const CHTable = "coverage_commits"

// CHSchema creates the mirror table, rows are replaced by version on re-mirror
const CHSchema = `
CREATE TABLE IF NOT EXISTS coverage_commits (
    ownerid          Int64,
    repoid           Int64,
    commitid         String,
    branch           String,
    timestamp        DateTime64(3, 'UTC'),
    state            LowCardinality(String),
    deleted          Bool,
    ci_passed        Bool,
    lines            Nullable(Int64),
    hits             Nullable(Int64),
    misses           Nullable(Int64),
    partials         Nullable(Int64),
    complexity       Nullable(Int64),
    complexity_total Nullable(Int64),
    version          DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree(version)
ORDER BY (ownerid, repoid, branch, commitid)
`

// CH reads coverage records from the clickhouse mirror
// owners, repositories and permissions stay in postgres
type CH struct {
	ch  store.Clickhouse
	now func() time.Time
}

var _ chart.RecordSource = (*CH)(nil)

// NewCH returns a clickhouse backed record source
func NewCH(ch store.Clickhouse) *CH {
	if ch == nil {
		panic("charts.repo.NewCH requires a non nil clickhouse")
	}
	return &CH{ch: ch, now: time.Now}
}

// EnsureSchema creates the mirror table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	if err := c.ch.Exec(ctx, CHSchema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "create coverage_commits")
	}
	return nil
}

const chColumns = `commitid, repoid, branch, timestamp, state, deleted, ci_passed,
lines, hits, misses, partials, complexity, complexity_total`

func (c *CH) FetchRecords(ctx context.Context, in chart.RecordQuery) ([]coverage.Record, error) {
	if len(in.Scopes) == 0 {
		return nil, nil
	}
	ids, branches := splitScopes(in.Scopes)

	var b strings.Builder
	b.WriteString("SELECT " + chColumns + " FROM " + CHTable + " FINAL")
	b.WriteString(" WHERE ownerid = ? AND has(arrayZip(?, ?), (repoid, branch)) AND timestamp <= ?")
	args := []any{in.OwnerID, ids, branches, in.End}
	if in.Start != nil {
		b.WriteString(" AND timestamp >= ?")
		args = append(args, *in.Start)
	}

	rows, err := c.ch.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "fetch commits")
	}
	defer rows.Close()
	return drainRecords(rows)
}

func (c *CH) FetchLatestBefore(ctx context.Context, scopes []chart.BranchScope, before time.Time) ([]coverage.Record, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	ids, branches := splitScopes(scopes)
	const sql = `
SELECT ` + chColumns + `
FROM ` + CHTable + ` FINAL
WHERE has(arrayZip(?, ?), (repoid, branch))
AND timestamp < ?
AND state = 'complete' AND NOT deleted AND ci_passed AND lines IS NOT NULL
ORDER BY repoid, branch, timestamp DESC, commitid DESC
LIMIT 1 BY repoid, branch
`
	rows, err := c.ch.Query(ctx, sql, ids, branches, before)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "fetch seed commits")
	}
	defer rows.Close()
	return drainRecords(rows)
}

// Write mirrors commit rows into clickhouse in one batch
func (c *CH) Write(ctx context.Context, rows []CommitRow) error {
	if len(rows) == 0 {
		return nil
	}
	version := c.now().UTC()
	batch := make([][]any, 0, len(rows))
	for _, cr := range rows {
		rec := cr.Record
		t, ok := rec.Totals.Get()
		batch = append(batch, []any{
			cr.OwnerID, rec.RepositoryID, rec.ID, rec.Branch, rec.Timestamp.UTC(),
			rec.State.String(), rec.Deleted, rec.CIPassed,
			nullable(ok, t.Lines), nullable(ok, t.Hits), nullable(ok, t.Misses), nullable(ok, t.Partials),
			nullable(ok, t.Complexity), nullable(ok, t.ComplexityTotal),
			version,
		})
	}
	if err := c.ch.Insert(ctx, CHTable, batch); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "mirror commits")
	}
	return nil
}

func nullable(ok bool, v int64) *int64 {
	if !ok {
		return nil
	}
	return &v
}

func drainRecords(rows store.Rows) ([]coverage.Record, error) {
	var out []coverage.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "read commits")
	}
	return out, nil
}
