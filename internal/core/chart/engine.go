package chart

import (
	"context"
	"fmt"
	"sort"
	"time"

	"covtrend/internal/core/coverage"
	perr "covtrend/internal/platform/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

// DefaultMaxBuckets bounds the calendar grid of a single query, ten years of days
const DefaultMaxBuckets = 3660

// Options tunes an Engine
type Options struct {
	// MaxBuckets caps the grid size, <= 0 uses DefaultMaxBuckets
	MaxBuckets int
	// Concurrency caps parallel permission and branch lookups, <= 0 means 8
	Concurrency int
	// Now is the clock used for the default end date
	Now func() time.Time
}

// Query is one RunQuery call
type Query struct {
	Params map[string]any
	Shape  Shape
}

// Result is the materialized output of a query
// Points is set for ShapeRepository, Aggregated for ShapeOrganization
type Result struct {
	ID         string
	Shape      Shape
	Params     Params
	Points     []Point
	Aggregated []AggregatedPoint
}

// Len is the number of output points
func (r Result) Len() int { return len(r.Points) + len(r.Aggregated) }

// Engine runs chart queries, it keeps no state between calls
type Engine struct {
	src  RecordSource
	dir  Directory
	auth Authorizer
	opts Options
}

// New constructs an Engine over its collaborators
func New(src RecordSource, dir Directory, auth Authorizer, opts Options) *Engine {
	if src == nil || dir == nil || auth == nil {
		panic("chart.New: nil collaborator")
	}
	if opts.MaxBuckets <= 0 {
		opts.MaxBuckets = DefaultMaxBuckets
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{src: src, dir: dir, auth: auth, opts: opts}
}

// RunQuery validates q, reads the records in scope and builds the requested series
func (e *Engine) RunQuery(ctx context.Context, id Identity, q Query) (Result, error) {
	if q.Shape == 0 {
		q.Shape = ShapeRepository
	}
	res := Result{ID: uuid.NewString(), Shape: q.Shape}

	p, err := ValidateAt(q.Params, e.opts.Now())
	if err != nil {
		return res, err
	}
	res.Params = p

	scope, err := e.resolveScope(ctx, id, p)
	if err != nil {
		return res, err
	}
	if scope.Empty() {
		return res, nil
	}

	records, err := e.src.FetchRecords(ctx, RecordQuery{
		OwnerID: scope.OwnerID,
		Scopes:  scope.Branches(),
		Start:   scope.Start,
		End:     scope.End,
	})
	if err != nil {
		return res, upstream(ctx, err, "fetch_records")
	}
	records = ApplySimpleFilters(ApplyDefaultFilters(records), scope)
	if len(records) == 0 && p.Start == nil {
		return res, nil
	}

	buckets := Aggregate(records, p.Unit, p.Function, p.Metric)

	var series map[int64][]Bucket
	if p.Unit == UnitCommit {
		series = buckets
		if q.Shape == ShapeOrganization {
			series = fillCommits(buckets)
		}
	} else {
		series, err = e.fill(ctx, scope, records, buckets, p)
		if err != nil {
			return res, err
		}
	}

	switch q.Shape {
	case ShapeOrganization:
		res.Aggregated = Order(WithChanges(Merge(series)), p.Ordering)
	default:
		res.Points = Order(Points(series, scope.Names()), p.Ordering)
	}
	return res, nil
}

// fill carries every scoped repository across the calendar grid
func (e *Engine) fill(ctx context.Context, scope Scope, records []coverage.Record, buckets map[int64][]Bucket, p Params) (map[int64][]Bucket, error) {
	start := scope.Start
	if start == nil {
		first := records[0].Timestamp
		for _, r := range records[1:] {
			if r.Timestamp.Before(first) {
				first = r.Timestamp
			}
		}
		start = &first
	}

	grid, err := Grid(*start, scope.End, p.Unit, e.opts.MaxBuckets)
	if err != nil {
		return nil, perr.Validation(map[string][]string{
			KeyStart: {fmt.Sprintf("date range holds more than %d %s buckets", e.opts.MaxBuckets, p.Unit)},
		})
	}

	seeds := map[int64]*coverage.Record{}
	if scope.Start != nil {
		before, err := e.src.FetchLatestBefore(ctx, scope.Branches(), *scope.Start)
		if err != nil {
			return nil, upstream(ctx, err, "fetch_latest_before")
		}
		kept := make([]coverage.Record, 0, len(before))
		for _, r := range ApplyDefaultFilters(before) {
			if repo, ok := scope.Repositories[r.RepositoryID]; ok && r.Branch == repo.Branch && r.Timestamp.Before(*scope.Start) {
				kept = append(kept, r)
			}
		}
		seeds = latestPerRepository(kept)
	}

	out := map[int64][]Bucket{}
	for _, id := range scope.IDs() {
		if filled := Fill(id, buckets[id], seeds[id], grid); len(filled) > 0 {
			out[id] = filled
		}
	}
	return out, nil
}

// fillCommits uses every distinct commit time as a bucket so the merge sees each
// repository's latest record at that moment
func fillCommits(buckets map[int64][]Bucket) map[int64][]Bucket {
	seen := map[int64]time.Time{}
	for _, bs := range buckets {
		for _, b := range bs {
			seen[b.Start.UnixNano()] = b.Start
		}
	}
	grid := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		grid = append(grid, t)
	}
	sort.Slice(grid, func(i, j int) bool { return grid[i].Before(grid[j]) })

	out := make(map[int64][]Bucket, len(buckets))
	for id, bs := range buckets {
		out[id] = Fill(id, dedupeStarts(bs), nil, grid)
	}
	return out
}

// dedupeStarts keeps the last bucket of each start, two commits of one repository
// can share a timestamp
func dedupeStarts(bs []Bucket) []Bucket {
	out := make([]Bucket, 0, len(bs))
	for _, b := range bs {
		if n := len(out); n > 0 && out[n-1].Start.Equal(b.Start) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// resolveScope turns params into the set of repositories and branches the caller may read
func (e *Engine) resolveScope(ctx context.Context, id Identity, p Params) (Scope, error) {
	owner, err := e.dir.ResolveOwner(ctx, p.Service, p.Owner)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return Scope{}, perr.WithField(err, KeyOwner)
		}
		return Scope{}, upstream(ctx, err, "resolve_owner")
	}

	end := e.opts.Now().UTC()
	if p.End != nil {
		end = *p.End
	}
	scope := Scope{OwnerID: owner.ID, Start: p.Start, End: end, Repositories: map[int64]ScopedRepository{}}

	repos, err := e.dir.ResolveRepositories(ctx, owner.ID, p.RepositoryNames)
	if err != nil {
		return Scope{}, upstream(ctx, err, "resolve_repositories")
	}
	if missing := missingNames(p.RepositoryNames, repos); len(missing) > 0 {
		return Scope{}, perr.WithField(perr.NotFoundf("repositories not found: %v", missing), KeyRepos)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].ID < repos[j].ID })

	var allowed map[int64]bool
	if len(p.RepositoryNames) == 0 {
		ids, err := e.auth.ResolvePermittedRepositories(ctx, id, owner.ID)
		if err != nil {
			return Scope{}, upstream(ctx, err, "resolve_permitted_repositories")
		}
		allowed = make(map[int64]bool, len(ids))
		for _, rid := range ids {
			allowed[rid] = true
		}
	}

	type lookup struct {
		ok     bool
		branch string
	}
	found := make([]lookup, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, r := range repos {
		g.Go(func() error {
			ok := allowed[r.ID]
			if allowed == nil {
				var err error
				if ok, err = e.auth.HasReadPermission(gctx, id, r.ID); err != nil {
					return upstream(gctx, err, "has_read_permission")
				}
			}
			if !ok {
				return nil
			}
			branch := p.Branch
			if branch == "" {
				var err error
				if branch, err = e.dir.ResolveDefaultBranch(gctx, r.ID); err != nil {
					if perr.IsCode(err, perr.ErrorCodeNotFound) {
						return perr.WithField(err, KeyRepos)
					}
					return upstream(gctx, err, "resolve_default_branch")
				}
			}
			found[i] = lookup{ok: true, branch: branch}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Scope{}, err
	}

	for i, r := range repos {
		if found[i].ok {
			scope.Repositories[r.ID] = ScopedRepository{ID: r.ID, Name: r.Name, Branch: found[i].branch}
		}
	}
	return scope, nil
}

// missingNames returns the requested names with no case folded match in repos
func missingNames(names []string, repos []Repository) []string {
	if len(names) == 0 {
		return nil
	}
	fold := cases.Fold()
	have := make(map[string]struct{}, len(repos))
	for _, r := range repos {
		have[fold.String(r.Name)] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := have[fold.String(n)]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// upstream attributes a collaborator failure to the stage that saw it,
// an expired or cancelled query context is reported the same way
func upstream(ctx context.Context, err error, op string) error {
	if cerr := ctx.Err(); cerr != nil {
		return perr.WithOp(perr.Wrap(cerr, perr.ErrorCodeUpstream, op+" interrupted"), op)
	}
	if perr.IsCode(err, perr.ErrorCodeUpstream) {
		return perr.WithOp(err, op)
	}
	return perr.WithOp(perr.Wrap(err, perr.ErrorCodeUpstream, op+" failed"), op)
}
