package chart

import (
	"sort"
	"time"

	"covtrend/internal/core/coverage"
)

// ScopedRepository is a repository the query may read and the branch it reads
type ScopedRepository struct {
	ID     int64
	Name   string
	Branch string
}

// Scope is the resolved read set of a query
// Start nil means unbounded, End is always set
type Scope struct {
	OwnerID      int64
	Repositories map[int64]ScopedRepository
	Start        *time.Time
	End          time.Time
}

// Empty reports whether nothing is readable
func (s Scope) Empty() bool { return len(s.Repositories) == 0 }

// IDs returns the repository ids sorted ascending
func (s Scope) IDs() []int64 {
	ids := make([]int64, 0, len(s.Repositories))
	for id := range s.Repositories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Branches returns one BranchScope per repository ordered by id
func (s Scope) Branches() []BranchScope {
	out := make([]BranchScope, 0, len(s.Repositories))
	for _, id := range s.IDs() {
		out = append(out, BranchScope{RepositoryID: id, Branch: s.Repositories[id].Branch})
	}
	return out
}

// Names maps repository ids to names
func (s Scope) Names() map[int64]string {
	out := make(map[int64]string, len(s.Repositories))
	for id, r := range s.Repositories {
		out[id] = r.Name
	}
	return out
}

// ApplyDefaultFilters keeps complete, live, CI passing records that carry totals
func ApplyDefaultFilters(records []coverage.Record) []coverage.Record {
	out := make([]coverage.Record, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// ApplySimpleFilters keeps records of scoped repositories on their scoped branch
// inside [Start, End], both bounds inclusive
func ApplySimpleFilters(records []coverage.Record, s Scope) []coverage.Record {
	out := make([]coverage.Record, 0, len(records))
	for _, r := range records {
		repo, ok := s.Repositories[r.RepositoryID]
		if !ok || r.Branch != repo.Branch {
			continue
		}
		if s.Start != nil && r.Timestamp.Before(*s.Start) {
			continue
		}
		if r.Timestamp.After(s.End) {
			continue
		}
		out = append(out, r)
	}
	return out
}
