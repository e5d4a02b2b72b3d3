package chart

import (
	"context"
	"time"

	"covtrend/internal/core/coverage"
)

// Owner is a user or organization on a provider
type Owner struct {
	ID       int64
	Service  string
	Username string
}

// Repository is a repository of an owner
type Repository struct {
	ID      int64
	OwnerID int64
	Name    string
	Private bool
}

// BranchScope is one repository and the branch read from it
type BranchScope struct {
	RepositoryID int64
	Branch       string
}

// RecordQuery is a bulk record read
// Start nil reads from the first record
type RecordQuery struct {
	OwnerID int64
	Scopes  []BranchScope
	Start   *time.Time
	End     time.Time
}

// RecordSource reads coverage records, order is not guaranteed
type RecordSource interface {
	FetchRecords(ctx context.Context, q RecordQuery) ([]coverage.Record, error)
	// FetchLatestBefore returns at most one record per scope: the newest one
	// strictly before the given time that passes the default filters
	FetchLatestBefore(ctx context.Context, scopes []BranchScope, before time.Time) ([]coverage.Record, error)
}

// Directory resolves owners and repositories
// missing owners are reported with a not found error
type Directory interface {
	ResolveOwner(ctx context.Context, service, username string) (Owner, error)
	// ResolveRepositories matches names case insensitively, nil names returns every repository
	ResolveRepositories(ctx context.Context, ownerID int64, names []string) ([]Repository, error)
	ResolveDefaultBranch(ctx context.Context, repositoryID int64) (string, error)
}

// Authorizer answers read permission questions
type Authorizer interface {
	HasReadPermission(ctx context.Context, id Identity, repositoryID int64) (bool, error)
	ResolvePermittedRepositories(ctx context.Context, id Identity, ownerID int64) ([]int64, error)
}
