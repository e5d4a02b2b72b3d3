// Package migrations applies the embedded postgres schema with golang-migrate
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Source returns the embedded migration files rooted at the sql directory
func Source() fs.FS {
	sub, err := fs.Sub(files, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// DatabaseURL rewrites a postgres:// dsn into the pgx5:// scheme migrate expects
func DatabaseURL(dsn string) string {
	for _, p := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, p) {
			return "pgx5://" + strings.TrimPrefix(dsn, p)
		}
	}
	return dsn
}

// Migrator wraps a migrate instance bound to the embedded source
type Migrator struct {
	m *migrate.Migrate
}

// New opens a migrator against dsn
func New(dsn string) (*Migrator, error) {
	src, err := iofs.New(Source(), ".")
	if err != nil {
		return nil, fmt.Errorf("migrations: source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, DatabaseURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migrations: open: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration, no change is not an error
func (x *Migrator) Up() error {
	if err := x.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}

// Down rolls back every applied migration
func (x *Migrator) Down() error {
	if err := x.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: down: %w", err)
	}
	return nil
}

// To migrates up or down to an exact version
func (x *Migrator) To(version uint) error {
	if err := x.m.Migrate(version); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: to %d: %w", version, err)
	}
	return nil
}

// Version reports the applied version, zero when nothing is applied
func (x *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = x.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the source and database handles
func (x *Migrator) Close() error {
	srcErr, dbErr := x.m.Close()
	return errors.Join(srcErr, dbErr)
}
