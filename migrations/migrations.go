// Package migrations holds the embedded schema and runs it through goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// Dialect maps a configured database driver to the goose dialect
func Dialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return goose.DialectSQLite3, nil
	case "postgres", "pgx":
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported migration driver %q", driver)
	}
}

// NewProvider returns a goose provider bound to the embedded migrations
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	dialect, err := Dialect(driver)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, db, Migrations)
}

// Up applies all pending migrations and returns how many ran
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrate up: %w", err)
	}

	return len(results), nil
}

// Version returns the current schema version
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := NewProvider(db, driver)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
