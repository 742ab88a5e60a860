// Package persistence opens the bun database for the configured driver.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goliatone/go-errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/goliatone/go-auth-bookmarks/config"
	"github.com/goliatone/go-auth-bookmarks/migrations"
)

// Open connects to the configured database and checks the connection
func Open(ctx context.Context, cfg *config.Database) (*bun.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is required", errors.CategoryBadInput)
	}

	var (
		sqldb *sql.DB
		db    *bun.DB
		err   error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		sqldb, err = sql.Open(sqliteshim.ShimName, cfg.URL)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "open sqlite")
		}
		// a single connection keeps in-memory databases shared and writes serialized
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case config.DriverPostgres:
		sqldb, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "open postgres")
		}
		if cfg.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, errors.New(fmt.Sprintf("unsupported database driver %q", cfg.Driver), errors.CategoryBadInput)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CategoryInternal, "ping database")
	}

	if cfg.Driver == config.DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, errors.CategoryInternal, "enable sqlite foreign keys")
		}
	}

	return db, nil
}

// Migrate applies the embedded migrations to db
func Migrate(ctx context.Context, db *bun.DB, driver string) (int, error) {
	return migrations.Up(ctx, db.DB, driver)
}
