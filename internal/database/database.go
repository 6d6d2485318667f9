// Package database centralises sqlx connection helpers and schema
// migrations.  The default driver is go-sql-driver/mysql; lib/pq is
// registered for deployments that prefer Postgres.
//
// Public entry points:
//
//	Open(ctx, opts)        – open, tune, and Ping a pool.
//	Migrate(db, log)       – apply embedded migrations for db's driver.
//
// Open Pings before returning so callers fail fast during bootstrap.
// Callers Close() the returned *sqlx.DB on shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Supported driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options tunes the pool.  Zero values fall back to the defaults below.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (o Options) withDefaults() Options {
	if o.Driver == "" {
		o.Driver = DriverMySQL
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 15
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = 5
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = 30 * time.Minute
	}
	return o
}

// Open returns a *sqlx.DB with the pool limits from opts applied.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	opts = opts.withDefaults()
	switch opts.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return db, nil
}
