package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DriverName is the database/sql driver registered by pgx/v5/stdlib.
const DriverName = "pgx"

// PoolOptions bounds the connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Init opens the pool and verifies the database is reachable.
// A failure here is fatal to the caller; the service does not start without a store.
func Init(ctx context.Context, dsn string, opts PoolOptions) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	Configure(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err = db.PingContext(pingCtx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", DriverName, "max_open_conns", opts.MaxOpenConns)
	return db, nil
}

// Configure applies pool limits. Requests beyond MaxOpenConns wait in
// database/sql until a connection frees up or their context expires.
func Configure(db *sqlx.DB, opts PoolOptions) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Hint returns an operator-facing suggestion for common startup failures.
func Hint(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "3D000":
			return "database does not exist, create it or fix DB_NAME"
		case "28P01", "28000":
			return "authentication failed, check DB_USER and DB_PASSWORD"
		}
		return ""
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return "connection refused, is PostgreSQL running on DB_HOST:DB_PORT?"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "host not found, check DB_HOST"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timed out, check DB_HOST and network access"
	}
	return ""
}
