package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"obst/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Config selects the storage engine and its location.
type Config struct {
	Driver  string        // sqlite (default), mysql or postgres
	Path    string        // sqlite database file
	DSN     string        // mysql/postgres data source name
	Timeout time.Duration // per-request deadline
}

// Gateway executes observation requests against one store. It holds no
// open connection: every request opens the store, runs and closes it, so a
// failed request never leaves state behind.
type Gateway struct {
	log     *slog.Logger
	dialect *dialect
	timeout time.Duration
}

// Open validates cfg and returns a Gateway. No connection is made until the
// first request.
func Open(cfg Config, log *slog.Logger) (*Gateway, error) {
	d, err := newDialect(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{log: log.With("driver", d.name), dialect: d, timeout: timeout}, nil
}

// Driver returns the name of the active dialect.
func (g *Gateway) Driver() string {
	return g.dialect.name
}

// Ping opens and closes the store once.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.withDB(ctx, "ping", func(context.Context, *sql.DB) error { return nil })
}

// withDB scopes one connection to fn. Errors other than ErrTableNotFound
// are reported as StorageError.
func (g *Gateway) withDB(ctx context.Context, op string, fn func(ctx context.Context, db *sql.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	db, err := g.open(ctx)
	if err != nil {
		g.log.Error("storage unavailable", "op", op, "error", err)
		return &domain.StorageError{Op: op, Err: err}
	}
	defer db.Close()

	if err := fn(ctx, db); err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			return err
		}
		g.log.Error("storage request failed", "op", op, "error", err)
		return &domain.StorageError{Op: op, Err: err}
	}
	return nil
}

func (g *Gateway) open(ctx context.Context) (*sql.DB, error) {
	dsn, err := g.dialect.prepare()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(g.dialect.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", g.dialect.name, err)
	}
	// One request, one connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", g.dialect.name, err)
	}
	return db, nil
}

func (g *Gateway) render(stmt domain.Statement) string {
	return stmt.SQL(g.dialect.quote, g.dialect.placeholder)
}

// CreateTable executes a compiled CREATE TABLE IF NOT EXISTS request.
func (g *Gateway) CreateTable(ctx context.Context, stmt domain.Statement) error {
	query := g.render(stmt)
	return g.withDB(ctx, "create table", func(ctx context.Context, db *sql.DB) error {
		g.log.Debug("executing statement", "sql", query)
		if _, err := db.ExecContext(ctx, query, stmt.Args()...); err != nil {
			return fmt.Errorf("exec: %w", err)
		}
		return nil
	})
}

// Insert executes a compiled INSERT request.
func (g *Gateway) Insert(ctx context.Context, stmt domain.Statement) error {
	query := g.render(stmt)
	return g.withDB(ctx, "insert", func(ctx context.Context, db *sql.DB) error {
		g.log.Debug("executing statement", "sql", query)
		result, err := db.ExecContext(ctx, query, stmt.Args()...)
		if err != nil {
			return fmt.Errorf("exec: %w", err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected != 1 {
			return fmt.Errorf("insert affected %d rows", affected)
		}
		return nil
	})
}

var _ domain.Gateway = (*Gateway)(nil)
