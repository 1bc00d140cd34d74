// Package sqlstore implements ports.Store on database/sql, with SQLite
// (modernc.org/sqlite, no CGO) for local runs and tests and PostgreSQL (pgx)
// for deployments. Queries are written once with ? placeholders and rebound
// per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Register the pure-Go SQLite driver as "sqlite".
	_ "modernc.org/sqlite"
	// Register pgx as the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

var _ ports.Store = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repo runs every repository query against q, which is either the pool or
// an open transaction.
type repo struct {
	q querier
	d dialect
}

// Store is the database-backed ports.Store.
type Store struct {
	*repo
	db *sql.DB
}

// Open connects using driver ("sqlite" or "postgres") and applies the schema.
//
//	store, err := sqlstore.Open(ctx, "sqlite", "./data/ledger.db")
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driverName(), d.dsn(dsn))
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if d.name == DriverSQLite {
		// One connection serializes writers, which is how the SQLite
		// store provides row locking.
		db.SetMaxOpenConns(1)
	}

	if err := applySchema(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{repo: &repo{q: db, d: d}, db: db}, nil
}

// WithTx runs fn inside a transaction. fn must use the Repository it is
// given; the store itself would block on SQLite until the transaction ends.
func (s *Store) WithTx(ctx context.Context, fn func(tx ports.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&repo{q: tx, d: s.d}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return s.d.translate(fmt.Errorf("sqlstore: commit: %w", err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the pool. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the pool for health checks and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (r *repo) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := r.q.ExecContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		return nil, r.d.translate(err)
	}
	return res, nil
}

func (r *repo) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.q.QueryContext(ctx, r.d.rebind(query), args...)
}

func (r *repo) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.q.QueryRowContext(ctx, r.d.rebind(query), args...)
}

// execOne runs an UPDATE or DELETE that must touch exactly one row and
// returns errNoRows otherwise.
func (r *repo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoRows
	}
	return nil
}

var errNoRows = errors.New("no rows affected")
