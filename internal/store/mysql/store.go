// Package mysql implements the store interfaces on top of MySQL using
// database/sql.  Identifiers are stored as CHAR(36) UUID strings and
// all timestamps as UTC DATETIME values.
package mysql

import (
	"context"
	"database/sql"

	"github.com/vuxducgiang/restaurant-pos/internal/store"
)

// Store wraps a *sql.DB opened by the database package.  It is safe
// for concurrent use; per-request transactions are opened with Begin.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Begin opens a transaction at the database's default isolation level.
// Row locks taken via GetTableForUpdate serialize concurrent units of
// work touching the same table.
func (s *Store) Begin(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx implements store.Tx over *sql.Tx.  Rollback after Commit is a
// no-op so the rollback-unless-committed defer pattern works.
type Tx struct {
	tx        *sql.Tx
	committed bool
}

func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return err
	}
	t.committed = true
	return nil
}

func (t *Tx) Rollback() error {
	if t.committed {
		return nil
	}
	return t.tx.Rollback()
}

// querier is satisfied by both *sql.DB and *sql.Tx so the row scanning
// helpers below can serve reads inside and outside transactions.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
