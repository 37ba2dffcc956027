package db

import (
	"context"
	"database/sql"
)

// DBTX is what the token repository needs from a connection: single-row
// lookups and writes. Both *sql.DB and *sql.Tx provide it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
