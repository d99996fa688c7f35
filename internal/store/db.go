package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sqlx.DB and *sqlx.Tx, allowing store code
// to run against the pool or inside a caller-managed transaction.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Pinger is implemented by connection pools that can report liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	_ DBTX   = (*sqlx.DB)(nil)
	_ DBTX   = (*sqlx.Tx)(nil)
	_ Pinger = (*sql.DB)(nil)
)
