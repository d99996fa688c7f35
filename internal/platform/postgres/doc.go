// Package postgres provides the PostgreSQL implementation of the task store
// defined in the internal/store package, together with the embedded goose
// migrations that create its schema.
//
// Queries go through sqlx on top of the pgx stdlib driver; PostgreSQL error
// codes are translated into store errors by MapError.
package postgres
