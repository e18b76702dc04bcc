// Package driver provides the SQLite driver abstraction used by the row store.
package driver

import (
	"context"
	"database/sql"
	"io/fs"
)

// Driver abstracts the database operations the row store needs.
type Driver interface {
	// Connection
	Open(dsn string) error
	Close() error

	// Queries
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row

	// Schema
	ApplySchema(ctx context.Context, schemaFS fs.ReadFileFS, name string) error

	// Placeholder returns the bind placeholder for the 1-based argument index.
	Placeholder(index int) string

	// Raw access (for advanced operations)
	DB() *sql.DB
}
