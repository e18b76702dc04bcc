// Package db provides the SQLite row store for taskbook.
//
// The database holds a single table:
//
//	task(id INTEGER PRIMARY KEY AUTOINCREMENT, content TEXT, state TEXT)
//
// with state stored as the canonical strings Doing, Done and Dead.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/randalmurphal/taskbook/internal/db/driver"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// DB wraps a database connection with driver abstraction.
type DB struct {
	driver driver.Driver
	path   string
}

// Open opens a SQLite database at the given path and ensures the task table
// exists. Creates the parent directory if it doesn't exist.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(ctx, path)
}

// OpenInMemory opens an in-memory SQLite database.
// Each call creates a new isolated database.
func OpenInMemory(ctx context.Context) (*DB, error) {
	return open(ctx, driver.MemoryDSN)
}

func open(ctx context.Context, dsn string) (*DB, error) {
	drv := driver.NewSQLite()
	if err := drv.Open(dsn); err != nil {
		return nil, err
	}

	d := &DB{driver: drv, path: dsn}
	if err := drv.ApplySchema(ctx, schemaFS, "task"); err != nil {
		_ = drv.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.driver.Close()
}

// Path returns the database path.
func (d *DB) Path() string {
	return d.path
}

// DB returns the underlying sql.DB for advanced operations.
func (d *DB) DB() *sql.DB {
	return d.driver.DB()
}
