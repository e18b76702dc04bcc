package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/taskbook/internal/db"
	"github.com/randalmurphal/taskbook/internal/db/driver"
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
	"github.com/randalmurphal/taskbook/internal/task"
)

// DatabaseBackend stores tasks as rows in SQLite. Every mutating call is
// written immediately; ids come from the table's AUTOINCREMENT counter.
type DatabaseBackend struct {
	path string
	db   *db.DB
}

// NewDatabaseBackend creates a row backend for the database at path.
func NewDatabaseBackend(path string) *DatabaseBackend {
	return &DatabaseBackend{path: path}
}

// NewInMemoryBackend creates a row backend over a private in-memory database.
func NewInMemoryBackend() *DatabaseBackend {
	return &DatabaseBackend{path: driver.MemoryDSN}
}

// Path returns the database path.
func (d *DatabaseBackend) Path() string {
	return d.path
}

// Load opens the database, creating the file and task table if needed, and
// reads every row. The handle stays open until Close; it is released here
// when loading fails.
func (d *DatabaseBackend) Load(ctx context.Context) (*Snapshot, error) {
	if d.db == nil {
		if err := d.open(ctx); err != nil {
			return nil, err
		}
	}

	snap, err := d.readAll(ctx)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	slog.Debug("loaded task database", "path", d.path, "tasks", len(snap.Tasks), "next_id", snap.NextID)
	return snap, nil
}

func (d *DatabaseBackend) open(ctx context.Context) error {
	var (
		pdb *db.DB
		err error
	)
	if d.path == driver.MemoryDSN {
		pdb, err = db.OpenInMemory(ctx)
	} else {
		pdb, err = db.Open(ctx, d.path)
	}
	if err != nil {
		return tberrors.ErrStoreUnavailable(d.path, "could not open the database").WithCause(err)
	}
	d.db = pdb
	return nil
}

func (d *DatabaseBackend) readAll(ctx context.Context) (*Snapshot, error) {
	tasks, err := d.db.ListTasks(ctx)
	if err != nil {
		if stderrors.Is(err, &tberrors.TaskbookError{Code: tberrors.CodeStateUnknown}) {
			return nil, tberrors.ErrStoreCorrupt(d.path, "a task row has an unknown state").WithCause(err)
		}
		return nil, tberrors.ErrStoreUnavailable(d.path, "could not read tasks").WithCause(err)
	}

	next, err := d.db.NextTaskID(ctx)
	if err != nil {
		return nil, tberrors.ErrStoreUnavailable(d.path, "could not read the id sequence").WithCause(err)
	}

	snap := NewSnapshot()
	snap.NextID = next
	for _, t := range tasks {
		snap.Tasks[t.ID] = t
	}
	return snap, nil
}

// requireOpen returns a recoverable error when the database is not open.
func (d *DatabaseBackend) requireOpen() error {
	if d.db == nil {
		return tberrors.ErrStoreUnavailable(d.path, "the database is not open")
	}
	return nil
}

// Create inserts t with the state it carries and sets t.ID to the
// assigned id.
func (d *DatabaseBackend) Create(ctx context.Context, t *task.Task) error {
	if err := d.requireOpen(); err != nil {
		return err
	}
	id, err := d.db.InsertTask(ctx, *t)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// SetState updates all rows in ids with one statement.
func (d *DatabaseBackend) SetState(ctx context.Context, ids []task.ID, state task.State) error {
	if err := d.requireOpen(); err != nil {
		return err
	}
	n, err := d.db.SetTaskStates(ctx, ids, state)
	if err != nil {
		return err
	}
	slog.Debug("updated task states", "state", state, "requested", len(ids), "updated", n)
	return nil
}

// Find looks a row up by id.
func (d *DatabaseBackend) Find(ctx context.Context, id task.ID) (*task.Task, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	return d.db.GetTask(ctx, id)
}

// Delete removes the row for id. An unopened or closed backend returns
// STORE_UNAVAILABLE rather than panicking.
func (d *DatabaseBackend) Delete(ctx context.Context, id task.ID) error {
	if err := d.requireOpen(); err != nil {
		return err
	}
	if _, err := d.db.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %d from %s: %w", id, d.path, err)
	}
	return nil
}

// Save is a no-op: rows were written when they changed.
func (d *DatabaseBackend) Save(ctx context.Context, snap *Snapshot) error {
	return nil
}

// Durable returns true.
func (d *DatabaseBackend) Durable() bool {
	return true
}

// Close releases the database handle. Safe to call more than once.
func (d *DatabaseBackend) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}
