// Package storage provides storage backend abstraction for taskbook.
// It supports two backends: a JSON snapshot file that is read whole and
// written whole, and a SQLite table written on every call.
package storage

import (
	"context"

	"github.com/randalmurphal/taskbook/internal/task"
)

// Snapshot is the full persisted state of a task book.
type Snapshot struct {
	Tasks  map[task.ID]task.Task `json:"tasks"`
	NextID task.ID               `json:"nextId"`
}

// NewSnapshot returns an empty snapshot with the id counter at 0.
func NewSnapshot() *Snapshot {
	return &Snapshot{Tasks: make(map[task.ID]task.Task)}
}

// Backend defines the storage operations for a task book.
// Implementations are not safe for concurrent use; taskbook runs one
// operation per process.
type Backend interface {
	// Load reads the full task set, creating an empty store if none exists.
	Load(ctx context.Context) (*Snapshot, error)

	// Create persists a new task. Backends that assign ids themselves
	// overwrite t.ID.
	Create(ctx context.Context, t *task.Task) error

	// SetState sets the state of every stored task in ids. Unknown ids are
	// ignored.
	SetState(ctx context.Context, ids []task.ID, state task.State) error

	// Find looks up a single persisted task. Returns nil, nil when absent.
	Find(ctx context.Context, id task.ID) (*task.Task, error)

	// Delete removes a persisted task. Deleting an absent id is not an error.
	Delete(ctx context.Context, id task.ID) error

	// Save writes the full snapshot. Durable backends ignore it.
	Save(ctx context.Context, snap *Snapshot) error

	// Durable reports whether Create, SetState and Delete persist
	// immediately, making Save unnecessary.
	Durable() bool

	// Close releases resources.
	Close() error
}
