// Package book implements TaskBook, the in-memory aggregate of all tasks.
//
// A TaskBook is built once per process: Load fills it from a storage
// backend, one operation mutates it, and Save persists the result. With a
// durable backend every mutation is already on disk and Save does nothing.
package book

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
	"github.com/randalmurphal/taskbook/internal/storage"
	"github.com/randalmurphal/taskbook/internal/task"
)

// TaskBook owns every task and the next id to assign.
type TaskBook struct {
	backend storage.Backend
	tasks   map[task.ID]*task.Task
	nextID  task.ID
}

// New creates an empty book backed by backend. Call Load before use.
func New(backend storage.Backend) *TaskBook {
	return &TaskBook{
		backend: backend,
		tasks:   make(map[task.ID]*task.Task),
	}
}

// Load replaces the book's contents with what the backend holds.
func (b *TaskBook) Load(ctx context.Context) error {
	snap, err := b.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load task book: %w", err)
	}

	b.tasks = make(map[task.ID]*task.Task, len(snap.Tasks))
	b.nextID = snap.NextID
	for id, t := range snap.Tasks {
		b.tasks[id] = &t
		b.bumpNextID(id)
	}
	return nil
}

// CreateTask adds a task in the Doing state and returns its id. Ids are
// strictly increasing and never reused, also across Save and Load.
func (b *TaskBook) CreateTask(ctx context.Context, content string) (task.ID, error) {
	if strings.TrimSpace(content) == "" {
		slog.Debug("creating task with empty content")
	}

	if b.nextID == math.MaxUint64 {
		return 0, fmt.Errorf("create task: %w", tberrors.ErrIDExhausted())
	}

	t := task.New(b.nextID, content)
	if err := b.backend.Create(ctx, &t); err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	b.tasks[t.ID] = &t
	b.bumpNextID(t.ID)
	slog.Debug("created task", "id", t.ID)
	return t.ID, nil
}

// SetTaskState sets state on every task in ids and returns the ids that
// exist, in input order without duplicates. Ids with no task are skipped
// without error so one unknown id does not fail the batch; callers compare
// the result with ids to report them.
func (b *TaskBook) SetTaskState(ctx context.Context, ids []task.ID, state task.State) ([]task.ID, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("set task state: %w", tberrors.ErrStateUnknown(string(state)))
	}

	var applied []task.ID
	for _, id := range ids {
		if _, ok := b.tasks[id]; !ok || slices.Contains(applied, id) {
			continue
		}
		applied = append(applied, id)
	}

	// A durable backend gets the ids as given and matches them itself.
	forward := applied
	if b.backend.Durable() {
		forward = ids
	}
	if len(forward) > 0 {
		if err := b.backend.SetState(ctx, forward, state); err != nil {
			return nil, fmt.Errorf("set task state: %w", err)
		}
	}
	for _, id := range applied {
		b.tasks[id].SetState(state)
	}

	slog.Debug("set task state", "state", state, "requested", len(ids), "applied", len(applied))
	return applied, nil
}

// DeleteTask removes a task. Returns false without error if id is unknown.
// Backend failures, such as a closed store, are returned as errors.
func (b *TaskBook) DeleteTask(ctx context.Context, id task.ID) (bool, error) {
	if _, ok := b.tasks[id]; !ok {
		return false, nil
	}
	if err := b.backend.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	delete(b.tasks, id)
	return true, nil
}

// Find returns a copy of the task with id.
func (b *TaskBook) Find(id task.ID) (task.Task, bool) {
	t, ok := b.tasks[id]
	if !ok {
		return task.Task{}, false
	}
	return *t, true
}

// List returns copies of all tasks ordered by id.
func (b *TaskBook) List() []task.Task {
	out := make([]task.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(x, y task.Task) int {
		return cmp.Compare(x.ID, y.ID)
	})
	return out
}

// Len returns the number of tasks.
func (b *TaskBook) Len() int {
	return len(b.tasks)
}

// NextID returns the id the next CreateTask will propose.
func (b *TaskBook) NextID() task.ID {
	return b.nextID
}

// Save persists the book. A no-op for durable backends.
func (b *TaskBook) Save(ctx context.Context) error {
	if b.backend.Durable() {
		return nil
	}
	if err := b.backend.Save(ctx, b.snapshot()); err != nil {
		return fmt.Errorf("save task book: %w", err)
	}
	return nil
}

// Close releases the backend.
func (b *TaskBook) Close() error {
	return b.backend.Close()
}

// bumpNextID moves the counter past id. It stops at math.MaxUint64, where
// CreateTask refuses new tasks instead of wrapping to 0.
func (b *TaskBook) bumpNextID(id task.ID) {
	switch {
	case id < b.nextID:
	case id == math.MaxUint64:
		b.nextID = id
	default:
		b.nextID = id + 1
	}
}

func (b *TaskBook) snapshot() *storage.Snapshot {
	snap := storage.NewSnapshot()
	snap.NextID = b.nextID
	for id, t := range b.tasks {
		snap.Tasks[id] = *t
	}
	return snap
}
