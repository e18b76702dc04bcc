package storage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/tidwall/gjson"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
	"github.com/randalmurphal/taskbook/internal/task"
)

// snapshotPerm is the mode of the snapshot file.
const snapshotPerm = 0644

// FileBackend keeps the whole task book in one JSON document:
//
//	{"tasks": {"0": {"id": 0, "content": "...", "state": "Doing"}}, "nextId": 1}
//
// Create, SetState and Delete touch nothing on disk; the book reaches the
// file on Save.
type FileBackend struct {
	path string
}

// NewFileBackend creates a snapshot backend for the file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the snapshot file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the snapshot. A missing file is created holding an empty book.
func (b *FileBackend) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		snap := NewSnapshot()
		if err := b.Save(ctx, snap); err != nil {
			return nil, tberrors.ErrStoreUnavailable(b.path, "could not create an empty store").WithCause(err)
		}
		slog.Debug("created empty task store", "path", b.path)
		return snap, nil
	}
	if err != nil {
		return nil, tberrors.ErrStoreUnavailable(b.path, "could not read the store").WithCause(err)
	}

	snap, err := decodeSnapshot(b.path, data)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded task store", "path", b.path, "tasks", len(snap.Tasks), "next_id", snap.NextID)
	return snap, nil
}

// Create is a no-op; the task is written by the next Save.
func (b *FileBackend) Create(ctx context.Context, t *task.Task) error {
	return nil
}

// SetState is a no-op; the change is written by the next Save.
func (b *FileBackend) SetState(ctx context.Context, ids []task.ID, state task.State) error {
	return nil
}

// Delete is a no-op; the removal is written by the next Save.
func (b *FileBackend) Delete(ctx context.Context, id task.ID) error {
	return nil
}

// Find looks id up in the file as last saved.
func (b *FileBackend) Find(ctx context.Context, id task.ID) (*task.Task, error) {
	data, err := os.ReadFile(b.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, tberrors.ErrStoreUnavailable(b.path, "could not read the store").WithCause(err)
	}

	snap, err := decodeSnapshot(b.path, data)
	if err != nil {
		return nil, err
	}
	t, ok := snap.Tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Save overwrites the file with snap.
func (b *FileBackend) Save(ctx context.Context, snap *Snapshot) error {
	out := *snap
	if out.Tasks == nil {
		out.Tasks = map[task.ID]task.Task{}
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return tberrors.ErrStoreWriteFailed(b.path).WithCause(err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(b.path, data, snapshotPerm); err != nil {
		return tberrors.ErrStoreWriteFailed(b.path).WithCause(err)
	}
	slog.Debug("saved task store", "path", b.path, "tasks", len(out.Tasks), "next_id", out.NextID)
	return nil
}

// Durable returns false: changes need Save.
func (b *FileBackend) Durable() bool {
	return false
}

// Close is a no-op; no handle is held between calls.
func (b *FileBackend) Close() error {
	return nil
}

// decodeSnapshot parses a snapshot document. It fails rather than returning
// a partially populated snapshot.
func decodeSnapshot(path string, data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, tberrors.ErrStoreCorrupt(path, "file is not valid JSON")
	}

	// Probe the shape first so a missing key is named instead of decoding
	// to a zero value.
	if tasks := gjson.GetBytes(data, "tasks"); !tasks.IsObject() {
		return nil, tberrors.ErrStoreCorrupt(path, `"tasks" must be an object`)
	}
	if next := gjson.GetBytes(data, "nextId"); next.Type != gjson.Number {
		return nil, tberrors.ErrStoreCorrupt(path, `"nextId" must be a number`)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, tberrors.ErrStoreCorrupt(path, "could not decode tasks").WithCause(err)
	}
	if snap.Tasks == nil {
		snap.Tasks = make(map[task.ID]task.Task)
	}

	var maxID task.ID
	for key, t := range snap.Tasks {
		if key != t.ID {
			return nil, tberrors.ErrStoreCorrupt(path, fmt.Sprintf("task stored under key %d has id %d", key, t.ID))
		}
		if !t.State.Valid() {
			return nil, tberrors.ErrStoreCorrupt(path, fmt.Sprintf("task %d has no state", t.ID))
		}
		if t.ID >= maxID {
			maxID = t.ID
		}
	}

	if snap.NextID == math.MaxUint64 || maxID == math.MaxUint64 {
		return nil, tberrors.ErrStoreCorrupt(path, "id counter is exhausted")
	}

	if len(snap.Tasks) > 0 && snap.NextID <= maxID {
		slog.Warn("task store id counter behind stored ids, repairing",
			"path", path, "next_id", snap.NextID, "max_id", maxID)
		snap.NextID = maxID + 1
	}

	return &snap, nil
}
