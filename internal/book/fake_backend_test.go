package book

import (
	"context"

	"github.com/randalmurphal/taskbook/internal/storage"
	"github.com/randalmurphal/taskbook/internal/task"
)

// fakeBackend records calls and returns canned results.
type fakeBackend struct {
	snap    *storage.Snapshot
	durable bool

	loadErr   error
	createErr error
	stateErr  error
	deleteErr error
	saveErr   error

	// assignFrom, when non-zero, makes Create assign ids like AUTOINCREMENT.
	assignFrom task.ID

	created    []task.Task
	stateCalls [][]task.ID
	deleted    []task.ID
	saved      []*storage.Snapshot
	closed     bool
}

func (f *fakeBackend) Load(ctx context.Context) (*storage.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.snap == nil {
		return storage.NewSnapshot(), nil
	}
	return f.snap, nil
}

func (f *fakeBackend) Create(ctx context.Context, t *task.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.assignFrom != 0 {
		t.ID = f.assignFrom
		f.assignFrom++
	}
	f.created = append(f.created, *t)
	return nil
}

func (f *fakeBackend) SetState(ctx context.Context, ids []task.ID, state task.State) error {
	if f.stateErr != nil {
		return f.stateErr
	}
	f.stateCalls = append(f.stateCalls, append([]task.ID(nil), ids...))
	return nil
}

func (f *fakeBackend) Find(ctx context.Context, id task.ID) (*task.Task, error) {
	return nil, nil
}

func (f *fakeBackend) Delete(ctx context.Context, id task.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) Save(ctx context.Context, snap *storage.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeBackend) Durable() bool { return f.durable }

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}
