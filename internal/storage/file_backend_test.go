package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
	"github.com/randalmurphal/taskbook/internal/task"
)

func newFileBackend(t *testing.T) *FileBackend {
	t.Helper()
	return NewFileBackend(filepath.Join(t.TempDir(), "taskbook.json"))
}

func requireCode(t *testing.T, err error, code tberrors.Code) {
	t.Helper()
	require.Error(t, err)
	tbErr := tberrors.AsTaskbookError(err)
	require.NotNil(t, tbErr, "expected a TaskbookError, got %v", err)
	assert.Equal(t, code, tbErr.Code, "error: %v", err)
}

func TestFileBackend_LoadCreatesEmptyStore(t *testing.T) {
	t.Parallel()
	b := NewFileBackend(filepath.Join(t.TempDir(), "nested", "taskbook.json"))

	snap, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, task.ID(0), snap.NextID)

	data, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":{},"nextId":0}`, string(data))
}

func TestFileBackend_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newFileBackend(t)

	done := task.New(0, "buy milk")
	done.SetState(task.StateDone)
	snap := &Snapshot{
		Tasks: map[task.ID]task.Task{
			0: done,
			1: task.New(1, "walk dog"),
			4: {ID: 4, Content: "old", State: task.StateDead},
		},
		NextID: 5,
	}
	require.NoError(t, b.Save(ctx, snap))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Tasks, loaded.Tasks)
	assert.Equal(t, snap.NextID, loaded.NextID)
}

func TestFileBackend_DocumentLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newFileBackend(t)

	snap := NewSnapshot()
	snap.Tasks[0] = task.New(0, "buy milk")
	snap.NextID = 1
	require.NoError(t, b.Save(ctx, snap))

	data, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tasks": {"0": {"id": 0, "content": "buy milk", "state": "Doing"}},
		"nextId": 1
	}`, string(data))

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Contains(t, generic, "nextId")
}

func TestFileBackend_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	b := NewFileBackend(filepath.Join(dir, "taskbook.json"))

	require.NoError(t, b.Save(context.Background(), NewSnapshot()))
	require.NoError(t, b.Save(context.Background(), NewSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "taskbook.json", entries[0].Name())
}

func TestFileBackend_MalformedFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"not json", `{"tasks": {`, "not valid JSON"},
		{"empty file", ``, "not valid JSON"},
		{"missing tasks", `{"nextId": 3}`, `"tasks"`},
		{"tasks not object", `{"tasks": [], "nextId": 0}`, `"tasks"`},
		{"missing nextId", `{"tasks": {}}`, `"nextId"`},
		{"nextId string", `{"tasks": {}, "nextId": "1"}`, `"nextId"`},
		{"negative nextId", `{"tasks": {}, "nextId": -1}`, "could not decode"},
		{"unknown state", `{"tasks": {"0": {"id": 0, "content": "x", "state": "Paused"}}, "nextId": 1}`, "could not decode"},
		{"missing state", `{"tasks": {"0": {"id": 0, "content": "x"}}, "nextId": 1}`, "no state"},
		{"key mismatch", `{"tasks": {"0": {"id": 2, "content": "x", "state": "Done"}}, "nextId": 3}`, "under key 0 has id 2"},
		{"nextId at max", `{"tasks": {}, "nextId": 18446744073709551615}`, "exhausted"},
		{"task id at max", `{"tasks": {"18446744073709551615": {"id": 18446744073709551615, "content": "x", "state": "Doing"}}, "nextId": 0}`, "exhausted"},
		{"non numeric key", `{"tasks": {"a": {"id": 0, "content": "x", "state": "Done"}}, "nextId": 1}`, "could not decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := newFileBackend(t)
			require.NoError(t, os.WriteFile(b.Path(), []byte(tt.content), 0o644))

			snap, err := b.Load(context.Background())
			assert.Nil(t, snap)
			requireCode(t, err, tberrors.CodeStoreCorrupt)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), b.Path())
		})
	}
}

func TestFileBackend_LegacyUpperCaseStates(t *testing.T) {
	t.Parallel()
	b := newFileBackend(t)
	content := `{"tasks": {"0": {"id": 0, "content": "x", "state": "DONE"}}, "nextId": 1}`
	require.NoError(t, os.WriteFile(b.Path(), []byte(content), 0o644))

	snap, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, task.StateDone, snap.Tasks[0].State)
}

func TestFileBackend_RepairsLaggingCounter(t *testing.T) {
	t.Parallel()
	b := newFileBackend(t)
	content := `{"tasks": {"3": {"id": 3, "content": "x", "state": "Doing"}}, "nextId": 2}`
	require.NoError(t, os.WriteFile(b.Path(), []byte(content), 0o644))

	snap, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, task.ID(4), snap.NextID)
}

func TestFileBackend_UnreadableStore(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "taskbook.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks":{},"nextId":0}`), 0o000))

	_, err := NewFileBackend(path).Load(context.Background())
	requireCode(t, err, tberrors.CodeStoreUnavailable)
}

func TestFileBackend_PathIsDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := NewFileBackend(dir).Load(context.Background())
	requireCode(t, err, tberrors.CodeStoreUnavailable)

	err = NewFileBackend(dir).Save(context.Background(), NewSnapshot())
	requireCode(t, err, tberrors.CodeStoreWriteFailed)
}

func TestFileBackend_Find(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newFileBackend(t)

	got, err := b.Find(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, got, "missing file has no tasks")

	snap := NewSnapshot()
	snap.Tasks[0] = task.New(0, "x")
	snap.NextID = 1
	require.NoError(t, b.Save(ctx, snap))

	got, err = b.Find(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Content)

	got, err = b.Find(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileBackend_MutationsWaitForSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newFileBackend(t)

	_, err := b.Load(ctx)
	require.NoError(t, err)

	tk := task.New(0, "x")
	require.NoError(t, b.Create(ctx, &tk))
	assert.Equal(t, task.ID(0), tk.ID, "file backend keeps the book's id")
	require.NoError(t, b.SetState(ctx, []task.ID{0}, task.StateDone))
	require.NoError(t, b.Delete(ctx, 0))

	got, err := b.Find(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, b.Durable())
	assert.NoError(t, b.Close())
}
