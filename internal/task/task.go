// Package task defines the task entity and its lifecycle state.
package task

import (
	"strconv"
	"strings"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// ID identifies a task within a task book. IDs are never reused.
type ID uint64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal task id as typed on the command line.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, tberrors.ErrTaskIDInvalid(s).WithCause(err)
	}
	return ID(v), nil
}

// Task is a single to-do item. ID and Content never change after creation.
type Task struct {
	ID      ID     `json:"id"`
	Content string `json:"content"`
	State   State  `json:"state"`
}

// New creates a task in the Doing state.
func New(id ID, content string) Task {
	return Task{
		ID:      id,
		Content: content,
		State:   StateDoing,
	}
}

// SetState overwrites the task state. Any state may follow any other.
func (t *Task) SetState(s State) {
	t.State = s
}
