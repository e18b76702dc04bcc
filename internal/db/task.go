package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/taskbook/internal/task"
)

// InsertTask stores a new task row and returns the id the table assigned.
// The ID field of t is ignored.
func (d *DB) InsertTask(ctx context.Context, t task.Task) (task.ID, error) {
	res, err := d.driver.Exec(ctx, "INSERT INTO task (content, state) VALUES (?, ?)", t.Content, t.State)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task: last insert id: %w", err)
	}
	return task.ID(id), nil
}

// SetTaskStates updates every row whose id is in ids with a single statement
// and returns the number of rows changed. Ids without a row are ignored.
func (d *DB) SetTaskStates(ctx context.Context, ids []task.ID, state task.State) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// State is bound like the ids, never formatted into the statement.
	args := make([]any, 0, len(ids)+1)
	args = append(args, state)
	holders := make([]string, len(ids))
	for i, id := range ids {
		holders[i] = d.driver.Placeholder(i + 2)
		args = append(args, int64(id))
	}

	query := "UPDATE task SET state = " + d.driver.Placeholder(1) +
		" WHERE id IN (" + strings.Join(holders, ", ") + ")"
	res, err := d.driver.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update task states: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update task states: rows affected: %w", err)
	}
	return n, nil
}

// GetTask retrieves a task by ID. Returns nil, nil when no row exists.
func (d *DB) GetTask(ctx context.Context, id task.ID) (*task.Task, error) {
	var t task.Task
	err := d.driver.QueryRow(ctx, "SELECT id, content, state FROM task WHERE id = ?", int64(id)).
		Scan(&t.ID, &t.Content, &t.State)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// DeleteTask removes a task row and reports whether one existed.
func (d *DB) DeleteTask(ctx context.Context, id task.ID) (bool, error) {
	res, err := d.driver.Exec(ctx, "DELETE FROM task WHERE id = ?", int64(id))
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task %d: rows affected: %w", id, err)
	}
	return n > 0, nil
}

// ListTasks returns every task in id order.
func (d *DB) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := d.driver.Query(ctx, "SELECT id, content, state FROM task ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Content, &t.State); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// NextTaskID returns the id the next insert will receive. AUTOINCREMENT never
// reuses ids, so this comes from sqlite_sequence rather than MAX(id).
func (d *DB) NextTaskID(ctx context.Context) (task.ID, error) {
	var seq int64
	err := d.driver.QueryRow(ctx, "SELECT seq FROM sqlite_sequence WHERE name = 'task'").Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 1, nil
		}
		return 0, fmt.Errorf("read task sequence: %w", err)
	}
	return task.ID(seq + 1), nil
}
