package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/myday-app/myday/internal/record"
)

// InsertTask inserts a task with upsert semantics: a second insert with
// an existing id fully overwrites the prior row.
//
// A task whose listId does not reference an existing list is rejected
// by the engine's foreign key check; the store never accepts orphaned
// references.
func (s *Store) InsertTask(ctx context.Context, task record.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	query := `
	INSERT INTO tasks (id, description, dateTime, listId, isCompleted, priority)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		description = excluded.description,
		dateTime = excluded.dateTime,
		listId = excluded.listId,
		isCompleted = excluded.isCompleted,
		priority = excluded.priority
	`

	_, err := s.conn.ExecContext(ctx, query,
		task.ID,
		task.Description,
		task.DateTime,
		task.ListID,
		task.IsCompleted,
		string(task.Priority),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
	}
	return nil
}

// UpdateTask updates an existing task. Moving a task to a nonexistent
// list is rejected by the foreign key check.
func (s *Store) UpdateTask(ctx context.Context, task record.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	query := `
	UPDATE tasks
	SET description = ?, dateTime = ?, listId = ?, isCompleted = ?, priority = ?
	WHERE id = ?
	`

	_, err := s.conn.ExecContext(ctx, query,
		task.Description,
		task.DateTime,
		task.ListID,
		task.IsCompleted,
		string(task.Priority),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes a task. Returns nil if it doesn't exist.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	if _, err := s.conn.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

const taskColumns = `id, description, dateTime, listId, isCompleted, priority`

// Tasks returns all tasks across all lists.
func (s *Store) Tasks(ctx context.Context) ([]record.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY dateTime, id`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// TasksForList returns all tasks owned by one list.
func (s *Store) TasksForList(ctx context.Context, listID string) ([]record.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE listId = ? ORDER BY dateTime, id`
	rows, err := s.conn.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for list %s: %w", listID, err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// TaskByID returns a single task, or (nil, nil) if absent.
func (s *Store) TaskByID(ctx context.Context, id string) (*record.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	var t record.Task
	var priority string
	err := s.conn.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Description, &t.DateTime, &t.ListID, &t.IsCompleted, &priority)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task %s: %w", id, err)
	}
	t.Priority = record.Priority(priority)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]record.Task, error) {
	var tasks []record.Task
	for rows.Next() {
		var t record.Task
		var priority string
		if err := rows.Scan(&t.ID, &t.Description, &t.DateTime, &t.ListID, &t.IsCompleted, &priority); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Priority = record.Priority(priority)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}
