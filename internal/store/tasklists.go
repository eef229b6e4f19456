package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/myday-app/myday/internal/record"
)

// InsertTaskList inserts a list. A second insert with an existing id
// replaces the prior row entirely (upsert semantics).
func (s *Store) InsertTaskList(ctx context.Context, list record.TaskList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("invalid task list: %w", err)
	}

	query := `
	INSERT INTO task_lists (id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name
	`

	if _, err := s.conn.ExecContext(ctx, query, list.ID, list.Name); err != nil {
		return fmt.Errorf("failed to insert task list %s: %w", list.ID, err)
	}
	return nil
}

// UpdateTaskList updates an existing list. Updating an absent id is a
// no-op at the storage level.
func (s *Store) UpdateTaskList(ctx context.Context, list record.TaskList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("invalid task list: %w", err)
	}

	query := `UPDATE task_lists SET name = ? WHERE id = ?`
	if _, err := s.conn.ExecContext(ctx, query, list.Name, list.ID); err != nil {
		return fmt.Errorf("failed to update task list %s: %w", list.ID, err)
	}
	return nil
}

// DeleteTaskList removes a list. All tasks referencing it are deleted
// by the engine's ON DELETE CASCADE in the same statement, so readers
// never observe orphaned tasks. Returns nil if the list doesn't exist.
func (s *Store) DeleteTaskList(ctx context.Context, id string) error {
	query := `DELETE FROM task_lists WHERE id = ?`
	if _, err := s.conn.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete task list %s: %w", id, err)
	}
	return nil
}

// TaskLists returns all lists ordered by name.
func (s *Store) TaskLists(ctx context.Context) ([]record.TaskList, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, name FROM task_lists ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query task lists: %w", err)
	}
	defer rows.Close()

	var lists []record.TaskList
	for rows.Next() {
		var l record.TaskList
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("failed to scan task list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task lists: %w", err)
	}
	return lists, nil
}

// TaskListByID returns a single list, or (nil, nil) if absent.
func (s *Store) TaskListByID(ctx context.Context, id string) (*record.TaskList, error) {
	var l record.TaskList
	err := s.conn.QueryRowContext(ctx, `SELECT id, name FROM task_lists WHERE id = ?`, id).
		Scan(&l.ID, &l.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task list %s: %w", id, err)
	}
	return &l, nil
}

// TaskListByName returns the first list with the given name, or
// (nil, nil) if none exists.
func (s *Store) TaskListByName(ctx context.Context, name string) (*record.TaskList, error) {
	var l record.TaskList
	err := s.conn.QueryRowContext(ctx, `SELECT id, name FROM task_lists WHERE name = ? LIMIT 1`, name).
		Scan(&l.ID, &l.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task list %q: %w", name, err)
	}
	return &l, nil
}
