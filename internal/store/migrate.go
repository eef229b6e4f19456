package store

import (
	"context"
	"fmt"
)

// Schema version history:
//
//	v1: task_lists and tasks
//	v2: adds notes (id, title, content, lastModified)
//	v3: adds notes.color, default 0
//	v4: adds notes.isSecured, default 0
//
// Each migration is a forward-only transformation applied inside a
// transaction; added columns carry concrete defaults so existing rows
// stay valid without null handling.
type migration struct {
	version int
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE task_lists (
				id TEXT NOT NULL PRIMARY KEY,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE tasks (
				id TEXT NOT NULL PRIMARY KEY,
				description TEXT NOT NULL,
				dateTime TEXT NOT NULL,
				listId TEXT NOT NULL,
				isCompleted INTEGER NOT NULL DEFAULT 0,
				priority TEXT NOT NULL DEFAULT 'NONE',
				FOREIGN KEY (listId) REFERENCES task_lists(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX index_tasks_listId ON tasks(listId)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`CREATE TABLE notes (
				id TEXT NOT NULL PRIMARY KEY,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				lastModified INTEGER NOT NULL
			)`,
		},
	},
	{
		version: 3,
		stmts: []string{
			`ALTER TABLE notes ADD COLUMN color INTEGER NOT NULL DEFAULT 0`,
		},
	},
	{
		version: 4,
		stmts: []string{
			`ALTER TABLE notes ADD COLUMN isSecured INTEGER NOT NULL DEFAULT 0`,
		},
	},
}

// SchemaVersion is the version this build writes and expects.
const SchemaVersion = 4

// migrate brings the database from its recorded version up to
// SchemaVersion. Version is tracked in PRAGMA user_version; a database
// ahead of this build is fatal rather than silently served.
func (s *Store) migrate(ctx context.Context) error {
	current, err := s.userVersion(ctx)
	if err != nil {
		return err
	}

	if current > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if m.version != current+1 {
			return fmt.Errorf("migration gap: at version %d, next migration is %d", current, m.version)
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration to version %d failed: %w", m.version, err)
		}
		current = m.version
	}

	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) userVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
