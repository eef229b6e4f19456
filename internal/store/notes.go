package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/myday-app/myday/internal/record"
)

// InsertNote inserts a note with upsert semantics. Notes have no
// foreign keys; they stand alone.
func (s *Store) InsertNote(ctx context.Context, note record.Note) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}

	query := `
	INSERT INTO notes (id, title, content, lastModified, color, isSecured)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		content = excluded.content,
		lastModified = excluded.lastModified,
		color = excluded.color,
		isSecured = excluded.isSecured
	`

	_, err := s.conn.ExecContext(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		note.LastModified.UnixMilli(),
		note.Color,
		note.IsSecured,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note %s: %w", note.ID, err)
	}
	return nil
}

// UpdateNote updates an existing note in place. Notes are not
// versioned; the prior content is gone after this commits.
func (s *Store) UpdateNote(ctx context.Context, note record.Note) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}

	query := `
	UPDATE notes
	SET title = ?, content = ?, lastModified = ?, color = ?, isSecured = ?
	WHERE id = ?
	`

	_, err := s.conn.ExecContext(ctx, query,
		note.Title,
		note.Content,
		note.LastModified.UnixMilli(),
		note.Color,
		note.IsSecured,
		note.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", note.ID, err)
	}
	return nil
}

// DeleteNote removes a note. Returns nil if it doesn't exist.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	query := `DELETE FROM notes WHERE id = ?`
	if _, err := s.conn.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}

const noteColumns = `id, title, content, lastModified, color, isSecured`

// Notes returns all notes, most recently modified first.
func (s *Store) Notes(ctx context.Context) ([]record.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY lastModified DESC, id`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []record.Note
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	return notes, nil
}

// NoteByID returns a single note, or (nil, nil) if absent.
func (s *Store) NoteByID(ctx context.Context, id string) (*record.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`
	row := s.conn.QueryRowContext(ctx, query, id)
	n, err := scanNote(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note %s: %w", id, err)
	}
	return &n, nil
}

func scanNote(scan func(...any) error) (record.Note, error) {
	var n record.Note
	var modified int64
	if err := scan(&n.ID, &n.Title, &n.Content, &modified, &n.Color, &n.IsSecured); err != nil {
		return record.Note{}, err
	}
	n.LastModified = time.UnixMilli(modified)
	return n, nil
}
