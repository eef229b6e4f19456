package record

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoteColors is the fixed palette notes are colored from. Values are
// packed ARGB, matching what the color picker offers.
var NoteColors = []int64{
	0xFFFFFFFF, // white
	0xFFF28B82, // red
	0xFFFBBC04, // orange
	0xFFFFF475, // yellow
	0xFFCCFF90, // green
	0xFFA7FFEB, // teal
	0xFFCBF0F8, // blue
	0xFFAECBFA, // sky
	0xFFD7AEFB, // purple
	0xFFFDCFE8, // pink
	0xFFE6C9A8, // brown
	0xFFE8EAED, // gray
}

// RandomNoteColor picks a palette color for a new note.
func RandomNoteColor() int64 {
	return NoteColors[rand.Intn(len(NoteColors))]
}

// Note is a free-form text record. Title and content may each be blank
// but callers must not persist a note where both are.
//
// LastModified is set at construction and deliberately not refreshed on
// update, matching the observed behavior of the app this store was
// extracted from.
type Note struct {
	ID           string
	Title        string
	Content      string
	LastModified time.Time
	Color        int64
	IsSecured    bool
}

// NewNote creates a note with a fresh id, the current timestamp, and a
// random palette color.
func NewNote(title, content string) Note {
	return Note{
		ID:           uuid.NewString(),
		Title:        title,
		Content:      content,
		LastModified: time.Now(),
		Color:        RandomNoteColor(),
	}
}

// IsBlank reports whether both title and content are empty. Blank notes
// are never persisted.
func (n Note) IsBlank() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == ""
}

// Validate checks that the note is storable.
func (n Note) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("note has no id")
	}
	if n.IsBlank() {
		return fmt.Errorf("note %s has neither title nor content", n.ID)
	}
	return nil
}
