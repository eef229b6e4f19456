package record

import "testing"

func TestNewNote_ColorFromPalette(t *testing.T) {
	palette := make(map[int64]bool, len(NoteColors))
	for _, c := range NoteColors {
		palette[c] = true
	}

	for i := 0; i < 50; i++ {
		n := NewNote("T", "C")
		if !palette[n.Color] {
			t.Fatalf("note color %#x is not in the palette", n.Color)
		}
	}
}

func TestNoteIsBlank(t *testing.T) {
	tests := []struct {
		title, content string
		want           bool
	}{
		{"", "", true},
		{"  ", "\t", true},
		{"T", "", false},
		{"", "C", false},
		{"T", "C", false},
	}
	for _, tt := range tests {
		n := Note{Title: tt.title, Content: tt.content}
		if got := n.IsBlank(); got != tt.want {
			t.Errorf("IsBlank(%q, %q) = %v, want %v", tt.title, tt.content, got, tt.want)
		}
	}
}

func TestNoteValidate_BlankRejected(t *testing.T) {
	n := NewNote("", "")
	if err := n.Validate(); err == nil {
		t.Error("blank note validated")
	}
}

func TestNewNote_Defaults(t *testing.T) {
	n := NewNote("title", "content")
	if n.ID == "" {
		t.Error("NewNote() generated no id")
	}
	if n.LastModified.IsZero() {
		t.Error("NewNote() left LastModified zero")
	}
	if n.IsSecured {
		t.Error("new note is secured")
	}
}
