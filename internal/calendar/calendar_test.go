package calendar

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEventTaskDateTime(t *testing.T) {
	start := time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)

	timed := Event{Title: "Standup", Start: start}
	if got := timed.TaskDateTime(); got != "2024-01-05 09:30:00" {
		t.Errorf("TaskDateTime() = %q", got)
	}

	allDay := Event{Title: "Holiday", Start: start, AllDay: true}
	if got := allDay.TaskDateTime(); got != "2024-01-05 00:00:00" {
		t.Errorf("all-day TaskDateTime() = %q", got)
	}

	// The leading 10 characters are the de-dup key.
	if timed.TaskDateTime()[:10] != allDay.TaskDateTime()[:10] {
		t.Error("same-day events have different date prefixes")
	}
}

func TestEventTaskDescription(t *testing.T) {
	ev := Event{Title: "Standup", Calendar: "Work"}
	if got := ev.TaskDescription(); got != "Standup (from Work)" {
		t.Errorf("TaskDescription() = %q", got)
	}

	blank := Event{}
	if got := blank.TaskDescription(); got != "Untitled Event (from Calendar)" {
		t.Errorf("blank TaskDescription() = %q", got)
	}
}

func TestFileSource(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Title: "yesterday", Start: now.AddDate(0, 0, -1)},
		{Title: "soon", Start: now.AddDate(0, 0, 3)},
		{Title: "far", Start: now.AddDate(0, 0, 60)},
	}

	path := filepath.Join(t.TempDir(), "events.json")
	data, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	src := NewFileSource(path)
	src.now = func() time.Time { return now }

	got, err := src.UpcomingEvents(context.Background(), 30)
	if err != nil {
		t.Fatalf("UpcomingEvents() failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "soon" {
		t.Errorf("UpcomingEvents() = %+v, want only the in-window event", got)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := src.UpcomingEvents(context.Background(), 30); err == nil {
		t.Error("UpcomingEvents() succeeded on a missing file")
	}
}
