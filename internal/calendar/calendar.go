// Package calendar defines the calendar-import boundary. A Source
// produces events from somewhere outside the core (a device provider,
// an export file); the coordinator turns them into tasks with
// de-duplication against what is already stored.
package calendar

import (
	"context"
	"fmt"
	"time"
)

// Event is one calendar entry handed to the core.
type Event struct {
	Title    string    `json:"title"`
	Calendar string    `json:"calendar"`
	Start    time.Time `json:"start"`
	AllDay   bool      `json:"all_day"`
}

// Source yields upcoming events. Failures at this boundary degrade to
// an empty result; they never propagate into the core as errors the
// caller must handle beyond logging.
type Source interface {
	UpcomingEvents(ctx context.Context, daysAhead int) ([]Event, error)
}

// TaskDescription renders the event as a task description, keeping the
// originating calendar visible.
func (e Event) TaskDescription() string {
	title := e.Title
	if title == "" {
		title = "Untitled Event"
	}
	cal := e.Calendar
	if cal == "" {
		cal = "Calendar"
	}
	return fmt.Sprintf("%s (from %s)", title, cal)
}

// TaskDateTime renders the event start as the stored dateTime string.
// All-day events pin the time portion to midnight. The leading 10
// characters are the date and drive import de-duplication.
func (e Event) TaskDateTime() string {
	if e.AllDay {
		return e.Start.Format("2006-01-02") + " 00:00:00"
	}
	return e.Start.Format("2006-01-02 15:04:05")
}
