package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateTimeSomeday is the dateTime value for tasks without a date.
const DateTimeSomeday = "Someday"

// DateOnlyFormat is the strict date layout used by manual date
// selection and by date-derived views.
const DateOnlyFormat = "2006-01-02"

// Priority is a task's urgency level. It is persisted as its name
// string so that round-trips are trivially comparable.
type Priority string

const (
	PriorityNone   Priority = "NONE"
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists all levels in cycling order.
var Priorities = []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}

// Next returns the following level in the NONE->LOW->MEDIUM->HIGH->NONE
// cycle. Unknown values reset to NONE.
func (p Priority) Next() Priority {
	switch p {
	case PriorityNone:
		return PriorityLow
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityNone
	}
}

// Valid reports whether p is one of the four known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single actionable item owned by a TaskList.
//
// DateTime is intentionally loose: it holds "Someday", a normalized
// yyyy-MM-dd date from manual selection, a "yyyy-MM-dd HH:mm:ss" string
// from calendar import, or free-form text from voice parsing. Consumers
// that need a real date parse it best-effort and skip what doesn't
// conform.
type Task struct {
	ID          string
	Description string
	DateTime    string
	ListID      string
	IsCompleted bool
	Priority    Priority
}

// NewTask creates a task with a fresh id and default priority.
func NewTask(description, dateTime, listID string) Task {
	return Task{
		ID:          uuid.NewString(),
		Description: description,
		DateTime:    dateTime,
		ListID:      listID,
		Priority:    PriorityNone,
	}
}

// Date parses DateTime as a strict yyyy-MM-dd date. The second return
// is false for "Someday", calendar timestamps, and free-form phrases.
func (t Task) Date() (time.Time, bool) {
	d, err := time.Parse(DateOnlyFormat, t.DateTime)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Validate checks that the task is storable. Referential integrity of
// ListID is the store's job; here we only require it to be present.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has no id")
	}
	if t.ListID == "" {
		return fmt.Errorf("task %s has no list id", t.ID)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("task %s has unknown priority %q", t.ID, t.Priority)
	}
	return nil
}

// FormatDate renders a due date in the normalized yyyy-MM-dd form used
// by manual date selection.
func FormatDate(d time.Time) string {
	return d.Format(DateOnlyFormat)
}
