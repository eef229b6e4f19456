package record

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CalendarListID is the fixed id of the list that holds imported
// calendar events. It is created lazily on first import and is the only
// list whose id is not a generated UUID.
const CalendarListID = "device_calendar"

// CalendarListName is the display name of the calendar import list.
const CalendarListName = "Calendar Events"

// DefaultListName is the name of the list created on first startup.
const DefaultListName = "General"

// TaskList is a named container for tasks. Deleting a list deletes all
// tasks that reference it; the store enforces the cascade.
type TaskList struct {
	ID   string
	Name string
}

// NewTaskList creates a list with a fresh id.
func NewTaskList(name string) TaskList {
	return TaskList{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// Validate checks that the list is storable.
func (l TaskList) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("task list has no id")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("task list %s has no name", l.ID)
	}
	return nil
}
