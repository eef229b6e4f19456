// Package record defines the three persisted record kinds: task lists,
// tasks, and notes. These structures map one-to-one onto rows in the
// store and carry no behavior beyond validation and small derivations.
package record

// Kind identifies a record kind in change notifications.
type Kind string

const (
	KindTaskList Kind = "task_list"
	KindTask     Kind = "task"
	KindNote     Kind = "note"
)
