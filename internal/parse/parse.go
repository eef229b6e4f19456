// Package parse turns free-form voice or text input into a task
// description with a display date. Parsing is an external collaborator
// from the core's point of view: failures degrade to "no task", never
// to an error surfaced past the coordinator.
package parse

import "context"

// Result is a parsed task candidate. DateTime is whatever the backend
// produced: a normalized yyyy-MM-dd date, a human phrase, or "Someday"
// when no date was found. It is inserted verbatim.
type Result struct {
	Description string `json:"description"`
	DateTime    string `json:"dateTime"`
}

// TaskParser converts natural-language input into a task candidate.
type TaskParser interface {
	Parse(ctx context.Context, input string) (Result, error)
}
