package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileSource reads events from a JSON export file: a top-level array of
// Event objects. It stands in for a live device-calendar provider.
type FileSource struct {
	path string
	now  func() time.Time
}

// NewFileSource creates a source backed by a JSON events file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, now: time.Now}
}

// UpcomingEvents returns events starting between now and daysAhead days
// out, in start order as found in the file.
func (f *FileSource) UpcomingEvents(ctx context.Context, daysAhead int) ([]Event, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var all []Event
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse events file %s: %w", f.path, err)
	}

	start := f.now()
	end := start.AddDate(0, 0, daysAhead)

	var upcoming []Event
	for _, e := range all {
		if e.Start.Before(start) || e.Start.After(end) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	return upcoming, nil
}
