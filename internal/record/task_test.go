package record

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPriorityNext_Steps(t *testing.T) {
	steps := map[Priority]Priority{
		PriorityNone:   PriorityLow,
		PriorityLow:    PriorityMedium,
		PriorityMedium: PriorityHigh,
		PriorityHigh:   PriorityNone,
	}
	for from, want := range steps {
		if got := from.Next(); got != want {
			t.Errorf("%s.Next() = %s, want %s", from, got, want)
		}
	}
}

// Cycling four times must always return to the starting level.
func TestPriorityNext_CycleClosure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom(Priorities).Draw(t, "start")
		p := start
		for i := 0; i < 4; i++ {
			p = p.Next()
		}
		if p != start {
			t.Fatalf("four cycles from %s ended at %s", start, p)
		}
	})
}

func TestPriorityNext_UnknownResetsToNone(t *testing.T) {
	if got := Priority("URGENT").Next(); got != PriorityNone {
		t.Errorf("unknown priority cycled to %s, want NONE", got)
	}
}

func TestTaskDate(t *testing.T) {
	tests := []struct {
		dateTime string
		wantOK   bool
	}{
		{"2024-01-05", true},
		{"Someday", false},
		{"2024-01-05 09:00:00", false},
		{"next tuesday afternoon", false},
		{"", false},
	}
	for _, tt := range tests {
		task := Task{DateTime: tt.dateTime}
		d, ok := task.Date()
		if ok != tt.wantOK {
			t.Errorf("Date(%q) ok = %v, want %v", tt.dateTime, ok, tt.wantOK)
			continue
		}
		if ok && FormatDate(d) != tt.dateTime {
			t.Errorf("Date(%q) round-tripped to %q", tt.dateTime, FormatDate(d))
		}
	}
}

func TestNewTask_Defaults(t *testing.T) {
	task := NewTask("water plants", DateTimeSomeday, "list-1")
	if task.ID == "" {
		t.Error("NewTask() generated no id")
	}
	if task.Priority != PriorityNone {
		t.Errorf("new task priority = %s, want NONE", task.Priority)
	}
	if task.IsCompleted {
		t.Error("new task is completed")
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestTaskValidate_Errors(t *testing.T) {
	if err := (Task{ListID: "l", Priority: PriorityNone}).Validate(); err == nil {
		t.Error("task without id validated")
	}
	if err := (Task{ID: "t", Priority: PriorityNone}).Validate(); err == nil {
		t.Error("task without list validated")
	}
	if err := (Task{ID: "t", ListID: "l", Priority: "URGENT"}).Validate(); err == nil {
		t.Error("task with unknown priority validated")
	}
}
