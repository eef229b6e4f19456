package parse

import (
	"context"
	"testing"
	"time"
)

func fixedLocal(t *testing.T) *Local {
	t.Helper()
	l := NewLocal()
	l.now = func() time.Time {
		return time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	}
	return l
}

func TestLocalParse_NoDateFallsBackToSomeday(t *testing.T) {
	l := fixedLocal(t)

	r, err := l.Parse(context.Background(), "water the plants")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if r.Description != "water the plants" {
		t.Errorf("description = %q", r.Description)
	}
	if r.DateTime != "Someday" {
		t.Errorf("dateTime = %q, want Someday", r.DateTime)
	}
}

func TestLocalParse_ExtractsDate(t *testing.T) {
	l := fixedLocal(t)

	r, err := l.Parse(context.Background(), "buy milk tomorrow")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if r.DateTime != "2024-01-06" {
		t.Errorf("dateTime = %q, want 2024-01-06", r.DateTime)
	}
	if r.Description != "buy milk" {
		t.Errorf("description = %q, want the date phrase stripped", r.Description)
	}
}

func TestLocalParse_EmptyInput(t *testing.T) {
	l := fixedLocal(t)

	if _, err := l.Parse(context.Background(), "   "); err == nil {
		t.Error("Parse() accepted blank input")
	}
}

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Result
		wantErr bool
	}{
		{
			name: "bare json",
			text: `{"description": "buy milk", "dateTime": "tomorrow"}`,
			want: Result{Description: "buy milk", DateTime: "tomorrow"},
		},
		{
			name: "fenced json",
			text: "```json\n{\"description\": \"buy milk\", \"dateTime\": \"Someday\"}\n```",
			want: Result{Description: "buy milk", DateTime: "Someday"},
		},
		{
			name: "missing dateTime defaults to Someday",
			text: `{"description": "buy milk"}`,
			want: Result{Description: "buy milk", DateTime: "Someday"},
		},
		{
			name:    "no json",
			text:    "I could not parse that.",
			wantErr: true,
		},
		{
			name:    "empty description",
			text:    `{"description": "", "dateTime": "tomorrow"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeResult(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("decodeResult() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeResult() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeResult() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
