package parse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Local parses tasks offline with rule-based natural-language date
// extraction. It is the fallback when no API key is configured and the
// default in tests.
type Local struct {
	w   *when.Parser
	now func() time.Time
}

// NewLocal builds the offline parser with English and common rules.
func NewLocal() *Local {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Local{w: w, now: time.Now}
}

// Parse extracts a date phrase from the input. The matched phrase is
// cut from the description and the date normalized to yyyy-MM-dd; input
// without a recognizable date keeps the full text and gets "Someday".
func (l *Local) Parse(ctx context.Context, input string) (Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Result{}, fmt.Errorf("empty input")
	}

	r, err := l.w.Parse(input, l.now())
	if err != nil || r == nil {
		return Result{Description: input, DateTime: "Someday"}, nil
	}

	desc := strings.TrimSpace(input[:r.Index] + input[r.Index+len(r.Text):])
	desc = strings.Trim(desc, " ,.")
	if desc == "" {
		desc = input
	}

	return Result{
		Description: desc,
		DateTime:    r.Time.Format("2006-01-02"),
	}, nil
}
