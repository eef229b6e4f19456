package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const taskPrompt = `You are a task parsing assistant. Your job is to take a natural language string and extract the task description and a user-friendly date and time.

Respond with ONLY a valid JSON object in the following format:
{"description": "The task description", "dateTime": "The extracted date and time"}

If the user doesn't specify a date or time, use "Someday".

Here is the user's input:
%q`

// Claude parses tasks with the Anthropic API.
type Claude struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaude builds a Claude-backed parser. The model name comes from
// configuration; the API key from the standard ANTHROPIC_API_KEY
// environment variable unless given explicitly.
func NewClaude(model, apiKey string) *Claude {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &Claude{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

// Parse sends the input to the model and decodes the JSON reply.
func (c *Claude) Parse(ctx context.Context, input string) (Result, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(taskPrompt, input))),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("task parse request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}

	return decodeResult(sb.String())
}

// decodeResult extracts the JSON object from a model reply, tolerating
// surrounding prose or code fences.
func decodeResult(text string) (Result, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Result{}, fmt.Errorf("no JSON object in parser reply")
	}

	var r Result
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return Result{}, fmt.Errorf("failed to decode parser reply: %w", err)
	}
	if strings.TrimSpace(r.Description) == "" {
		return Result{}, fmt.Errorf("parser reply has no description")
	}
	if r.DateTime == "" {
		r.DateTime = "Someday"
	}
	return r, nil
}
