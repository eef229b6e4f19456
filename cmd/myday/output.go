package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/myday-app/myday/internal/record"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle     = lipgloss.NewStyle().Faint(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)

	priorityStyles = map[record.Priority]lipgloss.Style{
		record.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		record.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		record.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

func printTaskLists(lists []record.TaskList, taskCounts map[string]int) {
	if len(lists) == 0 {
		fmt.Println("No task lists.")
		return
	}
	fmt.Println(headerStyle.Render("LISTS"))
	for _, l := range lists {
		fmt.Printf("  %s  %s (%d tasks)\n", idStyle.Render(shortID(l.ID)), l.Name, taskCounts[l.ID])
	}
}

func printTasks(tasks []record.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range tasks {
		mark := "[ ]"
		desc := t.Description
		if t.IsCompleted {
			mark = "[x]"
			desc = doneStyle.Render(desc)
		}
		line := fmt.Sprintf("%s %s  %s", mark, idStyle.Render(shortID(t.ID)), desc)
		if t.Priority != record.PriorityNone {
			style := priorityStyles[t.Priority]
			line += "  " + style.Render(string(t.Priority))
		}
		if t.DateTime != record.DateTimeSomeday {
			line += "  " + idStyle.Render(t.DateTime)
		}
		fmt.Println(line)
	}
}

func printNotes(notes []record.Note) {
	if len(notes) == 0 {
		fmt.Println("No notes.")
		return
	}
	for _, n := range notes {
		title := n.Title
		preview := n.Content
		if n.IsSecured {
			title = obscure(title, 20)
			preview = obscure(preview, 50)
		}
		preview = truncate(preview, 50)
		fmt.Printf("%s  %s\n", idStyle.Render(shortID(n.ID)), headerStyle.Render(title))
		if preview != "" {
			fmt.Printf("    %s\n", preview)
		}
	}
}

// truncate shortens s to max runes, appending an ellipsis. Counting
// runes keeps multi-byte text from being cut mid-sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// obscure masks secured note text in list views, as the notes screen
// does for PIN-gated notes.
func obscure(s string, max int) string {
	n := len([]rune(s))
	if n > max {
		n = max
	}
	return strings.Repeat("•", n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
