package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/todo/internal/task"
)

const displayLayout = "2006-01-02 15:04:05"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	metaStyle    = lipgloss.NewStyle().Faint(true)
)

var priorityIcons = map[task.Priority]string{
	task.PriorityHigh:   "🔴",
	task.PriorityMedium: "🟡",
	task.PriorityLow:    "🟢",
}

func renderTasks(w io.Writer, tasks []task.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Tasks:") + "\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", 45)) + "\n")
	for _, t := range tasks {
		status := pendingStyle.Render("○")
		if t.Completed {
			status = doneStyle.Render("✓")
		}
		tags := ""
		if len(t.Tags) > 0 {
			tags = " " + tagStyle.Render("["+strings.Join(t.Tags, ", ")+"]")
		}
		fmt.Fprintf(&b, "%s #%d %s %s%s\n", status, t.ID, priorityIcons[t.Priority], t.Description, tags)
		b.WriteString(metaStyle.Render("    Created: "+t.CreatedAt.Format(displayLayout)) + "\n")
		if t.Completed && t.CompletedAt != nil {
			b.WriteString(metaStyle.Render("    Completed: "+t.CompletedAt.Format(displayLayout)) + "\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
