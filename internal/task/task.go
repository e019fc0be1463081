// Package task holds the to-do item model and the in-memory store that owns it.
package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists every priority in declaration order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority matches name against the priority names exactly.
func ParsePriority(name string) (Priority, error) {
	for _, p := range Priorities {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", name)
}

// ParsePriorityFold is ParsePriority ignoring case, for user input.
func ParsePriorityFold(name string) (Priority, error) {
	return ParsePriority(strings.ToUpper(strings.TrimSpace(name)))
}

// Filter keywords recognized by MatchesFilter. Anything else matches every task.
const (
	FilterCompleted = "completed"
	FilterPending   = "pending"
)

// Task is one to-do item. Values are treated as immutable: transitions return a new Task.
type Task struct {
	ID          int
	Description string
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
	Tags        []string
}

// New builds a pending task created at createdAt.
func New(id int, description string, priority Priority, tags []string, createdAt time.Time) Task {
	return Task{
		ID:          id,
		Description: description,
		Priority:    priority,
		CreatedAt:   createdAt,
		Tags:        cloneTags(tags),
	}
}

// MarkCompleted returns a copy of t completed at the given time.
// It does not check whether t was already completed.
func (t Task) MarkCompleted(at time.Time) Task {
	done := t.Clone()
	done.Completed = true
	done.CompletedAt = &at
	return done
}

// MatchesFilter reports whether t is selected by filter.
// "completed" and "pending" are matched case-insensitively; an empty or unknown filter matches.
func (t Task) MatchesFilter(filter string) bool {
	switch strings.ToLower(filter) {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	out := t
	out.Tags = cloneTags(t.Tags)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
