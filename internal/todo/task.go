package todo

import (
	"fmt"
	"strings"
	"time"
)

// MaxTextLength is the maximum task text length, in characters, accepted by Add.
const MaxTextLength = 15

// Priority is the urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the known priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities: high 1, medium 2, low 3. Unknown values rank 4.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() < 4
}

// ParsePriority parses a priority name. An empty string yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: high, medium, low", s)
	}
	return p, nil
}

// Task is a single todo record.
type Task struct {
	ID        int64
	Text      string
	Completed bool
	Priority  Priority
	Date      *time.Time
	Memo      string
}

// HasDate reports whether the task has a due date.
func (t Task) HasDate() bool {
	return t.Date != nil
}

// clone returns a copy that shares no memory with t.
func (t Task) clone() Task {
	if t.Date != nil {
		d := *t.Date
		t.Date = &d
	}
	return t
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].clone()
	}
	return out
}

// dateOnlyLayout is a calendar day without a time of day.
const dateOnlyLayout = "2006-01-02"

// ParseDate parses a user-supplied due date in loc. Accepted layouts are
// RFC 3339, "2006-01-02T15:04:05" (optionally with fractional seconds),
// "2006-01-02T15:04", "2006-01-02 15:04" and "2006-01-02".
// An empty string yields nil.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t, nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		dateOnlyLayout,
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD, YYYY-MM-DDTHH:MM[:SS] or RFC 3339)", s)
}
