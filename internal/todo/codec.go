package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// isoLayout matches JavaScript's Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

// ParseError reports a task list that could not be decoded.
type ParseError struct {
	Offset int64 // byte offset of a syntax error, or 0
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("parse task list: offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("parse task list: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

type taskJSON struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	Date      *string  `json:"date"`
	Memo      string   `json:"memo,omitempty"`
}

// MarshalJSON encodes the task with an ISO-8601 UTC date or null.
func (t Task) MarshalJSON() ([]byte, error) {
	wire := taskJSON{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Priority:  t.Priority,
		Memo:      t.Memo,
	}
	if t.Date != nil {
		s := t.Date.UTC().Format(isoLayout)
		wire.Date = &s
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a task, converting date strings back to timestamps.
func (t *Task) UnmarshalJSON(data []byte) error {
	var wire taskJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Task{
		ID:        wire.ID,
		Text:      wire.Text,
		Completed: wire.Completed,
		Priority:  wire.Priority,
		Memo:      wire.Memo,
	}
	if wire.Date != nil {
		d, err := parseExportDate(*wire.Date)
		if err != nil {
			return err
		}
		t.Date = d
	}
	return nil
}

// parseExportDate reads a date the way a browser's Date constructor does:
// a bare day is UTC midnight, a date-time without an offset is local time.
func parseExportDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) == len(dateOnlyLayout) {
		return ParseDate(s, time.UTC)
	}
	return ParseDate(s, time.Local)
}

// Export encodes tasks as a pretty-printed JSON array with a trailing newline.
func Export(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return append(data, '\n'), nil
}

// Import decodes a JSON array of tasks. Any failure is a *ParseError.
func Import(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		perr := &ParseError{Err: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			perr.Offset = syntaxErr.Offset
		}
		return nil, perr
	}
	if tasks == nil {
		return nil, &ParseError{Err: errors.New("expected a JSON array, got null")}
	}
	return tasks, nil
}
