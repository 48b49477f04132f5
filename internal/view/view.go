// Package view derives read-only projections of a task collection.
//
// Every function returns a new slice and leaves its input untouched.
package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// SortKey selects the list ordering.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriority  SortKey = "priority"
	SortCompleted SortKey = "completed"
	SortDate      SortKey = "date"
)

// SortKeys lists the sort keys in display order.
var SortKeys = []SortKey{SortDefault, SortPriority, SortCompleted, SortDate}

// ParseSortKey parses a sort key name. An empty string yields SortDefault.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortDefault, nil
	}
	if !slices.Contains(SortKeys, k) {
		return "", fmt.Errorf("invalid sort key %q, must be one of: default, priority, completed, date", s)
	}
	return k, nil
}

// Next returns the sort key after k, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Filter selects which tasks appear in the list.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterIncomplete}

// ParseFilter parses a filter name. An empty string yields FilterAll.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FilterAll, nil
	}
	if !slices.Contains(Filters, f) {
		return "", fmt.Errorf("invalid filter %q, must be one of: all, completed, incomplete", s)
	}
	return f, nil
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	i := slices.Index(Filters, f)
	return Filters[(i+1)%len(Filters)]
}

// Sorted returns tasks ordered by key. All orderings are stable, so ties
// keep their input order. Unknown keys behave like SortDefault.
func Sorted(tasks []todo.Task, key SortKey) []todo.Task {
	out := slices.Clone(tasks)
	switch key {
	case SortPriority:
		slices.SortStableFunc(out, func(a, b todo.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	case SortCompleted:
		slices.SortStableFunc(out, func(a, b todo.Task) int {
			return completedRank(a) - completedRank(b)
		})
	case SortDate:
		slices.SortStableFunc(out, compareDates)
	}
	return out
}

func completedRank(t todo.Task) int {
	if t.Completed {
		return 0
	}
	return 1
}

// compareDates orders dated tasks ascending and undated tasks last.
func compareDates(a, b todo.Task) int {
	switch {
	case a.Date == nil && b.Date == nil:
		return 0
	case a.Date == nil:
		return 1
	case b.Date == nil:
		return -1
	}
	return a.Date.Compare(*b.Date)
}

// Filtered returns the tasks matching f, in input order.
func Filtered(tasks []todo.Task, f Filter) []todo.Task {
	out := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterIncomplete:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Project filters then sorts tasks for list display.
func Project(tasks []todo.Task, f Filter, key SortKey) []todo.Task {
	return Sorted(Filtered(tasks, f), key)
}

// Counts summarises a collection.
type Counts struct {
	Total     int
	Completed int
	Dated     int
}

// Count tallies tasks.
func Count(tasks []todo.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
		if t.Date != nil {
			c.Dated++
		}
	}
	return c
}

// dayOf returns the calendar day of t in loc.
func dayOf(t time.Time, loc *time.Location) (int, time.Month, int) {
	return t.In(loc).Date()
}
