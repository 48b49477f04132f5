package view

import (
	"time"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// ByDay returns the dated tasks that fall on the same calendar day as day,
// comparing in day's location. Input order is kept.
func ByDay(tasks []todo.Task, day time.Time) []todo.Task {
	loc := day.Location()
	y, m, d := day.Date()
	out := make([]todo.Task, 0)
	for _, t := range tasks {
		if t.Date == nil {
			continue
		}
		ty, tm, td := dayOf(*t.Date, loc)
		if ty == y && tm == m && td == d {
			out = append(out, t)
		}
	}
	return out
}

// MarkedDays returns the days of the given month, in loc, that have at
// least one task.
func MarkedDays(tasks []todo.Task, year int, month time.Month, loc *time.Location) map[int]bool {
	if loc == nil {
		loc = time.Local
	}
	marked := make(map[int]bool)
	for _, t := range tasks {
		if t.Date == nil {
			continue
		}
		ty, tm, td := dayOf(*t.Date, loc)
		if ty == year && tm == month {
			marked[td] = true
		}
	}
	return marked
}

// MonthGrid lays out a month as weeks starting on Sunday. Cells outside
// the month are 0.
func MonthGrid(year int, month time.Month, loc *time.Location) [][7]int {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()

	var weeks [][7]int
	var week [7]int
	col := int(first.Weekday())
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
