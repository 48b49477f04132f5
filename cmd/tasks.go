package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/ui"
	"github.com/nibzard/tasklist-go/internal/utils"
	"github.com/nibzard/tasklist-go/internal/view"
)

// tuiCommand launches the TUI on the data file. Changes are written back
// when the TUI exits.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if err := ui.RunTUI(ctx, cfg, s.store, s.files, ui.WithLogger(s.logger)); err != nil {
		return err
	}
	return s.save()
}

func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist add", flag.ContinueOnError)
	priority := fs.String("p", cfg.DefaultPriority, "Priority (high|medium|low)")
	date := fs.String("d", "", "Due date, YYYY-MM-DD or YYYY-MM-DD HH:MM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	p, err := todo.ParsePriority(*priority)
	if err != nil {
		return err
	}
	due, err := todo.ParseDate(*date, time.Local)
	if err != nil {
		return err
	}
	if !todo.ValidText(text) {
		return fmt.Errorf("task text must be 1-%d characters, got %q", todo.MaxTextLength, text)
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	task, ok := s.store.Add(text, p, due)
	if !ok {
		return fmt.Errorf("task %q was not added", text)
	}
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %d: %s\n", task.ID, task.Text)
	return nil
}

func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	sortName := fs.String("sort", cfg.DefaultSort, "Sort: default, priority, completed, date")
	filterName := fs.String("filter", cfg.DefaultFilter, "Filter: all, completed, incomplete")
	verbose := fs.Bool("v", false, "Show memos")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	key, err := view.ParseSortKey(*sortName)
	if err != nil {
		return err
	}
	filter, err := view.ParseFilter(*filterName)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	tasks := s.store.Snapshot()
	counts := view.Count(tasks)
	fmt.Fprintf(stdout, "%d tasks, %d done (sort: %s, filter: %s)\n", counts.Total, counts.Completed, key, filter)
	printTaskList(stdout, view.Project(tasks, filter, key), *verbose)
	return nil
}

func dayCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist day", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show memos")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	day := time.Now()
	if fs.NArg() == 1 {
		d, err := todo.ParseDate(fs.Arg(0), time.Local)
		if err != nil {
			return err
		}
		if d != nil {
			day = *d
		}
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	fmt.Fprintln(stdout, day.Format("Monday, January 2 2006"))
	printTaskList(stdout, view.ByDay(s.store.Snapshot(), day), *verbose)
	return nil
}

func calCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist cal", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	month := time.Now()
	if fs.NArg() == 1 {
		m, err := time.ParseInLocation("2006-01", fs.Arg(0), time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", fs.Arg(0))
		}
		month = m
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	printMonth(stdout, s.store.Snapshot(), month.Year(), month.Month(), time.Local)
	return nil
}

// printMonth writes a month grid. Days with tasks are followed by '*'.
func printMonth(w io.Writer, tasks []todo.Task, year int, month time.Month, loc *time.Location) {
	marked := view.MarkedDays(tasks, year, month, loc)
	fmt.Fprintf(w, "%s %d\n", month, year)
	fmt.Fprintln(w, "Su  Mo  Tu  We  Th  Fr  Sa")
	for _, week := range view.MonthGrid(year, month, loc) {
		cells := make([]string, 0, 7)
		for _, d := range week {
			switch {
			case d == 0:
				cells = append(cells, "   ")
			case marked[d]:
				cells = append(cells, fmt.Sprintf("%2d*", d))
			default:
				cells = append(cells, fmt.Sprintf("%2d ", d))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}

func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	return mutateIDs(ctx, cfg, "done", args, func(s *session, id int64) bool {
		if !s.store.ToggleCompleted(id) {
			return false
		}
		t, _ := s.store.Get(id)
		state := "not done"
		if t.Completed {
			state = "done"
		}
		fmt.Fprintf(stdout, "%d: %s is %s\n", id, t.Text, state)
		return true
	})
}

func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	return mutateIDs(ctx, cfg, "rm", args, func(s *session, id int64) bool {
		t, ok := s.store.Get(id)
		if !ok || !s.store.Remove(id) {
			return false
		}
		fmt.Fprintf(stdout, "Removed %d: %s\n", id, t.Text)
		return true
	})
}

// mutateIDs applies fn to each id and saves when anything changed.
// Unknown ids are reported and skipped.
func mutateIDs(ctx context.Context, cfg *config.Config, name string, args []string, fn func(*session, int64) bool) error {
	if len(args) == 0 {
		return fmt.Errorf("%s: at least one task id is required", name)
	}
	ids, err := parseIDs(args)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	changed := false
	for _, id := range ids {
		if fn(s, id) {
			changed = true
			continue
		}
		s.logger.Warn("no such task", "id", id)
	}
	if !changed {
		return nil
	}
	return s.save()
}

func memoCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("memo: a task id is required")
	}
	ids, err := parseIDs(args[:1])
	if err != nil {
		return fmt.Errorf("memo: %w", err)
	}
	memo := strings.Join(args[1:], " ")

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if !s.store.SetMemo(ids[0], memo) {
		s.logger.Warn("no such task", "id", ids[0])
		return nil
	}
	if err := s.save(); err != nil {
		return err
	}
	if memo == "" {
		fmt.Fprintf(stdout, "Cleared memo of %d\n", ids[0])
	} else {
		fmt.Fprintf(stdout, "Saved memo of %d\n", ids[0])
	}
	return nil
}

// parseIDs accepts ids as separate arguments or comma-separated lists.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		for _, part := range utils.SplitAndTrim(a, ",") {
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid task id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no task ids in %v", args)
	}
	return ids, nil
}

func printTaskList(w io.Writer, tasks []todo.Task, verbose bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, t := range tasks {
		printTask(w, t, verbose)
	}
}

func printTask(w io.Writer, t todo.Task, verbose bool) {
	check := " "
	if t.Completed {
		check = "x"
	}
	line := fmt.Sprintf("  [%s] %d  %-6s  %s", check, t.ID, t.Priority, t.Text)
	if t.Date != nil {
		line += "  " + t.Date.Local().Format("2006-01-02 15:04")
	}
	if t.Memo != "" && !verbose {
		line += "  (memo)"
	}
	fmt.Fprintln(w, line)
	if verbose && t.Memo != "" {
		fmt.Fprintf(w, "      %s\n", t.Memo)
	}
}
