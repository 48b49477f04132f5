package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/todo"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "json", false, false)

	logger.Info("hidden")
	logger.Warn("shown", "id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", out, err)
	}
	if entry["msg"] != "shown" {
		t.Errorf("msg: got %v, want shown", entry["msg"])
	}
}

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var raw struct {
			Op    todo.Op         `json:"op"`
			ID    int64           `json:"id"`
			Count int             `json:"count"`
			Task  json.RawMessage `json:"task"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			t.Fatalf("invalid journal line %q: %v", scanner.Text(), err)
		}
		e := Event{Op: raw.Op, ID: raw.ID, Count: raw.Count}
		if len(raw.Task) > 0 {
			var task todo.Task
			if err := json.Unmarshal(raw.Task, &task); err != nil {
				t.Fatalf("invalid task %s: %v", raw.Task, err)
			}
			e.Task = &task
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return events
}

func TestJournalRecordsOneLinePerMutation(t *testing.T) {
	journal, err := NewJournal(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	defer journal.Close()

	store := todo.NewStore()
	detach := journal.Attach(store, func(err error) { t.Errorf("journal: %v", err) })

	task, ok := store.Add("buy milk", todo.PriorityHigh, nil)
	if !ok {
		t.Fatal("Add failed")
	}
	store.ToggleCompleted(task.ID)
	store.SetMemo(task.ID, "2 litres")
	store.ToggleCompleted(999) // no-op, not journaled
	store.Remove(task.ID)
	store.ReplaceAll([]todo.Task{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}})

	detach()
	store.Add("after", "", nil)

	events := readEvents(t, journal.Path)
	wantOps := []todo.Op{todo.OpAdd, todo.OpToggle, todo.OpSetMemo, todo.OpRemove, todo.OpReplace}
	if len(events) != len(wantOps) {
		t.Fatalf("got %d events, want %d", len(events), len(wantOps))
	}
	for i, op := range wantOps {
		if events[i].Op != op {
			t.Errorf("event %d: got op %q, want %q", i, events[i].Op, op)
		}
	}

	if events[0].Task == nil || events[0].Task.Text != "buy milk" {
		t.Errorf("add event task: got %+v", events[0].Task)
	}
	if events[1].Task == nil || !events[1].Task.Completed {
		t.Errorf("toggle event task: got %+v", events[1].Task)
	}
	if events[2].Task == nil || events[2].Task.Memo != "2 litres" {
		t.Errorf("memo event task: got %+v", events[2].Task)
	}
	if events[3].Task != nil || events[3].Count != 0 {
		t.Errorf("remove event: got task %+v count %d", events[3].Task, events[3].Count)
	}
	if events[4].Count != 2 {
		t.Errorf("replace event count: got %d, want 2", events[4].Count)
	}
}

func TestJournalClose(t *testing.T) {
	journal, err := NewJournal(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := journal.Record(todo.Change{Op: todo.OpAdd}); err == nil {
		t.Error("expected error recording to a closed journal")
	}

	var nilJournal *Journal
	if err := nilJournal.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestNewJournalEmptyBaseDir(t *testing.T) {
	_, err := NewJournal("", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("got %v, want empty dir error", err)
	}
}

func TestFindLogDir(t *testing.T) {
	base := t.TempDir()
	work := t.TempDir()

	dir, err := FindLogDir(base, work)
	if err != nil {
		t.Fatalf("FindLogDir: %v", err)
	}
	if filepath.Dir(dir) != base {
		t.Errorf("got %q, want a child of %q", dir, base)
	}
	if !strings.HasPrefix(filepath.Base(dir), slugify(filepath.Base(work))+"-") {
		t.Errorf("got %q, want it named after %q", dir, work)
	}

	nested := filepath.Join(work, "sub")
	if err := os.Mkdir(nested, 0755); err != nil {
		t.Fatal(err)
	}
	other, err := FindLogDir(base, nested)
	if err != nil {
		t.Fatalf("FindLogDir: %v", err)
	}
	if other == dir {
		t.Errorf("nested dir shares journal dir %q with its parent", dir)
	}

	journal, err := NewJournal(base, work)
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	defer journal.Close()
	if journal.Dir != dir {
		t.Errorf("journal dir: got %q, want %q", journal.Dir, dir)
	}
}

func TestFindSessionsAndLatest(t *testing.T) {
	dir := t.TempDir()

	latest, err := FindLatestLog(filepath.Join(dir, "missing"))
	if err != nil || latest != "" {
		t.Fatalf("missing dir: got %q, %v", latest, err)
	}

	old := filepath.Join(dir, "20240101-000000-1.jsonl")
	recent := filepath.Join(dir, "20240102-000000-2.jsonl")
	for _, p := range []string{old, recent, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	sessions, err := FindSessions(dir)
	if err != nil {
		t.Fatalf("FindSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "20240102-000000-2" {
		t.Errorf("newest session: got %q", sessions[0].ID)
	}

	latest, err = FindLatestLog(dir)
	if err != nil {
		t.Fatalf("FindLatestLog: %v", err)
	}
	if latest != recent {
		t.Errorf("latest: got %q, want %q", latest, recent)
	}
}

func TestTailLog(t *testing.T) {
	ctx := context.Background()

	t.Run("whole file when n=0", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.jsonl")
		content := "line1\nline2\nline3\n"
		if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 0, false); err != nil {
			t.Fatalf("TailLog: %v", err)
		}
		if buf.String() != content {
			t.Errorf("got %q, want %q", buf.String(), content)
		}
	})

	t.Run("last n lines", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.jsonl")
		if err := os.WriteFile(logFile, []byte("line1\nline2\nline3\nline4\nline5\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 2, false); err != nil {
			t.Fatalf("TailLog: %v", err)
		}
		if got, want := buf.String(), "line4\nline5\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("n larger than file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.jsonl")
		if err := os.WriteFile(logFile, []byte("a\nb\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 10, false); err != nil {
			t.Fatalf("TailLog: %v", err)
		}
		if got, want := buf.String(), "a\nb\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, filepath.Join(t.TempDir(), "none.jsonl"), 0, false); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("follow until cancelled", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.jsonl")
		if err := os.WriteFile(logFile, []byte("initial\n"), 0644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		var buf lockedBuffer
		done := make(chan error, 1)
		go func() {
			done <- TailLog(ctx, &buf, logFile, 0, true)
		}()

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.WriteString("appended\n"); err != nil {
			t.Fatal(err)
		}
		f.Close()

		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(buf.String(), "appended") && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("TailLog: %v", err)
		}

		got := buf.String()
		if !strings.Contains(got, "initial") || !strings.Contains(got, "appended") {
			t.Errorf("got %q, want initial and appended lines", got)
		}
	})
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"my-project", "my-project"},
		{"my project", "my_project"},
		{"a  //  b", "a_b"},
		{"", "project"},
		{"***", "project"},
		{"_a_", "a"},
		{"café", "caf"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.want {
				t.Errorf("slugify(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProjectSlug(t *testing.T) {
	a := projectSlug("/work/app")
	b := projectSlug("/other/app")
	if !strings.HasPrefix(a, "app-") || len(a) != len("app-")+8 {
		t.Errorf("projectSlug: got %q", a)
	}
	if a == b {
		t.Errorf("same slug %q for different roots", a)
	}
}

func TestResolveBaseDir(t *testing.T) {
	work := t.TempDir()
	abs := t.TempDir()
	if got := resolveBaseDir(abs, work); got != abs {
		t.Errorf("absolute: got %q, want %q", got, abs)
	}
	if got, want := resolveBaseDir("logs", work), filepath.Join(work, "logs"); got != want {
		t.Errorf("relative: got %q, want %q", got, want)
	}
}
