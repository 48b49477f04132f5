package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/tasklist-go/internal/platform"
	"github.com/nibzard/tasklist-go/internal/todo"
)

func seededStore(t *testing.T) *todo.Store {
	t.Helper()
	s := todo.NewStore()
	date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if _, ok := s.Add("dentist", todo.PriorityHigh, &date); !ok {
		t.Fatal("Add failed")
	}
	if _, ok := s.Add("groceries", todo.PriorityLow, nil); !ok {
		t.Fatal("Add failed")
	}
	return s
}

func TestExportImportRoundTrip(t *testing.T) {
	files := platform.NewMemFiles()
	src := seededStore(t)
	first := src.Snapshot()[0]
	src.SetMemo(first.ID, "bring card")
	src.ToggleCompleted(first.ID)

	if err := Export(src, files, "backup.json"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := todo.NewStore()
	dst.Add("will be replaced", todo.PriorityMedium, nil)
	var notes platform.RecordingNotifier
	if err := Import(context.Background(), dst, files, "backup.json", &notes, ImportOptions{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	want := src.Snapshot()
	got := dst.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Text != want[i].Text ||
			got[i].Completed != want[i].Completed || got[i].Memo != want[i].Memo ||
			got[i].Priority != want[i].Priority {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
		}
		if (got[i].Date == nil) != (want[i].Date == nil) {
			t.Errorf("task %d date presence differs", i)
		} else if got[i].Date != nil && !got[i].Date.Equal(*want[i].Date) {
			t.Errorf("task %d date: got %v, want %v", i, got[i].Date, want[i].Date)
		}
	}
	if len(notes.Messages()) != 0 {
		t.Errorf("unexpected notifications: %v", notes.Messages())
	}
}

func TestImportInvalidLeavesStoreUnchanged(t *testing.T) {
	files := platform.NewMemFiles()
	files.Save("bad.json", []byte("not valid json"))

	store := seededStore(t)
	before := store.Snapshot()
	var notes platform.RecordingNotifier

	err := Import(context.Background(), store, files, "bad.json", &notes, ImportOptions{})
	var perr *todo.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error: got %v, want *todo.ParseError", err)
	}

	after := store.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("len: got %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Text != before[i].Text {
			t.Errorf("task %d changed: got %+v, want %+v", i, after[i], before[i])
		}
	}
	if msgs := notes.Messages(); len(msgs) != 1 || !strings.Contains(msgs[0], "parse task list") {
		t.Errorf("notifications: got %v", msgs)
	}
}

func TestImportMissingFile(t *testing.T) {
	store := seededStore(t)
	var notes platform.RecordingNotifier
	err := Import(context.Background(), store, platform.NewMemFiles(), "nope.json", &notes, ImportOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len: got %d, want 2", store.Len())
	}
	if len(notes.Messages()) != 1 {
		t.Errorf("notifications: got %v", notes.Messages())
	}
}

func TestImportStrict(t *testing.T) {
	files := platform.NewMemFiles()
	loose := `[{"id": 1, "text": "x", "completed": false, "priority": "urgent", "date": null}]`
	files.Save("loose.json", []byte(loose))

	t.Run("default accepts parseable records", func(t *testing.T) {
		store := todo.NewStore()
		if err := Import(context.Background(), store, files, "loose.json", nil, ImportOptions{}); err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if store.Len() != 1 {
			t.Errorf("Len: got %d, want 1", store.Len())
		}
	})

	t.Run("strict rejects unknown priority", func(t *testing.T) {
		store := seededStore(t)
		var notes platform.RecordingNotifier
		err := Import(context.Background(), store, files, "loose.json", &notes, ImportOptions{Strict: true})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "[0].priority") {
			t.Errorf("error should name the path: %v", err)
		}
		if store.Len() != 2 {
			t.Errorf("Len: got %d, want 2", store.Len())
		}
	})
}

func TestImportAsync(t *testing.T) {
	files := platform.NewMemFiles()
	src := seededStore(t)
	if err := Export(src, files, "a.json"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := todo.NewStore()
	done := ImportAsync(context.Background(), dst, files, "a.json", nil, ImportOptions{})
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ImportAsync failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ImportAsync did not complete")
	}
	if dst.Len() != 2 {
		t.Errorf("Len: got %d, want 2", dst.Len())
	}
	if _, ok := <-done; ok {
		t.Error("channel should be closed after the result")
	}
}

func TestExportToDisk(t *testing.T) {
	dir := t.TempDir()
	store := seededStore(t)
	if err := Export(store, platform.DirFiles{Dir: dir}, "tasks.json"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"text": "dentist"`) {
		t.Errorf("unexpected content:\n%s", data)
	}
}

type failingSaver struct{}

func (failingSaver) Save(string, []byte) error { return errors.New("disk full") }

func TestExportSaveError(t *testing.T) {
	err := Export(seededStore(t), failingSaver{}, "x.json")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("got %v, want disk full", err)
	}
}
