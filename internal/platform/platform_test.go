package platform

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDirFilesSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	files := DirFiles{Dir: dir}

	if err := files.Save("nested/tasks.json", []byte("[]\n")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := files.Open(context.Background(), "nested/tasks.json")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("got %q, want %q", data, "[]\n")
	}

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestDirFilesOverwrite(t *testing.T) {
	files := DirFiles{Dir: t.TempDir()}
	files.Save("a.json", []byte("old"))
	files.Save("a.json", []byte("new"))

	data, _ := files.Open(context.Background(), "a.json")
	if string(data) != "new" {
		t.Errorf("got %q, want new", data)
	}
}

func TestDirFilesAbsolutePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs.json")
	files := DirFiles{Dir: "/does/not/matter"}
	if got := files.Path(abs); got != abs {
		t.Errorf("Path: got %q, want %q", got, abs)
	}
}

func TestDirFilesOpenMissing(t *testing.T) {
	files := DirFiles{Dir: t.TempDir()}
	_, err := files.Open(context.Background(), "missing.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (DirFiles{}).Open(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("DirFiles: got %v, want context.Canceled", err)
	}
	if _, err := NewMemFiles().Open(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("MemFiles: got %v, want context.Canceled", err)
	}
}

func TestMemFilesCopies(t *testing.T) {
	m := NewMemFiles()
	data := []byte("abc")
	m.Save("f", data)
	data[0] = 'x'

	got, err := m.Open(context.Background(), "f")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("got %q, want abc", got)
	}
	if _, err := m.Open(context.Background(), "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing: got %v, want ErrNotExist", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	LogNotifier{Logger: logger}.Notify("import failed")

	out := buf.String()
	if !strings.Contains(out, "ERRO") || !strings.Contains(out, "import failed") {
		t.Errorf("got %q", out)
	}
}

func TestRecordingNotifier(t *testing.T) {
	var r RecordingNotifier
	r.Notify("one")
	r.Notify("two")
	if got := r.Messages(); len(got) != 2 || got[1] != "two" {
		t.Errorf("got %v", got)
	}
}
