// Package platform provides the narrow capabilities the core needs from
// its environment: saving a file, opening a file, and notifying the user.
package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// FileSaver writes data under a file name.
type FileSaver interface {
	Save(name string, data []byte) error
}

// FileOpener reads the content of a file name.
type FileOpener interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg string)
}

// DirFiles saves and opens files on disk. Relative names are resolved
// against Dir.
type DirFiles struct {
	Dir string
}

// Path resolves name against d.Dir.
func (d DirFiles) Path(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// Save writes data atomically, creating parent directories as needed.
func (d DirFiles) Save(name string, data []byte) error {
	path := d.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Open reads the file. It returns early if ctx is already done.
func (d DirFiles) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// LogNotifier reports messages through a logger at error level.
type LogNotifier struct {
	Logger *log.Logger
}

// Notify logs msg.
func (n LogNotifier) Notify(msg string) {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Error(msg)
}

// MemFiles is an in-memory FileSaver and FileOpener.
type MemFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemFiles creates an empty MemFiles.
func NewMemFiles() *MemFiles {
	return &MemFiles{files: make(map[string][]byte)}
}

// Save stores a copy of data.
func (m *MemFiles) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// Open returns a copy of the stored data.
func (m *MemFiles) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// RecordingNotifier keeps every message it is given.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

// Notify records msg.
func (r *RecordingNotifier) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns the recorded messages.
func (r *RecordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
