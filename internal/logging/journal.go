package logging

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// Event is one journal line.
type Event struct {
	Timestamp time.Time  `json:"timestamp"`
	Op        todo.Op    `json:"op"`
	ID        int64      `json:"id,omitempty"`
	Task      *todo.Task `json:"task,omitempty"`
	// Count is the number of tasks after the change.
	Count int `json:"count"`
}

// Journal appends one JSONL event per store change to a per-session file.
type Journal struct {
	Dir       string
	SessionID string
	Path      string

	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewJournal creates the project's journal directory under baseDir and
// opens a new session file in it.
func NewJournal(baseDir, workDir string) (*Journal, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := sessionID()
	path := filepath.Join(logDir, fmt.Sprintf("%s.jsonl", id))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	return &Journal{
		Dir:       logDir,
		SessionID: id,
		Path:      path,
		file:      file,
		now:       time.Now,
	}, nil
}

// Record writes the event for change.
func (j *Journal) Record(change todo.Change) error {
	event := Event{
		Timestamp: j.now().UTC(),
		Op:        change.Op,
		ID:        change.ID,
		Count:     len(change.Tasks),
	}
	if change.Op != todo.OpRemove && change.Op != todo.OpReplace {
		for i := range change.Tasks {
			if change.Tasks[i].ID == change.ID {
				task := change.Tasks[i]
				event.Task = &task
				break
			}
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal journal event: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return fmt.Errorf("journal is closed")
	}
	_, err = j.file.Write(data)
	return err
}

// Attach subscribes the journal to store. Write errors are passed to
// onErr when it is non-nil. The returned function detaches the journal.
func (j *Journal) Attach(store *todo.Store, onErr func(error)) func() {
	return store.Subscribe(func(c todo.Change) {
		if err := j.Record(c); err != nil && onErr != nil {
			onErr(err)
		}
	})
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// FindLogDir returns the journal directory for a project root. A relative
// baseDir is taken relative to the project root.
func FindLogDir(baseDir, projectRoot string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if projectRoot == "" {
		projectRoot = "."
	}
	if abs, err := filepath.Abs(projectRoot); err == nil {
		projectRoot = abs
	}
	return filepath.Join(resolveBaseDir(baseDir, projectRoot), projectSlug(projectRoot)), nil
}

func resolveBaseDir(baseDir, projectRoot string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Join(projectRoot, baseDir)
}

// projectSlug names a project's journal directory: the base name made
// filesystem-safe plus a short hash of the full path.
func projectSlug(projectRoot string) string {
	h := fnv.New32a()
	h.Write([]byte(projectRoot))
	return fmt.Sprintf("%s-%08x", slugify(filepath.Base(projectRoot)), h.Sum32())
}

// slugify joins the runs of [A-Za-z0-9._-] in input with underscores.
func slugify(input string) string {
	words := strings.FieldsFunc(input, func(r rune) bool {
		return !(r < utf8.RuneSelf && (r == '.' || r == '_' || r == '-' ||
			'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'))
	})
	if slug := strings.Trim(strings.Join(words, "_"), "_"); slug != "" {
		return slug
	}
	return "project"
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}
