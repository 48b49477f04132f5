package todo

import (
	"sync"
	"time"
)

// Op names a store mutation.
type Op string

const (
	OpAdd     Op = "add"
	OpToggle  Op = "toggle"
	OpRemove  Op = "remove"
	OpSetMemo Op = "set_memo"
	OpReplace Op = "replace"
)

// Change describes a successful mutation. Tasks is a snapshot taken
// after the mutation was applied.
type Change struct {
	Op    Op
	ID    int64
	Tasks []Task
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used to generate task ids.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.ids.now = now
	}
}

// WithTasks seeds the store with an initial collection.
func WithTasks(tasks []Task) StoreOption {
	return func(s *Store) {
		s.tasks = cloneTasks(tasks)
		for _, t := range tasks {
			s.ids.observe(t.ID)
		}
	}
}

type observer struct {
	id int
	fn func(Change)
}

// Store owns the ordered task collection. Callers only ever receive copies.
// Observers are notified synchronously after each successful mutation,
// outside the store lock.
type Store struct {
	mu        sync.Mutex
	tasks     []Task
	ids       idGenerator
	observers []observer
	nextObs   int
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{ids: idGenerator{now: time.Now}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a new incomplete task. It is a no-op returning false when
// text is blank, longer than MaxTextLength characters, or priority is
// unknown. An empty priority means PriorityMedium.
func (s *Store) Add(text string, priority Priority, date *time.Time) (Task, bool) {
	if priority == "" {
		priority = PriorityMedium
	}
	if err := (draft{Text: text, Priority: priority}).validate(); err != nil {
		return Task{}, false
	}

	s.mu.Lock()
	task := Task{
		ID:       s.ids.next(),
		Text:     text,
		Priority: priority,
	}
	if date != nil {
		d := *date
		task.Date = &d
	}
	s.tasks = append(s.tasks, task)
	snapshot := cloneTasks(s.tasks)
	s.mu.Unlock()

	s.notify(Change{Op: OpAdd, ID: task.ID, Tasks: snapshot})
	return task.clone(), true
}

// ToggleCompleted flips the completed flag of the task with id.
func (s *Store) ToggleCompleted(id int64) bool {
	return s.update(OpToggle, id, func(t *Task) {
		t.Completed = !t.Completed
	})
}

// SetMemo overwrites the memo of the task with id.
func (s *Store) SetMemo(id int64, memo string) bool {
	return s.update(OpSetMemo, id, func(t *Task) {
		t.Memo = memo
	})
}

// Remove deletes the task with id.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	snapshot := cloneTasks(s.tasks)
	s.mu.Unlock()

	s.notify(Change{Op: OpRemove, ID: id, Tasks: snapshot})
	return true
}

// ReplaceAll replaces the whole collection. Tasks are stored as given;
// validating them is the caller's job.
func (s *Store) ReplaceAll(tasks []Task) {
	s.mu.Lock()
	s.tasks = cloneTasks(tasks)
	for _, t := range tasks {
		s.ids.observe(t.ID)
	}
	snapshot := cloneTasks(s.tasks)
	s.mu.Unlock()

	s.notify(Change{Op: OpReplace, Tasks: snapshot})
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return s.tasks[idx].clone(), true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Subscribe registers fn to be called after every successful mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObs++
	id := s.nextObs
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) update(op Op, id int64, fn func(*Task)) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	fn(&s.tasks[idx])
	snapshot := cloneTasks(s.tasks)
	s.mu.Unlock()

	s.notify(Change{Op: op, ID: id, Tasks: snapshot})
	return true
}

// indexOf returns the position of the first task with id, or -1.
// The caller must hold s.mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(c)
	}
}
