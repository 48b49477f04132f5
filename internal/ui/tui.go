// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/backup"
	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/platform"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/view"
)

// Files is the file capability the TUI needs for export and import.
type Files interface {
	platform.FileSaver
	platform.FileOpener
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithClock sets the clock used for the calendar's initial month and the
// today marker.
func WithClock(now func() time.Time) TUIOption {
	return func(m *tuiModel) {
		m.now = now
	}
}

// WithLogger sets the logger for export and import outcomes.
func WithLogger(logger *log.Logger) TUIOption {
	return func(m *tuiModel) {
		m.logger = logger
	}
}

// RunTUI runs the interactive interface on store until the user quits.
func RunTUI(ctx context.Context, cfg *config.Config, store *todo.Store, files Files, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, cfg, store, files, opts...)
	defer model.close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeMemo
	modeCalendar
	modeImport
)

// Add form fields, in tab order.
const (
	fieldText = iota
	fieldPriority
	fieldDate
	fieldCount
)

type addForm struct {
	text     lineInput
	priority todo.Priority
	date     lineInput
	field    int
	err      string
}

type memoForm struct {
	id   int64
	task string
	memo lineInput
}

type tuiModel struct {
	ctx    context.Context
	cfg    *config.Config
	store  *todo.Store
	files  Files
	logger *log.Logger
	now    func() time.Time

	unsubscribe func()
	changed     chan struct{}
	alerts      chan string

	tasks   []todo.Task
	visible []todo.Task
	counts  view.Counts
	sortKey view.SortKey
	filter  view.Filter
	cursor  int

	mode       mode
	returnMode mode
	form       addForm
	memo       memoForm
	importPath lineInput
	day        time.Time
	dayCursor  int

	importing bool
	showHelp  bool
	status    string
	alert     string
}

// changeMsg signals that the store changed outside the event loop.
type changeMsg struct{}

// alertMsg carries a user notification.
type alertMsg struct {
	text string
}

type importDoneMsg struct {
	path string
	err  error
}

// chanNotifier delivers notifications to the event loop.
type chanNotifier struct {
	ch chan<- string
}

func (n chanNotifier) Notify(msg string) {
	select {
	case n.ch <- msg:
	default:
	}
}

func newTUIModel(ctx context.Context, cfg *config.Config, store *todo.Store, files Files, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		ctx:     ctx,
		cfg:     cfg,
		store:   store,
		files:   files,
		logger:  log.Default(),
		now:     time.Now,
		changed: make(chan struct{}, 1),
		alerts:  make(chan string, 4),
		sortKey: cfg.SortKey(),
		filter:  cfg.Filter(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.day = startOfDay(m.now())
	m.importPath = newLineInput(cfg.DataFile)
	m.unsubscribe = store.Subscribe(func(todo.Change) {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

func (m *tuiModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changed), waitForAlert(m.alerts))
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changeMsg{}
	}
}

func waitForAlert(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return alertMsg{text: <-ch}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.alert != "" {
			// Any key dismisses the alert.
			m.alert = ""
			return m, nil
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeMemo:
			return m.updateMemo(msg)
		case modeImport:
			return m.updateImport(msg)
		case modeCalendar:
			return m.updateCalendar(msg)
		default:
			return m.updateList(msg)
		}
	case changeMsg:
		m.refresh()
		return m, waitForChange(m.changed)
	case alertMsg:
		m.alert = msg.text
		return m, waitForAlert(m.alerts)
	case importDoneMsg:
		m.importing = false
		if msg.err != nil {
			m.logger.Error("import failed", "path", msg.path, "err", msg.err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Imported %d tasks from %s", len(m.tasks), msg.path)
		m.logger.Info("imported", "path", msg.path, "tasks", len(m.tasks))
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "x", " ":
		if t, ok := m.selected(); ok {
			m.store.ToggleCompleted(t.ID)
			m.refresh()
		}
	case "d", "delete":
		if t, ok := m.selected(); ok {
			m.store.Remove(t.ID)
			m.refresh()
		}
	case "s":
		m.sortKey = m.sortKey.Next()
		m.refresh()
	case "f":
		m.filter = m.filter.Next()
		m.refresh()
	case "a":
		m.openAdd(modeList, "")
	case "m":
		if t, ok := m.selected(); ok {
			m.openMemo(t)
		}
	case "c":
		m.mode = modeCalendar
		m.dayCursor = 0
	case "e":
		m.export()
	case "i":
		if !m.importing {
			m.mode = modeImport
		}
	case "?", "h":
		m.showHelp = true
	}
	return m, nil
}

func (m *tuiModel) openAdd(back mode, date string) {
	m.form = addForm{
		priority: m.cfg.Priority(),
		date:     newLineInput(date),
	}
	m.returnMode = back
	m.mode = modeAdd
}

func (m *tuiModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = m.returnMode
		return m, nil
	case "tab", "down":
		m.form.field = (m.form.field + 1) % fieldCount
		return m, nil
	case "shift+tab", "up":
		m.form.field = (m.form.field + fieldCount - 1) % fieldCount
		return m, nil
	case "enter":
		m.submitAdd()
		return m, nil
	}

	switch m.form.field {
	case fieldText:
		m.form.text.handle(msg)
	case fieldDate:
		m.form.date.handle(msg)
	case fieldPriority:
		switch msg.String() {
		case "left", "right", " ":
			m.form.priority = cyclePriority(m.form.priority, msg.String() == "left")
		case "1":
			m.form.priority = todo.PriorityHigh
		case "2":
			m.form.priority = todo.PriorityMedium
		case "3":
			m.form.priority = todo.PriorityLow
		}
	}
	return m, nil
}

func (m *tuiModel) submitAdd() {
	date, err := todo.ParseDate(m.form.date.String(), m.day.Location())
	if err != nil {
		m.form.err = err.Error()
		m.form.field = fieldDate
		return
	}
	task, ok := m.store.Add(m.form.text.String(), m.form.priority, date)
	if !ok {
		m.form.err = fmt.Sprintf("Text must be 1-%d characters", todo.MaxTextLength)
		m.form.field = fieldText
		return
	}
	m.mode = m.returnMode
	m.refresh()
	m.selectID(task.ID)
	m.status = fmt.Sprintf("Added %q", task.Text)
}

func cyclePriority(p todo.Priority, back bool) todo.Priority {
	i := 0
	for j, q := range todo.Priorities {
		if q == p {
			i = j
		}
	}
	n := len(todo.Priorities)
	if back {
		return todo.Priorities[(i+n-1)%n]
	}
	return todo.Priorities[(i+1)%n]
}

func (m *tuiModel) openMemo(t todo.Task) {
	m.memo = memoForm{id: t.ID, task: t.Text, memo: newLineInput(t.Memo)}
	m.returnMode = m.mode
	m.mode = modeMemo
}

func (m *tuiModel) updateMemo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = m.returnMode
	case "enter":
		if m.store.SetMemo(m.memo.id, m.memo.memo.String()) {
			m.status = fmt.Sprintf("Saved memo for %q", m.memo.task)
		}
		m.mode = m.returnMode
		m.refresh()
	default:
		m.memo.memo.handle(msg)
	}
	return m, nil
}

func (m *tuiModel) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.importPath.String())
		m.mode = modeList
		if path == "" {
			return m, nil
		}
		m.importing = true
		m.status = fmt.Sprintf("Importing %s...", path)
		return m, m.importCmd(path)
	}
	m.importPath.handle(msg)
	return m, nil
}

func (m *tuiModel) importCmd(path string) tea.Cmd {
	opts := backup.ImportOptions{Strict: m.cfg.StrictImport, SchemaPath: m.cfg.SchemaFile}
	done := backup.ImportAsync(m.ctx, m.store, m.files, path, chanNotifier{ch: m.alerts}, opts)
	return func() tea.Msg {
		return importDoneMsg{path: path, err: <-done}
	}
}

func (m *tuiModel) export() {
	name := m.cfg.DataFile
	if err := backup.Export(m.store, m.files, name); err != nil {
		m.logger.Error("export failed", "path", name, "err", err)
		m.alert = err.Error()
		return
	}
	m.status = fmt.Sprintf("Exported %d tasks to %s", len(m.tasks), name)
	m.logger.Info("exported", "path", name, "tasks", len(m.tasks))
}

func (m *tuiModel) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dayTasks := view.ByDay(m.tasks, m.day)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "c":
		m.mode = modeList
	case "left", "h":
		m.moveDay(m.day.AddDate(0, 0, -1))
	case "right", "l":
		m.moveDay(m.day.AddDate(0, 0, 1))
	case "up", "k":
		m.moveDay(m.day.AddDate(0, 0, -7))
	case "down", "j":
		m.moveDay(m.day.AddDate(0, 0, 7))
	case "[", "pgup":
		m.moveDay(m.day.AddDate(0, -1, 0))
	case "]", "pgdown":
		m.moveDay(m.day.AddDate(0, 1, 0))
	case "t":
		m.moveDay(startOfDay(m.now()))
	case "tab":
		if len(dayTasks) > 0 {
			m.dayCursor = (m.dayCursor + 1) % len(dayTasks)
		}
	case "x", " ":
		if m.dayCursor < len(dayTasks) {
			m.store.ToggleCompleted(dayTasks[m.dayCursor].ID)
			m.refresh()
		}
	case "d", "delete":
		if m.dayCursor < len(dayTasks) {
			m.store.Remove(dayTasks[m.dayCursor].ID)
			if m.dayCursor > 0 && m.dayCursor == len(dayTasks)-1 {
				m.dayCursor--
			}
			m.refresh()
		}
	case "m":
		if m.dayCursor < len(dayTasks) {
			m.openMemo(dayTasks[m.dayCursor])
		}
	case "a":
		m.openAdd(modeCalendar, m.day.Format("2006-01-02")+" 09:00")
	}
	return m, nil
}

func (m *tuiModel) moveDay(day time.Time) {
	m.day = startOfDay(day)
	m.dayCursor = 0
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// refresh recomputes projections from a fresh store snapshot.
func (m *tuiModel) refresh() {
	m.tasks = m.store.Snapshot()
	m.visible = view.Project(m.tasks, m.filter, m.sortKey)
	m.counts = view.Count(m.tasks)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return todo.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *tuiModel) selectID(id int64) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
