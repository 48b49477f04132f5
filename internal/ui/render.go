package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/view"
)

const dateLayout = "Mon Jan 2 15:04"

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.counts)

	if m.alert != "" {
		writeAlert(&b, m.alert)
		return b.String()
	}
	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	switch m.mode {
	case modeAdd:
		writeAddForm(&b, m.form)
	case modeMemo:
		writeMemoForm(&b, m.memo)
	case modeImport:
		writeImportPrompt(&b, m.importPath)
	case modeCalendar:
		writeCalendar(&b, m.tasks, m.day, startOfDay(m.now()))
		writeDayTasks(&b, view.ByDay(m.tasks, m.day), m.day, m.dayCursor)
		writeFooter(&b, "arrows move | [ ] month | t today | tab select | x toggle | d delete | m memo | a add | esc back")
		return b.String()
	default:
		writeListHeader(&b, m.sortKey, m.filter)
		writeList(&b, m.visible, m.cursor)
	}

	writeStatus(&b, m.status, m.importing)
	if m.mode == modeList {
		writeFooter(&b, "a add | x toggle | d delete | m memo | s sort | f filter | c calendar | e export | i import | ? help | q quit")
	}
	return b.String()
}

func writeTitle(b *strings.Builder, c view.Counts) {
	b.WriteString(titleStyle.Render("Task List"))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  %d tasks, %d done", c.Total, c.Completed)))
	b.WriteString("\n\n")
}

func writeListHeader(b *strings.Builder, key view.SortKey, f view.Filter) {
	b.WriteString(fmt.Sprintf("Sort: %s  Filter: %s\n\n", headerStyle.Render(string(key)), headerStyle.Render(string(f))))
}

func writeList(b *strings.Builder, tasks []todo.Task, cursor int) {
	if len(tasks) == 0 {
		b.WriteString(faintStyle.Render("  No tasks. Press a to add one."))
		b.WriteString("\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(formatTask(t, i == cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatTask(t todo.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	text := t.Text
	if t.Completed {
		text = completedStyle.Render(text)
	}

	line := fmt.Sprintf("%s%s %s %s", pointer, check, priorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority)), text)
	if t.Date != nil {
		line += "  " + faintStyle.Render(t.Date.Local().Format(dateLayout))
	}
	if t.Memo != "" {
		line += "  " + faintStyle.Render("memo: "+truncate(t.Memo, 40))
	}
	return line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeAddForm(b *strings.Builder, f addForm) {
	var body strings.Builder
	body.WriteString(headerStyle.Render("New task") + "\n\n")
	body.WriteString(formField("Text", f.text.String(), f.field == fieldText) + "\n")
	if f.text.Len() > todo.MaxTextLength {
		body.WriteString(warnStyle.Render(fmt.Sprintf("  Text is %d characters, the limit is %d", f.text.Len(), todo.MaxTextLength)) + "\n")
	}
	body.WriteString(formField("Priority", string(f.priority), f.field == fieldPriority) + "\n")
	body.WriteString(formField("Date", f.date.String(), f.field == fieldDate) + "\n")
	body.WriteString(faintStyle.Render("  YYYY-MM-DD [HH:MM], empty for none") + "\n")
	if f.err != "" {
		body.WriteString("\n" + warnStyle.Render(f.err) + "\n")
	}
	body.WriteString("\n" + faintStyle.Render("tab next field | left/right priority | enter save | esc cancel"))
	b.WriteString(dialogStyle.Render(body.String()))
	b.WriteString("\n\n")
}

func formField(label, value string, focused bool) string {
	prefix := "  "
	if focused {
		prefix = cursorStyle.Render("> ")
		value += "_"
	}
	return fmt.Sprintf("%s%-9s %s", prefix, label+":", value)
}

func writeMemoForm(b *strings.Builder, f memoForm) {
	var body strings.Builder
	body.WriteString(headerStyle.Render("Memo for "+f.task) + "\n\n")
	body.WriteString(formField("Memo", f.memo.String(), true) + "\n\n")
	body.WriteString(faintStyle.Render("enter save | ctrl+u clear | esc cancel"))
	b.WriteString(dialogStyle.Render(body.String()))
	b.WriteString("\n\n")
}

func writeImportPrompt(b *strings.Builder, path lineInput) {
	var body strings.Builder
	body.WriteString(headerStyle.Render("Import tasks") + "\n\n")
	body.WriteString(formField("File", path.String(), true) + "\n\n")
	body.WriteString(warnStyle.Render("Importing replaces every current task.") + "\n")
	body.WriteString(faintStyle.Render("enter import | ctrl+u clear | esc cancel"))
	b.WriteString(dialogStyle.Render(body.String()))
	b.WriteString("\n\n")
}

func writeAlert(b *strings.Builder, msg string) {
	b.WriteString(alertStyle.Render("Error\n\n" + msg + "\n\n" + faintStyle.Render("press any key")))
	b.WriteString("\n")
}

func writeCalendar(b *strings.Builder, tasks []todo.Task, day, today time.Time) {
	year, month, _ := day.Date()
	loc := day.Location()
	marked := view.MarkedDays(tasks, year, month, loc)

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", month, year)) + "\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")
	for _, week := range view.MonthGrid(year, month, loc) {
		cells := make([]string, 0, 7)
		for _, d := range week {
			if d == 0 {
				cells = append(cells, "  ")
				continue
			}
			cell := fmt.Sprintf("%2d", d)
			switch {
			case d == day.Day():
				cell = selectedDayStyle.Render(cell)
			case marked[d]:
				cell = markedDayStyle.Render(cell)
			case sameDay(time.Date(year, month, d, 0, 0, 0, 0, loc), today):
				cell = todayStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	b.WriteString("\n")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func writeDayTasks(b *strings.Builder, tasks []todo.Task, day time.Time, cursor int) {
	b.WriteString(headerStyle.Render(day.Format("Monday, January 2")) + "\n\n")
	if len(tasks) == 0 {
		b.WriteString(faintStyle.Render("  Nothing scheduled.") + "\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(formatTask(t, i == cursor) + "\n")
	}
	b.WriteString("\n")
}

func writeStatus(b *strings.Builder, status string, importing bool) {
	if status == "" {
		return
	}
	if importing {
		b.WriteString(warnStyle.Render(status) + "\n\n")
		return
	}
	b.WriteString(statusStyle.Render(status) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j   Move selection\n")
	b.WriteString("  a              Add a task\n")
	b.WriteString("  x, space       Toggle completed\n")
	b.WriteString("  d, delete      Delete task\n")
	b.WriteString("  m              Edit memo\n")
	b.WriteString("  s              Cycle sort: default, priority, completed, date\n")
	b.WriteString("  f              Cycle filter: all, completed, incomplete\n")
	b.WriteString("  c              Calendar (tab selects a day's task, d deletes it)\n")
	b.WriteString("  e              Export to the data file\n")
	b.WriteString("  i              Import from a file\n")
	b.WriteString("  ?, h           Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
	writeFooter(b, "press any key to close")
}

func writeFooter(b *strings.Builder, keys string) {
	b.WriteString(faintStyle.Render(keys))
	b.WriteString("\n")
}
