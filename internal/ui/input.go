package ui

import tea "github.com/charmbracelet/bubbletea"

// lineInput is a single-line text field edited at its end.
type lineInput struct {
	value []rune
}

func newLineInput(s string) lineInput {
	return lineInput{value: []rune(s)}
}

// handle applies an editing key and reports whether it was consumed.
func (in *lineInput) handle(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		in.value = append(in.value, msg.Runes...)
	case tea.KeySpace:
		in.value = append(in.value, ' ')
	case tea.KeyBackspace:
		if len(in.value) > 0 {
			in.value = in.value[:len(in.value)-1]
		}
	case tea.KeyCtrlU:
		in.value = in.value[:0]
	default:
		return false
	}
	return true
}

func (in lineInput) String() string {
	return string(in.value)
}

func (in lineInput) Len() int {
	return len(in.value)
}
