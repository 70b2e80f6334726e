// ABOUTME: Customer picker overlay for the appointment form
// ABOUTME: Debounced search where only the latest query's results are accepted
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phuongsen/dentdesk/picker"
)

var pickerBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("178")).
	Padding(1, 2).
	Width(60)

type pickerState struct {
	visible bool
	input   textinput.Model
	cursor  int
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	input := textinput.New()
	input.Placeholder = "Name or phone..."
	input.Focus()
	m.pickerState = pickerState{visible: true, input: input}
	m.pick.Open()
	return m, nil
}

func (m Model) renderPickerView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PICK CUSTOMER"))
	s.WriteString("\n\n")
	s.WriteString(m.pickerState.input.View())
	s.WriteString("\n\n")

	switch {
	case m.pick.Err() != nil:
		s.WriteString(errorStyle.Render("Search failed: " + m.pick.Err().Error()))
		s.WriteString("\n")
	case len(m.pick.Results()) == 0:
		s.WriteString(helpStyle.Render("No matches"))
		s.WriteString("\n")
	default:
		for i, match := range m.pick.Results() {
			if i == m.pickerState.cursor {
				s.WriteString("> ")
			} else {
				s.WriteString("  ")
			}
			s.WriteString(fmt.Sprintf("%-24s %s\n", match.Name, match.Phone))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: Move • Enter: Select • Esc: Cancel"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		pickerBoxStyle.Render(s.String()))
}

func (m Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pickerState.visible = false
		return m, nil
	case "up":
		if m.pickerState.cursor > 0 {
			m.pickerState.cursor--
		}
		return m, nil
	case "down":
		if m.pickerState.cursor < len(m.pick.Results())-1 {
			m.pickerState.cursor++
		}
		return m, nil
	case "enter":
		if m.pick.Select(m.pickerState.cursor, &m.apptForm.form) {
			m.pickerState.visible = false
			m.apptForm.inputs[apptFieldName].SetValue(m.apptForm.form.CustomerName)
			m.apptForm.inputs[apptFieldPhone].SetValue(m.apptForm.form.CustomerPhone)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pickerState.input, cmd = m.pickerState.input.Update(msg)

	if q := m.pickerState.input.Value(); q != m.pick.Query() {
		m.pickerState.cursor = 0
		req := m.pick.SetQuery(q)
		// Hold the request until the debounce tick; a newer keystroke will
		// have replaced the latest tag by then and this one gets dropped.
		debounce := tea.Tick(picker.DebounceInterval, func(time.Time) tea.Msg {
			return pickerDebounceMsg{req: req}
		})
		return m, tea.Batch(cmd, debounce)
	}
	return m, cmd
}

func (m Model) handlePickerDebounce(msg pickerDebounceMsg) (tea.Model, tea.Cmd) {
	if !m.pick.IsCurrent(msg.req) {
		return m, nil
	}
	return m, m.searchPickerCmd(msg.req)
}
