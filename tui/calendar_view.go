// ABOUTME: Calendar tab for the TUI
// ABOUTME: Month grid, per-day appointment list, create/edit appointment form
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/calendar"
	"github.com/phuongsen/dentdesk/models"
)

var (
	dayCellStyle = lipgloss.NewStyle().
			Width(9).
			Height(2).
			Align(lipgloss.Left)

	dayCursorStyle = dayCellStyle.
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("178")).
			Bold(true)

	dayCountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))
)

var weekdayHeader = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// dayNumber strips the leading year-month from a grid cell's ISO date.
func dayNumber(dayISO string) string {
	n, _ := strconv.Atoi(dayISO[len("2006-01-"):])
	return strconv.Itoa(n)
}

func (m Model) renderCalendarView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DENTDESK"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", m.cal.Month(), m.cal.Year())))
	s.WriteString("\n")

	switch m.cal.Phase() {
	case calendar.PhaseLoading:
		s.WriteString("Loading appointments...\n")
	case calendar.PhaseError:
		s.WriteString(errorStyle.Render("Failed to load: "+m.cal.Err().Error()) + "\n")
		s.WriteString(helpStyle.Render("r: Retry") + "\n")
	}

	for _, h := range weekdayHeader {
		s.WriteString(fmt.Sprintf("%-9s", h))
	}
	s.WriteString("\n")

	grid := m.cal.Grid()
	for r, row := range grid {
		var cells []string
		for c, day := range row {
			idx := r*len(row) + c
			cells = append(cells, m.renderDayCell(idx, day))
		}
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatusLine())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("←/→/↑/↓: Move • h/l: Month • Enter: Day • r: Reload • 1/2/3: Tabs • q: Quit"))
	return s.String()
}

func (m Model) renderDayCell(idx int, day string) string {
	style := dayCellStyle
	if idx == m.gridCursor {
		style = dayCursorStyle
	}
	if day == "" {
		return style.Render("")
	}

	body := dayNumber(day)
	if n := len(m.cal.On(day)); n > 0 {
		body += "\n" + dayCountStyle.Render(fmt.Sprintf("%d appt", n))
	}
	return style.Render(body)
}

func (m Model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left":
		if m.gridCursor > 0 {
			m.gridCursor--
		}
		return m, nil
	case "right":
		if m.gridCursor < calendar.GridRows*calendar.GridCols-1 {
			m.gridCursor++
		}
		return m, nil
	case "up":
		if m.gridCursor >= calendar.GridCols {
			m.gridCursor -= calendar.GridCols
		}
		return m, nil
	case "down":
		if m.gridCursor < calendar.GridCols*(calendar.GridRows-1) {
			m.gridCursor += calendar.GridCols
		}
		return m, nil
	case "h":
		m.cal.PrevMonth()
		m.gridCursor = 0
		return m, m.loadMonthCmd()
	case "l":
		m.cal.NextMonth()
		m.gridCursor = 0
		return m, m.loadMonthCmd()
	case "r":
		return m, m.loadMonthCmd()
	case "enter":
		grid := m.cal.Grid()
		day := grid[m.gridCursor/calendar.GridCols][m.gridCursor%calendar.GridCols]
		if day == "" {
			return m, nil
		}
		m.selectedDay = day
		m.dayCursor = 0
		m.viewMode = ViewDay
		return m, nil
	case "1":
		return m.switchTab(ViewCustomers)
	case "2":
		return m.switchTab(ViewAddCustomer)
	case "3":
		return m.switchTab(ViewCalendar)
	}
	return m, nil
}

func (m Model) renderDayView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DENTDESK"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")
	s.WriteString(titleStyle.Render(m.selectedDay))
	s.WriteString("\n\n")

	appts := m.cal.On(m.selectedDay)
	if len(appts) == 0 {
		s.WriteString("No appointments.\n")
	}
	for i, a := range appts {
		if i == m.dayCursor {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(fmt.Sprintf("%s  %-20s  %-12s  %s\n", a.Time, a.CustomerName, a.Service, a.Staff))
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatusLine())
	s.WriteString("\n")

	help := []string{"↑/↓: Move"}
	if m.store.Can(models.PermApptCreate) {
		help = append(help, "n: New")
	}
	if m.store.Can(models.PermApptUpdate) {
		help = append(help, "e: Edit")
	}
	if m.store.Can(models.PermApptDelete) {
		help = append(help, "d: Delete")
	}
	help = append(help, "Esc: Back")
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleDayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	appts := m.cal.On(m.selectedDay)

	switch msg.String() {
	case "esc":
		m.viewMode = ViewCalendar
		return m, nil
	case "up", "k":
		if m.dayCursor > 0 {
			m.dayCursor--
		}
		return m, nil
	case "down", "j":
		if m.dayCursor < len(appts)-1 {
			m.dayCursor++
		}
		return m, nil
	case "n":
		if !m.store.Can(models.PermApptCreate) {
			m.status = "Your role cannot create appointments"
			return m, nil
		}
		m.apptForm = newApptFormState(calendar.Form{}, 0)
		m.viewMode = ViewApptForm
		return m, nil
	case "e":
		if !m.store.Can(models.PermApptUpdate) {
			m.status = "Your role cannot edit appointments"
			return m, nil
		}
		if m.dayCursor >= len(appts) {
			return m, nil
		}
		a := appts[m.dayCursor]
		m.apptForm = newApptFormState(calendar.Form{
			CustomerID:       a.CustomerID,
			CustomerName:     a.CustomerName,
			CustomerPhone:    a.CustomerPhone,
			CustomerBirthday: a.CustomerBirthday,
			Service:          a.Service,
			Staff:            a.Staff,
			Time:             a.Time,
		}, a.ID)
		m.viewMode = ViewApptForm
		return m, nil
	case "d":
		if !m.store.Can(models.PermApptDelete) {
			m.status = "Your role cannot delete appointments"
			return m, nil
		}
		if m.dayCursor >= len(appts) {
			return m, nil
		}
		a := appts[m.dayCursor]
		m.pendingDelete = deleteTarget{kind: "appointment", id: a.ID, name: a.CustomerName + " " + a.Time}
		m.viewMode = ViewConfirmDelete
		return m, nil
	}
	return m, nil
}

// Appointment form

const (
	apptFieldName = iota
	apptFieldPhone
	apptFieldStaff
	apptFieldTime
	apptFieldCount
)

type apptFormState struct {
	form   calendar.Form
	editID int // 0 means create
	inputs []textinput.Model
	focus  int
	busy   bool
}

func newApptFormState(form calendar.Form, editID int) apptFormState {
	inputs := make([]textinput.Model, apptFieldCount)

	inputs[apptFieldName] = textinput.New()
	inputs[apptFieldName].Placeholder = "Customer name"
	inputs[apptFieldName].CharLimit = 100
	inputs[apptFieldName].SetValue(form.CustomerName)
	inputs[apptFieldName].Focus()

	inputs[apptFieldPhone] = textinput.New()
	inputs[apptFieldPhone].Placeholder = "Phone"
	inputs[apptFieldPhone].CharLimit = 20
	inputs[apptFieldPhone].SetValue(form.CustomerPhone)

	inputs[apptFieldStaff] = textinput.New()
	inputs[apptFieldStaff].Placeholder = "Staff"
	inputs[apptFieldStaff].CharLimit = 100
	inputs[apptFieldStaff].SetValue(form.Staff)

	inputs[apptFieldTime] = textinput.New()
	inputs[apptFieldTime].Placeholder = "Time (HH:MM)"
	inputs[apptFieldTime].CharLimit = 8
	inputs[apptFieldTime].SetValue(form.Time)

	if form.Service == "" {
		form.Service = models.Services[0]
	}
	return apptFormState{form: form, editID: editID, inputs: inputs}
}

func (f *apptFormState) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *apptFormState) serviceIdx() int {
	for i, s := range models.Services {
		if s == f.form.Service {
			return i
		}
	}
	return 0
}

func (m Model) renderApptFormView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DENTDESK"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")
	if m.apptForm.editID == 0 {
		s.WriteString(titleStyle.Render("NEW APPOINTMENT — " + m.selectedDay))
	} else {
		s.WriteString(titleStyle.Render("EDIT APPOINTMENT — " + m.selectedDay))
	}
	s.WriteString("\n\n")

	link := "walk-in (ctrl+p to link a customer)"
	if m.apptForm.form.CustomerID != 0 {
		link = fmt.Sprintf("#%d on file", m.apptForm.form.CustomerID)
	}
	s.WriteString("  Customer: " + link + "\n")
	s.WriteString("  Service:  " + m.apptForm.form.Service + "  (ctrl+s to cycle)\n\n")

	for i, input := range m.apptForm.inputs {
		if i == m.apptForm.focus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.apptForm.busy {
		s.WriteString("Saving...\n")
	}
	s.WriteString(m.renderStatusLine())
	s.WriteString("\n")

	help := []string{"ctrl+p: Pick customer", "Tab: Next field", "ctrl+s: Service", "Enter: Save", "Esc: Cancel"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleApptFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.apptForm.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.viewMode = ViewDay
		m.err = nil
		return m, nil
	case "tab":
		m.apptForm.setFocus((m.apptForm.focus + 1) % len(m.apptForm.inputs))
		return m, nil
	case "shift+tab":
		m.apptForm.setFocus((m.apptForm.focus + len(m.apptForm.inputs) - 1) % len(m.apptForm.inputs))
		return m, nil
	case "ctrl+s":
		m.apptForm.form.Service = models.Services[(m.apptForm.serviceIdx()+1)%len(models.Services)]
		return m, nil
	case "ctrl+p":
		// One text field always has focus, so the picker takes a chord too.
		return m.openPicker()
	case "enter":
		m.apptForm.form.CustomerName = strings.TrimSpace(m.apptForm.inputs[apptFieldName].Value())
		m.apptForm.form.CustomerPhone = strings.TrimSpace(m.apptForm.inputs[apptFieldPhone].Value())
		m.apptForm.form.Staff = strings.TrimSpace(m.apptForm.inputs[apptFieldStaff].Value())
		m.apptForm.form.Time = strings.TrimSpace(m.apptForm.inputs[apptFieldTime].Value())
		// Walk-ins are fine: the customer link is optional, the name is not.
		if m.apptForm.form.CustomerName == "" {
			m.err = &api.ValidationError{Field: "customer_name"}
			return m, nil
		}
		if m.apptForm.form.Time == "" {
			m.err = &api.ValidationError{Field: "time"}
			return m, nil
		}
		m.err = nil
		m.apptForm.busy = true
		return m, m.saveApptCmd()
	}

	var cmd tea.Cmd
	m.apptForm.inputs[m.apptForm.focus], cmd = m.apptForm.inputs[m.apptForm.focus].Update(msg)
	return m, cmd
}

func (m Model) saveApptCmd() tea.Cmd {
	client := m.client
	f := m.apptForm.form
	appt := models.Appointment{
		ID:               m.apptForm.editID,
		CustomerID:       f.CustomerID,
		CustomerName:     f.CustomerName,
		CustomerPhone:    f.CustomerPhone,
		CustomerBirthday: f.CustomerBirthday,
		Service:          f.Service,
		Staff:            f.Staff,
		Date:             m.selectedDay,
		Time:             calendar.NormalizeTime(f.Time),
	}
	return func() tea.Msg {
		var err error
		if appt.ID == 0 {
			err = client.CreateAppointment(context.Background(), appt)
		} else {
			err = client.UpdateAppointment(context.Background(), appt)
		}
		return apptMutatedMsg{err: err}
	}
}

func (m Model) handleApptMutated(msg apptMutatedMsg) (tea.Model, tea.Cmd) {
	m.apptForm.busy = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.status = "Saved"
	m.viewMode = ViewDay
	// The write went through; re-fetch the month instead of patching local
	// state so the list reflects what the server actually stored.
	return m, m.loadMonthCmd()
}
