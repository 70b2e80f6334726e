// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen client for login, customers, and the appointment calendar
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/auth"
	"github.com/phuongsen/dentdesk/calendar"
	"github.com/phuongsen/dentdesk/models"
	"github.com/phuongsen/dentdesk/picker"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewLogin ViewMode = iota
	ViewNoAccess
	ViewCustomers
	ViewAddCustomer
	ViewCalendar
	ViewDay
	ViewApptForm
	ViewConfirmDelete
)

// deleteTarget says what the confirmation dialog is about to remove.
type deleteTarget struct {
	kind string // "customer" or "appointment"
	id   int
	name string
}

// Model is the main bubbletea model
type Model struct {
	client *api.Client
	store  *auth.Store

	viewMode ViewMode
	width    int
	height   int
	status   string
	err      error

	// Login view state
	loginForm loginForm

	// Customers tab state
	customers customersState

	// Add-customer tab state
	addForm addCustomerForm

	// Calendar tab state
	cal         *calendar.Calendar
	gridCursor  int // cell under the cursor in the month grid
	selectedDay string
	dayCursor   int
	apptForm    apptFormState

	// Customer picker overlay
	pick        *picker.Picker
	pickerState pickerState

	// Delete confirmation state
	pendingDelete deleteTarget
}

// Run starts the full-screen interface. The store should already be
// initialized; an absent session lands on the login view.
func Run(client *api.Client, store *auth.Store) error {
	m := NewModel(client, store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// NewModel creates a new TUI model
func NewModel(client *api.Client, store *auth.Store) Model {
	now := time.Now()
	m := Model{
		client:    client,
		store:     store,
		cal:       calendar.New(client, store.Can, now.Year(), now.Month()),
		pick:      picker.New(client),
		loginForm: newLoginForm(),
		customers: newCustomersState(),
		addForm:   newAddCustomerForm(),
		width:     80,
		height:    24,
	}
	m.viewMode = m.landingView()
	return m
}

// landingView picks the first screen for the current session.
func (m Model) landingView() ViewMode {
	if _, ok := m.store.Current(); !ok {
		return ViewLogin
	}
	if !m.store.Can(models.PermCustomerAdd) && !m.store.Can(models.PermApptView) {
		// e.g. the photographer role: authenticated but not staff here
		return ViewNoAccess
	}
	return ViewCustomers
}

func (m Model) Init() tea.Cmd {
	if m.viewMode == ViewCustomers {
		return m.loadCustomersCmd()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case customersLoadedMsg:
		return m.handleCustomersLoaded(msg)

	case customerSavedMsg:
		return m.handleCustomerSaved(msg)

	case monthLoadedMsg:
		m.cal.Complete(msg.year, msg.month, msg.appts, msg.err)
		return m, nil

	case apptMutatedMsg:
		return m.handleApptMutated(msg)

	case pickerDebounceMsg:
		return m.handlePickerDebounce(msg)

	case pickerResultMsg:
		m.pick.Accept(msg.req, msg.customers, msg.err)
		return m, nil

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.pickerState.visible {
		return m.renderPickerView()
	}

	switch m.viewMode {
	case ViewLogin:
		return m.renderLoginView()
	case ViewNoAccess:
		return m.renderNoAccessView()
	case ViewCustomers:
		return m.renderCustomersView()
	case ViewAddCustomer:
		return m.renderAddCustomerView()
	case ViewCalendar:
		return m.renderCalendarView()
	case ViewDay:
		return m.renderDayView()
	case ViewApptForm:
		return m.renderApptFormView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.pickerState.visible {
		return m.handlePickerKeys(msg)
	}

	switch m.viewMode {
	case ViewLogin:
		return m.handleLoginKeys(msg)
	case ViewNoAccess:
		return m.handleNoAccessKeys(msg)
	case ViewCustomers:
		return m.handleCustomersKeys(msg)
	case ViewAddCustomer:
		return m.handleAddCustomerKeys(msg)
	case ViewCalendar:
		return m.handleCalendarKeys(msg)
	case ViewDay:
		return m.handleDayKeys(msg)
	case ViewApptForm:
		return m.handleApptFormKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}
	return m, nil
}

// switchTab moves between the three staff tabs, honoring permissions.
func (m Model) switchTab(target ViewMode) (tea.Model, tea.Cmd) {
	switch target {
	case ViewCustomers, ViewAddCustomer:
		if !m.store.Can(models.PermCustomerAdd) {
			m.status = "Your role cannot manage customers"
			return m, nil
		}
	case ViewCalendar:
		if !m.store.Can(models.PermApptView) {
			m.status = "Your role cannot view the calendar"
			return m, nil
		}
	}

	m.viewMode = target
	m.status = ""

	switch target {
	case ViewCustomers:
		return m, m.loadCustomersCmd()
	case ViewCalendar:
		return m, m.loadMonthCmd()
	}
	return m, nil
}

// Messages

type loginResultMsg struct{ err error }

type customersLoadedMsg struct {
	customers []models.Customer
	err       error
}

type customerSavedMsg struct{ err error }

type monthLoadedMsg struct {
	year  int
	month time.Month
	appts []models.Appointment
	err   error
}

type apptMutatedMsg struct{ err error }

type pickerDebounceMsg struct{ req picker.Request }

type pickerResultMsg struct {
	req       picker.Request
	customers []models.Customer
	err       error
}

type deleteDoneMsg struct {
	kind string
	err  error
}

// Commands. All network work happens in commands; the view-model state is
// only touched from Update, so nothing races the render loop.

func (m Model) loadMonthCmd() tea.Cmd {
	year, month, from, to := m.cal.BeginLoad()
	client := m.client
	return func() tea.Msg {
		appts, err := client.ListAppointments(context.Background(), from, to)
		return monthLoadedMsg{year: year, month: month, appts: appts, err: err}
	}
}

func (m Model) loadCustomersCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		customers, err := client.ListCustomers(context.Background(), api.CustomerQuery{})
		return customersLoadedMsg{customers: customers, err: err}
	}
}

func (m Model) searchPickerCmd(req picker.Request) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		customers, err := client.ListCustomers(context.Background(), api.CustomerQuery{Text: req.Query})
		return pickerResultMsg{req: req, customers: customers, err: err}
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("178")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("178")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func (m Model) renderTabs() string {
	type tab struct {
		label string
		view  ViewMode
		show  bool
	}
	tabs := []tab{
		{"Customers", ViewCustomers, m.store.Can(models.PermCustomerAdd)},
		{"Add Customer", ViewAddCustomer, m.store.Can(models.PermCustomerAdd)},
		{"Calendar", ViewCalendar, m.store.Can(models.PermApptView)},
	}

	var rendered []string
	for _, t := range tabs {
		if !t.show {
			continue
		}
		active := m.viewMode == t.view ||
			(t.view == ViewCalendar && (m.viewMode == ViewDay || m.viewMode == ViewApptForm))
		if active {
			rendered = append(rendered, tabActiveStyle.Render(t.label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderStatusLine() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}
