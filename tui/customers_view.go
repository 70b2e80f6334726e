// ABOUTME: Customers tab for the TUI
// ABOUTME: Search box, service and date filters, recency-sorted listing
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/directory"
	"github.com/phuongsen/dentdesk/models"
)

const (
	dateEditNone = iota
	dateEditFrom
	dateEditTo
)

type customersState struct {
	search    textinput.Model
	searching bool // search box focused

	raw     []models.Customer // last fetch, unfiltered
	entries []directory.Entry
	cursor  int

	serviceIdx int // 0 = all, 1.. into services
	services   []string
	from       string
	to         string
	dateInput  textinput.Model
	dateEdit   int // which bound the date input targets

	loading bool
	loadErr error
}

func newCustomersState() customersState {
	search := textinput.New()
	search.Placeholder = "Search name or phone..."
	return customersState{search: search, loading: true}
}

func (cs *customersState) filter() directory.Filter {
	f := directory.Filter{Text: cs.search.Value(), From: cs.from, To: cs.to}
	if cs.serviceIdx > 0 && cs.serviceIdx <= len(cs.services) {
		f.Service = cs.services[cs.serviceIdx-1]
	}
	return f
}

func (cs *customersState) startDateEdit(which int) {
	input := textinput.New()
	input.Placeholder = "YYYY-MM-DD"
	input.CharLimit = 10
	if which == dateEditFrom {
		input.SetValue(cs.from)
	} else {
		input.SetValue(cs.to)
	}
	input.Focus()
	cs.dateInput = input
	cs.dateEdit = which
}

// refine re-derives the listing from the last fetch. Filtering is local and
// authoritative, so no refetch is needed when the filter changes.
func (cs *customersState) refine() {
	cs.entries = directory.Refine(cs.raw, cs.filter())
	allEntries := directory.Refine(cs.raw, directory.Filter{})
	cs.services = directory.AllServices(allEntries)
	if cs.cursor >= len(cs.entries) {
		cs.cursor = 0
	}
}

func (m Model) handleCustomersLoaded(msg customersLoadedMsg) (tea.Model, tea.Cmd) {
	m.customers.loading = false
	m.customers.loadErr = msg.err
	if msg.err == nil {
		m.customers.raw = msg.customers
		m.customers.refine()
	}
	return m, nil
}

func (m Model) renderCustomersView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DENTDESK"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	cs := m.customers

	if cs.searching {
		s.WriteString("Search: " + cs.search.View() + "\n")
	} else if cs.search.Value() != "" {
		s.WriteString("Search: " + cs.search.Value() + "  (/ to edit)\n")
	} else {
		s.WriteString(helpStyle.Render("/: Search") + "\n")
	}

	chip := "All"
	if cs.serviceIdx > 0 && cs.serviceIdx <= len(cs.services) {
		chip = cs.services[cs.serviceIdx-1]
	}
	s.WriteString(fmt.Sprintf("Service: %s  (s to cycle)\n", chip))
	switch {
	case cs.dateEdit == dateEditFrom:
		s.WriteString("From date: " + cs.dateInput.View() + "\n")
	case cs.dateEdit == dateEditTo:
		s.WriteString("To date: " + cs.dateInput.View() + "\n")
	case cs.from != "" || cs.to != "":
		s.WriteString(fmt.Sprintf("Dates: %s → %s  (f/t to edit)\n", orDash(cs.from), orDash(cs.to)))
	}
	s.WriteString("\n")

	switch {
	case cs.loading:
		s.WriteString("Loading customers...\n")
	case cs.loadErr != nil:
		s.WriteString(errorStyle.Render("Failed to load: "+cs.loadErr.Error()) + "\n")
		s.WriteString(helpStyle.Render("r: Retry") + "\n")
	default:
		s.WriteString(m.renderCustomersTable())
		s.WriteString(fmt.Sprintf("\n%d customer(s)\n", len(cs.entries)))
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatusLine())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: Move • f/t: Dates • c: Clear filters • d: Delete • r: Reload • 1/2/3: Tabs • q: Quit"))
	return s.String()
}

func (m Model) renderCustomersTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Phone", Width: 14},
		{Title: "Services", Width: 28},
		{Title: "Last visit", Width: 12},
	}

	var rows []table.Row
	for _, e := range m.customers.entries {
		last := e.LatestDate
		if last == "" {
			last = "-"
		}
		rows = append(rows, table.Row{
			e.Name,
			e.Phone,
			strings.Join(e.Services, " • "),
			last,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-14),
	)
	if m.customers.cursor < len(rows) {
		t.SetCursor(m.customers.cursor)
	}
	return t.View()
}

func (m Model) handleCustomersKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cs := &m.customers

	if cs.dateEdit != dateEditNone {
		switch msg.String() {
		case "esc":
			cs.dateEdit = dateEditNone
			return m, nil
		case "enter":
			v := strings.TrimSpace(cs.dateInput.Value())
			if v != "" {
				if _, err := time.Parse("2006-01-02", v); err != nil {
					m.err = &api.ValidationError{Field: "date (YYYY-MM-DD)"}
					return m, nil
				}
			}
			m.err = nil
			if cs.dateEdit == dateEditFrom {
				cs.from = v
			} else {
				cs.to = v
			}
			cs.dateEdit = dateEditNone
			cs.refine()
			return m, nil
		}
		var cmd tea.Cmd
		cs.dateInput, cmd = cs.dateInput.Update(msg)
		return m, cmd
	}

	if cs.searching {
		switch msg.String() {
		case "enter", "esc":
			cs.searching = false
			cs.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		cs.search, cmd = cs.search.Update(msg)
		cs.refine()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		cs.searching = true
		cs.search.Focus()
		return m, nil
	case "s":
		cs.serviceIdx = (cs.serviceIdx + 1) % (len(cs.services) + 1)
		cs.refine()
		return m, nil
	case "f":
		cs.startDateEdit(dateEditFrom)
		return m, nil
	case "t":
		cs.startDateEdit(dateEditTo)
		return m, nil
	case "c":
		cs.search.SetValue("")
		cs.serviceIdx = 0
		cs.from, cs.to = "", ""
		cs.refine()
		return m, nil
	case "up", "k":
		if cs.cursor > 0 {
			cs.cursor--
		}
		return m, nil
	case "down", "j":
		if cs.cursor < len(cs.entries)-1 {
			cs.cursor++
		}
		return m, nil
	case "r":
		cs.loading = true
		cs.loadErr = nil
		return m, m.loadCustomersCmd()
	case "d":
		if cs.cursor < len(cs.entries) {
			e := cs.entries[cs.cursor]
			m.pendingDelete = deleteTarget{kind: "customer", id: e.ID, name: e.Name}
			m.viewMode = ViewConfirmDelete
		}
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

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
