// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Handles deletion of customers and appointments with confirmation dialog
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", m.pendingDelete.kind)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(m.pendingDelete.kind), m.pendingDelete.name)
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	dialog := confirmBoxStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.deleteCmd()
	case "n", "N", "esc":
		m.viewMode = m.cancelDeleteView()
		return m, nil
	}
	return m, nil
}

// cancelDeleteView returns to the screen the dialog was opened from.
func (m Model) cancelDeleteView() ViewMode {
	if m.pendingDelete.kind == "appointment" {
		return ViewDay
	}
	return ViewCustomers
}

func (m Model) deleteCmd() tea.Cmd {
	client := m.client
	target := m.pendingDelete
	return func() tea.Msg {
		var err error
		if target.kind == "appointment" {
			err = client.DeleteAppointment(context.Background(), target.id)
		} else {
			err = client.DeleteCustomer(context.Background(), target.id)
		}
		return deleteDoneMsg{kind: target.kind, err: err}
	}
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.viewMode = m.cancelDeleteView()
	m.pendingDelete = deleteTarget{}
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.status = "Deleted"
	if msg.kind == "appointment" {
		return m, m.loadMonthCmd()
	}
	m.customers.loading = true
	return m, m.loadCustomersCmd()
}
