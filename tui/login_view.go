// ABOUTME: Login view for the TUI
// ABOUTME: Username/password form driving the session store
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginForm struct {
	inputs  []textinput.Model
	focus   int
	busy    bool
	message string
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "Username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{inputs: []textinput.Model{username, password}}
}

func (m Model) renderLoginView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("NHA KHOA PHƯƠNG SEN"))
	s.WriteString("\n\n")

	for i, input := range m.loginForm.inputs {
		if i == m.loginForm.focus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.loginForm.busy {
		s.WriteString("Signing in...\n")
	} else if m.loginForm.message != "" {
		s.WriteString(errorStyle.Render(m.loginForm.message))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Tab: Next field • Enter: Sign in • Ctrl+C: Quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loginForm.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		m.loginForm.focus = (m.loginForm.focus + 1) % len(m.loginForm.inputs)
		for i := range m.loginForm.inputs {
			if i == m.loginForm.focus {
				m.loginForm.inputs[i].Focus()
			} else {
				m.loginForm.inputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		username := strings.TrimSpace(m.loginForm.inputs[0].Value())
		password := m.loginForm.inputs[1].Value()
		if username == "" || password == "" {
			m.loginForm.message = "Username and password are required"
			return m, nil
		}
		m.loginForm.busy = true
		m.loginForm.message = ""
		store := m.store
		return m, func() tea.Msg {
			return loginResultMsg{err: store.Login(context.Background(), username, password)}
		}
	}

	var cmd tea.Cmd
	m.loginForm.inputs[m.loginForm.focus], cmd = m.loginForm.inputs[m.loginForm.focus].Update(msg)
	return m, cmd
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.loginForm.busy = false
	if msg.err != nil {
		m.loginForm.message = msg.err.Error()
		return m, nil
	}

	m.viewMode = m.landingView()
	if m.viewMode == ViewCustomers {
		return m, m.loadCustomersCmd()
	}
	return m, nil
}

func (m Model) renderNoAccessView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("NO ACCESS"))
	s.WriteString("\n\n")
	s.WriteString("Your account has no access to the staff screens.\n")
	s.WriteString("Contact an administrator if this is unexpected.\n\n")
	s.WriteString(helpStyle.Render("l: Log out • Ctrl+C: Quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}

func (m Model) handleNoAccessKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l":
		m.store.Logout()
		m.loginForm = newLoginForm()
		m.viewMode = ViewLogin
	case "q":
		return m, tea.Quit
	}
	return m, nil
}
