// ABOUTME: Add-customer form for the TUI
// ABOUTME: Collects the profile, optionally uploads an avatar, records the first visit
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/avatar"
	"github.com/phuongsen/dentdesk/models"
)

const (
	addFieldName = iota
	addFieldPhone
	addFieldNAS
	addFieldImage
	addFieldCount
)

type addCustomerForm struct {
	inputs     []textinput.Model
	focus      int
	serviceIdx int // index into models.Services for the first visit
	busy       bool
}

func newAddCustomerForm() addCustomerForm {
	inputs := make([]textinput.Model, addFieldCount)

	inputs[addFieldName] = textinput.New()
	inputs[addFieldName].Placeholder = "Name"
	inputs[addFieldName].CharLimit = 100
	inputs[addFieldName].Focus()

	inputs[addFieldPhone] = textinput.New()
	inputs[addFieldPhone].Placeholder = "Phone"
	inputs[addFieldPhone].CharLimit = 20

	inputs[addFieldNAS] = textinput.New()
	inputs[addFieldNAS].Placeholder = "NAS link"
	inputs[addFieldNAS].CharLimit = 200

	inputs[addFieldImage] = textinput.New()
	inputs[addFieldImage].Placeholder = "Avatar image path"
	inputs[addFieldImage].CharLimit = 200

	return addCustomerForm{inputs: inputs}
}

func (f *addCustomerForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *addCustomerForm) reset() {
	*f = newAddCustomerForm()
}

func (m Model) renderAddCustomerView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DENTDESK"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")
	s.WriteString(titleStyle.Render("NEW CUSTOMER"))
	s.WriteString("\n\n")

	for i, input := range m.addForm.inputs {
		if i == m.addForm.focus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString(fmt.Sprintf("\n  First visit: %s  (ctrl+s to cycle)\n", models.Services[m.addForm.serviceIdx]))

	s.WriteString("\n")
	if m.addForm.busy {
		s.WriteString("Saving...\n")
	}
	s.WriteString(m.renderStatusLine())
	s.WriteString("\n")

	help := []string{
		"Tab: Next field",
		"ctrl+s: Service",
		"Enter: Save",
		"Esc: Back",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleAddCustomerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.addForm.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.switchTab(ViewCustomers)
	case "tab":
		m.addForm.setFocus((m.addForm.focus + 1) % len(m.addForm.inputs))
		return m, nil
	case "shift+tab":
		m.addForm.setFocus((m.addForm.focus + len(m.addForm.inputs) - 1) % len(m.addForm.inputs))
		return m, nil
	case "ctrl+s":
		// Plain "s" types into the focused field, so the service shortcut
		// takes the control chord.
		m.addForm.serviceIdx = (m.addForm.serviceIdx + 1) % len(models.Services)
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.addForm.inputs[addFieldName].Value())
		phone := strings.TrimSpace(m.addForm.inputs[addFieldPhone].Value())
		nas := strings.TrimSpace(m.addForm.inputs[addFieldNAS].Value())
		image := strings.TrimSpace(m.addForm.inputs[addFieldImage].Value())
		if name == "" || phone == "" || nas == "" {
			m.err = &api.ValidationError{Field: "name, phone and NAS link"}
			return m, nil
		}
		if image == "" {
			m.err = &api.ValidationError{Field: "image"}
			return m, nil
		}
		m.err = nil
		m.addForm.busy = true
		return m, m.saveCustomerCmd()
	}

	var cmd tea.Cmd
	m.addForm.inputs[m.addForm.focus], cmd = m.addForm.inputs[m.addForm.focus].Update(msg)
	return m, cmd
}

func (m Model) saveCustomerCmd() tea.Cmd {
	client := m.client
	nc := api.NewCustomer{
		Name:    strings.TrimSpace(m.addForm.inputs[addFieldName].Value()),
		Phone:   strings.TrimSpace(m.addForm.inputs[addFieldPhone].Value()),
		NASLink: strings.TrimSpace(m.addForm.inputs[addFieldNAS].Value()),
		Treatments: []models.Treatment{{
			Service: models.Services[m.addForm.serviceIdx],
			Date:    time.Now().Format("2006-01-02"),
		}},
	}
	imagePath := strings.TrimSpace(m.addForm.inputs[addFieldImage].Value())

	return func() tea.Msg {
		up, err := avatar.NewUploader()
		if err != nil {
			return customerSavedMsg{err: err}
		}
		url, err := up.UploadFile(imagePath)
		if err != nil {
			return customerSavedMsg{err: err}
		}
		nc.Avatar = url
		return customerSavedMsg{err: client.CreateCustomer(context.Background(), nc)}
	}
}

func (m Model) handleCustomerSaved(msg customerSavedMsg) (tea.Model, tea.Cmd) {
	m.addForm.busy = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.addForm.reset()
	m.status = "Customer created"
	m.viewMode = ViewCustomers
	m.customers.loading = true
	return m, m.loadCustomersCmd()
}
