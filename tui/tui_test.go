// ABOUTME: Tests for TUI view rendering and landing logic
// ABOUTME: Verifies role-dependent tabs and the login/no-access routing
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/auth"
	"github.com/phuongsen/dentdesk/calendar"
	"github.com/phuongsen/dentdesk/models"
)

// newTestModel builds a model whose session has the given roles, backed by a
// stub /me endpoint and a temp credential home.
func newTestModel(t *testing.T, roles []string) Model {
	t.Helper()

	origHome := xdg.DataHome
	xdg.DataHome = t.TempDir()
	t.Cleanup(func() { xdg.DataHome = origHome })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wp-json/custom/v1/me" {
			json.NewEncoder(w).Encode(models.Identity{ID: 1, Name: "Staff", Roles: roles})
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, auth.FileTokenSource{})
	store := auth.NewStore(client)
	if roles != nil {
		if err := auth.SaveCredentials(auth.Credentials{Token: "jwt"}); err != nil {
			t.Fatalf("failed to seed credentials: %v", err)
		}
		store.Initialize(context.Background())
	}
	return NewModel(client, store)
}

func TestLandingWithoutSession(t *testing.T) {
	m := newTestModel(t, nil)
	if m.viewMode != ViewLogin {
		t.Errorf("expected login view, got %v", m.viewMode)
	}

	output := m.View()
	if !strings.Contains(output, "NHA KHOA PHƯƠNG SEN") {
		t.Error("login view should show the clinic name")
	}
}

func TestLandingWithStaffRole(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	if m.viewMode != ViewCustomers {
		t.Errorf("expected customers view, got %v", m.viewMode)
	}
}

func TestLandingWithUnknownRole(t *testing.T) {
	m := newTestModel(t, []string{"photographer"})
	if m.viewMode != ViewNoAccess {
		t.Errorf("expected no-access view, got %v", m.viewMode)
	}

	output := m.View()
	if !strings.Contains(output, "NO ACCESS") {
		t.Error("no-access view should say so")
	}
}

func TestTabsFollowPermissions(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	tabs := m.renderTabs()
	for _, label := range []string{"Customers", "Add Customer", "Calendar"} {
		if !strings.Contains(tabs, label) {
			t.Errorf("administrator should see the %s tab", label)
		}
	}

	// The calendar-only role set does not exist, but assistants see all
	// three since they hold both appt.view and customer.add.
	m = newTestModel(t, []string{"assistant"})
	tabs = m.renderTabs()
	if !strings.Contains(tabs, "Calendar") || !strings.Contains(tabs, "Customers") {
		t.Error("assistant should see customers and calendar tabs")
	}
}

func TestSwitchTabBlockedWithoutPermission(t *testing.T) {
	m := newTestModel(t, []string{"photographer"})

	updated, _ := m.switchTab(ViewCalendar)
	got := updated.(Model)
	if got.viewMode == ViewCalendar {
		t.Error("role without appt.view must not reach the calendar")
	}
	if got.status == "" {
		t.Error("expected an explanatory status message")
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keyEnter = tea.KeyMsg{Type: tea.KeyEnter}

func TestApptFormSavesWalkIn(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	m.selectedDay = "2024-06-12"
	m.viewMode = ViewApptForm
	// No customer link: the appointment was booked by name only.
	m.apptForm = newApptFormState(calendar.Form{CustomerName: "Nguyễn Văn An", Time: "09:00"}, 7)

	updated, cmd := m.handleApptFormKeys(keyEnter)
	got := updated.(Model)
	if got.err != nil {
		t.Fatalf("a named walk-in must be savable: %v", got.err)
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if !got.apptForm.busy {
		t.Error("form should be busy while saving")
	}
}

func TestApptFormRequiresCustomerName(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	m.selectedDay = "2024-06-12"
	m.viewMode = ViewApptForm
	m.apptForm = newApptFormState(calendar.Form{Time: "09:00"}, 0)

	updated, cmd := m.handleApptFormKeys(keyEnter)
	got := updated.(Model)
	var verr *api.ValidationError
	if !errors.As(got.err, &verr) {
		t.Fatalf("expected a validation error, got %v", got.err)
	}
	if cmd != nil {
		t.Error("no save command should be issued without a name")
	}
}

func TestApptFormEditExposesCustomerFields(t *testing.T) {
	f := newApptFormState(calendar.Form{CustomerName: "Trần Bình", CustomerPhone: "0902223344"}, 3)
	if got := f.inputs[apptFieldName].Value(); got != "Trần Bình" {
		t.Errorf("name input not prefilled, got %q", got)
	}
	if got := f.inputs[apptFieldPhone].Value(); got != "0902223344" {
		t.Errorf("phone input not prefilled, got %q", got)
	}
}

func TestCustomersDateRangeKeys(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	m.viewMode = ViewCustomers
	m.customers.loading = false
	m.customers.raw = []models.Customer{
		{ID: 1, Name: "Nguyễn Văn An", Phone: "0901111111",
			Treatments: []models.Treatment{{Service: "Implant", Date: "2024-03-01"}}},
		{ID: 2, Name: "Trần Bình", Phone: "0902223344",
			Treatments: []models.Treatment{{Service: "Niềng răng", Date: "2024-05-20"}}},
	}
	m.customers.refine()

	press := func(msg tea.KeyMsg) {
		updated, _ := m.handleCustomersKeys(msg)
		m = updated.(Model)
	}

	press(keyRunes("f"))
	if m.customers.dateEdit != dateEditFrom {
		t.Fatal("f should open the from-date input")
	}
	press(keyRunes("2024-04-01"))
	press(keyEnter)

	if m.customers.from != "2024-04-01" {
		t.Fatalf("from bound not applied, got %q", m.customers.from)
	}
	if len(m.customers.entries) != 1 || m.customers.entries[0].Name != "Trần Bình" {
		t.Errorf("expected only the later visit to remain, got %v", m.customers.entries)
	}

	press(keyRunes("c"))
	if m.customers.from != "" || len(m.customers.entries) != 2 {
		t.Error("c should clear the date bounds")
	}
}

func TestCustomersDateRangeRejectsGarbage(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	m.viewMode = ViewCustomers
	m.customers.loading = false

	press := func(msg tea.KeyMsg) {
		updated, _ := m.handleCustomersKeys(msg)
		m = updated.(Model)
	}

	press(keyRunes("t"))
	press(keyRunes("next week"))
	press(keyEnter)

	var verr *api.ValidationError
	if !errors.As(m.err, &verr) {
		t.Fatalf("expected a validation error, got %v", m.err)
	}
	if m.customers.to != "" {
		t.Errorf("malformed date must not be applied, got %q", m.customers.to)
	}
	if m.customers.dateEdit != dateEditTo {
		t.Error("input should stay open for a correction")
	}
}

func TestAddCustomerRequiresFullProfile(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	m.viewMode = ViewAddCustomer
	m.addForm.inputs[addFieldName].SetValue("Nguyễn Văn An")
	m.addForm.inputs[addFieldPhone].SetValue("0901111111")

	updated, cmd := m.handleAddCustomerKeys(keyEnter)
	got := updated.(Model)
	var verr *api.ValidationError
	if !errors.As(got.err, &verr) {
		t.Fatalf("expected a validation error without NAS link, got %v", got.err)
	}
	if cmd != nil || got.addForm.busy {
		t.Error("incomplete profile must not be submitted")
	}

	got.addForm.inputs[addFieldNAS].SetValue("https://nas.local/share/an")
	updated, cmd = got.handleAddCustomerKeys(keyEnter)
	got = updated.(Model)
	if !errors.As(got.err, &verr) {
		t.Fatalf("expected a validation error without an image, got %v", got.err)
	}

	got.addForm.inputs[addFieldImage].SetValue("/tmp/an.jpg")
	updated, cmd = got.handleAddCustomerKeys(keyEnter)
	got = updated.(Model)
	if got.err != nil {
		t.Fatalf("complete profile should submit: %v", got.err)
	}
	if cmd == nil || !got.addForm.busy {
		t.Error("expected a save command for the complete profile")
	}
}

func TestConfirmDeleteRendering(t *testing.T) {
	m := newTestModel(t, []string{"administrator"})
	m.pendingDelete = deleteTarget{kind: "customer", id: 4, name: "Nguyễn Văn An"}
	m.viewMode = ViewConfirmDelete

	output := m.View()
	if !strings.Contains(output, "DELETE CONFIRMATION") {
		t.Error("confirmation dialog should render the warning title")
	}
	if !strings.Contains(output, "Nguyễn Văn An") {
		t.Error("confirmation dialog should name the target")
	}
}
