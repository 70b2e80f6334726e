// ABOUTME: Tests for the calendar view-model
// ABOUTME: Covers fetch phases, stale-month handling, and mutation guards
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/models"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

func allowAll(models.Permission) bool { return true }

func denyAll(models.Permission) bool { return false }

// fakeBackend serves the appointments endpoint and records traffic.
type fakeBackend struct {
	appts     []models.Appointment
	listCalls int
	writes    []string // "POST", "PUT", "DELETE"
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.listCalls++
			from := r.URL.Query().Get("from")
			to := r.URL.Query().Get("to")
			var out []models.Appointment
			for _, a := range f.appts {
				if a.Date >= from && a.Date <= to {
					out = append(out, a)
				}
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodPost, http.MethodPut:
			f.writes = append(f.writes, r.Method)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			f.writes = append(f.writes, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

func newTestCalendar(t *testing.T, backend *fakeBackend, can func(models.Permission) bool) *Calendar {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, staticToken("token"))
	return New(client, can, 2024, time.June)
}

func TestLoadGroupsByDate(t *testing.T) {
	backend := &fakeBackend{appts: []models.Appointment{
		{ID: 1, CustomerName: "An", Date: "2024-06-10", Time: "09:00:00"},
		{ID: 2, CustomerName: "Bình", Date: "2024-06-10", Time: "10:30:00"},
		{ID: 3, CustomerName: "Chi", Date: "2024-06-12", Time: "14:00:00"},
		{ID: 4, CustomerName: "Dung", Date: "2024-07-01", Time: "08:00:00"},
	}}
	cal := newTestCalendar(t, backend, allowAll)

	if err := cal.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cal.Phase() != PhaseLoaded {
		t.Errorf("expected Loaded phase, got %v", cal.Phase())
	}

	day := cal.On("2024-06-10")
	if len(day) != 2 {
		t.Fatalf("expected 2 appointments on 2024-06-10, got %d", len(day))
	}
	if day[0].ID != 1 || day[1].ID != 2 {
		t.Errorf("expected backend order preserved, got %d then %d", day[0].ID, day[1].ID)
	}
	if len(cal.On("2024-06-12")) != 1 {
		t.Errorf("expected 1 appointment on 2024-06-12")
	}
	// July is outside the displayed month's range.
	if len(cal.On("2024-07-01")) != 0 {
		t.Errorf("expected no index entry outside the month")
	}
}

func TestStaleMonthResponseDropped(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend, allowAll)

	year, month, _, _ := cal.BeginLoad()
	cal.NextMonth() // user navigated before the fetch returned

	cal.Complete(year, month, []models.Appointment{
		{ID: 1, Date: "2024-06-10"},
	}, nil)

	if cal.Phase() == PhaseLoaded {
		t.Error("stale response must not mark the new month loaded")
	}
	if len(cal.On("2024-06-10")) != 0 {
		t.Error("stale appointments must not be indexed")
	}
}

func TestStaleErrorDropped(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend, allowAll)

	year, month, _, _ := cal.BeginLoad()
	cal.PrevMonth()

	cal.Complete(year, month, nil, errors.New("network down"))
	if cal.Phase() == PhaseError {
		t.Error("stale error must not surface for the new month")
	}
	if cal.Err() != nil {
		t.Errorf("expected no error, got %v", cal.Err())
	}
}

func TestLoadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, staticToken("token"))
	cal := New(client, allowAll, 2024, time.June)

	if err := cal.Load(context.Background()); err == nil {
		t.Fatal("expected error from 500 response")
	}
	if cal.Phase() != PhaseError {
		t.Errorf("expected Error phase, got %v", cal.Phase())
	}
	if cal.Err() == nil {
		t.Error("expected stored error")
	}
}

func TestMonthNavigation(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend, allowAll)

	cal.NextMonth()
	if cal.Year() != 2024 || cal.Month() != time.July {
		t.Errorf("expected July 2024, got %s %d", cal.Month(), cal.Year())
	}

	cal.PrevMonth()
	cal.PrevMonth()
	if cal.Year() != 2024 || cal.Month() != time.May {
		t.Errorf("expected May 2024, got %s %d", cal.Month(), cal.Year())
	}

	// Year boundaries.
	dec := New(nil, allowAll, 2023, time.December)
	dec.NextMonth()
	if dec.Year() != 2024 || dec.Month() != time.January {
		t.Errorf("expected January 2024, got %s %d", dec.Month(), dec.Year())
	}
	jan := New(nil, allowAll, 2024, time.January)
	jan.PrevMonth()
	if jan.Year() != 2023 || jan.Month() != time.December {
		t.Errorf("expected December 2023, got %s %d", jan.Month(), jan.Year())
	}
}

func TestCreateRefetchesMonth(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend, allowAll)

	form := Form{CustomerID: 5, CustomerName: "An", Service: "Implant", Time: "09:30"}
	if err := cal.Create(context.Background(), "2024-06-15", form); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(backend.writes) != 1 || backend.writes[0] != "POST" {
		t.Errorf("expected one POST, got %v", backend.writes)
	}
	if backend.listCalls != 1 {
		t.Errorf("expected the month re-fetched after create, got %d list calls", backend.listCalls)
	}
}

func TestCreateValidation(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend, allowAll)

	var verr *api.ValidationError
	err := cal.Create(context.Background(), "2024-06-15", Form{Time: "09:00"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing customer, got %v", err)
	}

	err = cal.Create(context.Background(), "2024-06-15", Form{CustomerName: "An"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing time, got %v", err)
	}

	if len(backend.writes) != 0 {
		t.Errorf("invalid forms must not reach the backend, got %v", backend.writes)
	}
}

func TestMutationsRequirePermission(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend, denyAll)

	var perr *api.PermissionError
	form := Form{CustomerName: "An", Time: "09:00"}

	if err := cal.Create(context.Background(), "2024-06-15", form); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError from Create, got %v", err)
	}
	appt := models.Appointment{ID: 3, CustomerName: "An", Time: "09:00", Date: "2024-06-15"}
	if err := cal.Update(context.Background(), appt); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError from Update, got %v", err)
	}
	if err := cal.Delete(context.Background(), 3); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError from Delete, got %v", err)
	}
	if len(backend.writes) != 0 {
		t.Errorf("denied mutations must not reach the backend, got %v", backend.writes)
	}
}

func TestDeleteRefetchesMonth(t *testing.T) {
	backend := &fakeBackend{appts: []models.Appointment{
		{ID: 9, CustomerName: "An", Date: "2024-06-20", Time: "09:00:00"},
	}}
	cal := newTestCalendar(t, backend, allowAll)

	if err := cal.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(backend.writes) != 1 || backend.writes[0] != "DELETE" {
		t.Errorf("expected one DELETE, got %v", backend.writes)
	}
	if backend.listCalls != 1 {
		t.Errorf("expected re-fetch after delete, got %d list calls", backend.listCalls)
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"09:30", "09:30:00"},
		{"09:30:15", "09:30:15"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTime(tt.input); got != tt.expected {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
