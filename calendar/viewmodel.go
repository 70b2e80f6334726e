// ABOUTME: Appointment calendar view-model over a displayed month
// ABOUTME: Fetch phases, date-keyed grouping, permission-gated mutations
package calendar

import (
	"context"
	"time"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/models"
)

// Phase is the fetch state for the displayed month.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

// Form is the local appointment form. Time accepts "HH:MM" or "HH:MM:SS".
type Form struct {
	CustomerID       int
	CustomerName     string
	CustomerPhone    string
	CustomerBirthday string
	Service          string
	Staff            string
	Time             string
}

// Calendar manages one displayed month of appointments. Mutations never patch
// local state; every successful write re-fetches the month so server-side
// transformations are never missed.
type Calendar struct {
	client *api.Client
	can    func(models.Permission) bool

	year  int
	month time.Month

	phase  Phase
	err    error
	byDate map[string][]models.Appointment
}

// New starts at the given month in the Idle phase. The can predicate comes
// from the session store.
func New(client *api.Client, can func(models.Permission) bool, year int, month time.Month) *Calendar {
	return &Calendar{
		client: client,
		can:    can,
		year:   year,
		month:  month,
		byDate: map[string][]models.Appointment{},
	}
}

func (c *Calendar) Year() int         { return c.year }
func (c *Calendar) Month() time.Month { return c.month }
func (c *Calendar) Phase() Phase      { return c.phase }
func (c *Calendar) Err() error        { return c.err }

// Grid returns the 6x7 matrix for the displayed month.
func (c *Calendar) Grid() [][]string {
	return MonthGrid(c.year, c.month)
}

// Range returns the displayed month's [first, last] day.
func (c *Calendar) Range() (from, to string) {
	return MonthRange(c.year, c.month)
}

// On returns the appointments for a day in the order the backend sent them.
func (c *Calendar) On(dayISO string) []models.Appointment {
	return c.byDate[dayISO]
}

func (c *Calendar) PrevMonth() {
	c.year, c.month = shift(c.year, c.month, -1)
	c.phase = PhaseIdle
}

func (c *Calendar) NextMonth() {
	c.year, c.month = shift(c.year, c.month, +1)
	c.phase = PhaseIdle
}

func shift(year int, month time.Month, by int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, by, 0)
	return t.Year(), t.Month()
}

// BeginLoad enters the Loading phase and returns the snapshot a deferred
// fetch must hand back to Complete, so responses for an abandoned month are
// recognizable.
func (c *Calendar) BeginLoad() (year int, month time.Month, from, to string) {
	c.phase = PhaseLoading
	from, to = c.Range()
	return c.year, c.month, from, to
}

// Complete applies a fetch result. Results for a month that is no longer
// displayed are dropped: the user already navigated away and the index is
// keyed by the current month only.
func (c *Calendar) Complete(year int, month time.Month, appts []models.Appointment, err error) {
	if year != c.year || month != c.month {
		return // stale response for an abandoned month
	}
	if err != nil {
		c.phase = PhaseError
		c.err = err
		return
	}

	byDate := make(map[string][]models.Appointment, len(appts))
	for _, a := range appts {
		byDate[a.Date] = append(byDate[a.Date], a)
	}
	c.byDate = byDate
	c.err = nil
	c.phase = PhaseLoaded
}

// Load fetches the displayed month synchronously. Retrying after an error is
// just calling Load again.
func (c *Calendar) Load(ctx context.Context) error {
	year, month, from, to := c.BeginLoad()
	appts, err := c.client.ListAppointments(ctx, from, to)
	c.Complete(year, month, appts, err)
	return err
}

// Create adds an appointment on a day and re-fetches the month.
func (c *Calendar) Create(ctx context.Context, dayISO string, form Form) error {
	if !c.can(models.PermApptCreate) {
		return &api.PermissionError{Perm: models.PermApptCreate}
	}
	if form.CustomerName == "" {
		return &api.ValidationError{Field: "customer_name"}
	}
	if form.Time == "" {
		return &api.ValidationError{Field: "time"}
	}

	appt := models.Appointment{
		CustomerID:       form.CustomerID,
		CustomerName:     form.CustomerName,
		CustomerPhone:    form.CustomerPhone,
		CustomerBirthday: form.CustomerBirthday,
		Service:          form.Service,
		Staff:            form.Staff,
		Date:             dayISO,
		Time:             NormalizeTime(form.Time),
	}
	if err := c.client.CreateAppointment(ctx, appt); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Update saves an edited appointment and re-fetches the month.
func (c *Calendar) Update(ctx context.Context, appt models.Appointment) error {
	if !c.can(models.PermApptUpdate) {
		return &api.PermissionError{Perm: models.PermApptUpdate}
	}
	if appt.CustomerName == "" {
		return &api.ValidationError{Field: "customer_name"}
	}
	if appt.Time == "" {
		return &api.ValidationError{Field: "time"}
	}
	appt.Time = NormalizeTime(appt.Time)

	if err := c.client.UpdateAppointment(ctx, appt); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Delete removes an appointment and re-fetches the month. Callers confirm
// with the user before invoking this.
func (c *Calendar) Delete(ctx context.Context, id int) error {
	if !c.can(models.PermApptDelete) {
		return &api.PermissionError{Perm: models.PermApptDelete}
	}
	if err := c.client.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	return c.Load(ctx)
}

// NormalizeTime widens "HH:MM" to the backend's "HH:MM:SS".
func NormalizeTime(t string) string {
	if len(t) == 5 {
		return t + ":00"
	}
	return t
}
