// ABOUTME: Appointment endpoints of the clinic backend
// ABOUTME: Range listing and CRUD over /wp-json/custom/v1/appointments
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phuongsen/dentdesk/models"
)

const appointmentsPath = "/wp-json/custom/v1/appointments"

// ListAppointments fetches appointments with dates in [from, to] inclusive.
func (c *Client) ListAppointments(ctx context.Context, from, to string) ([]models.Appointment, error) {
	v := url.Values{}
	v.Set("from", from)
	v.Set("to", to)

	raw, err := c.request(ctx, http.MethodGet, appointmentsPath, v, nil, true)
	if err != nil {
		return nil, err
	}
	var appts []models.Appointment
	if err := decodeRows(raw, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

type appointmentPayload struct {
	CustomerID       int    `json:"customer_id,omitempty"`
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerBirthday string `json:"customer_birthday,omitempty"`
	Service          string `json:"service"`
	Staff            string `json:"staff"`
	Date             string `json:"date"`
	Time             string `json:"time"`
}

func payloadFor(a models.Appointment) appointmentPayload {
	return appointmentPayload{
		CustomerID:       a.CustomerID,
		CustomerName:     a.CustomerName,
		CustomerPhone:    a.CustomerPhone,
		CustomerBirthday: a.CustomerBirthday,
		Service:          a.Service,
		Staff:            a.Staff,
		Date:             a.Date,
		Time:             a.Time,
	}
}

func (c *Client) CreateAppointment(ctx context.Context, a models.Appointment) error {
	_, err := c.request(ctx, http.MethodPost, appointmentsPath, nil, payloadFor(a), true)
	return err
}

func (c *Client) UpdateAppointment(ctx context.Context, a models.Appointment) error {
	path := fmt.Sprintf("%s/%d", appointmentsPath, a.ID)
	_, err := c.request(ctx, http.MethodPut, path, nil, payloadFor(a), true)
	return err
}

func (c *Client) DeleteAppointment(ctx context.Context, id int) error {
	path := fmt.Sprintf("%s/%d", appointmentsPath, id)
	_, err := c.request(ctx, http.MethodDelete, path, nil, nil, true)
	return err
}
