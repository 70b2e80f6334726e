// ABOUTME: Customer and treatment endpoints of the clinic backend
// ABOUTME: CRUD over /wp-json/custom/v1/customers and nested treatments
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phuongsen/dentdesk/models"
)

const customersPath = "/wp-json/custom/v1/customers"

// CustomerQuery narrows a customer listing server-side. All fields are
// optional; callers re-filter locally regardless, the query only trims the
// transfer.
type CustomerQuery struct {
	From string // YYYY-MM-DD, inclusive
	To   string // YYYY-MM-DD, inclusive
	Text string // free text against name or phone
}

func (q CustomerQuery) values() url.Values {
	v := url.Values{}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	return v
}

func (c *Client) ListCustomers(ctx context.Context, q CustomerQuery) ([]models.Customer, error) {
	raw, err := c.request(ctx, http.MethodGet, customersPath, q.values(), nil, true)
	if err != nil {
		return nil, err
	}
	var customers []models.Customer
	if err := decodeRows(raw, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int) (models.Customer, error) {
	var customer models.Customer
	raw, err := c.request(ctx, http.MethodGet, fmt.Sprintf("%s/%d", customersPath, id), nil, nil, true)
	if err != nil {
		return customer, err
	}
	if err := json.Unmarshal(raw, &customer); err != nil {
		return customer, fmt.Errorf("failed to decode customer: %w", err)
	}
	return customer, nil
}

// NewCustomer is the creation payload. The initial treatment records which
// service brought the customer in.
type NewCustomer struct {
	Name       string             `json:"name"`
	Phone      string             `json:"phone"`
	Avatar     string             `json:"avatar"`
	NASLink    string             `json:"nas_link"`
	Treatments []models.Treatment `json:"treatments"`
}

func (c *Client) CreateCustomer(ctx context.Context, payload NewCustomer) error {
	_, err := c.request(ctx, http.MethodPost, customersPath, nil, payload, true)
	return err
}

// CustomerUpdate carries the editable base fields, without treatments.
type CustomerUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Avatar  string `json:"avatar"`
	NASLink string `json:"nas_link"`
}

func (c *Client) UpdateCustomer(ctx context.Context, id int, payload CustomerUpdate) error {
	_, err := c.request(ctx, http.MethodPut, fmt.Sprintf("%s/%d", customersPath, id), nil, payload, true)
	return err
}

func (c *Client) DeleteCustomer(ctx context.Context, id int) error {
	_, err := c.request(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", customersPath, id), nil, nil, true)
	return err
}

type treatmentPayload struct {
	Service string `json:"service"`
	Date    string `json:"treatment_date"`
	Note    string `json:"note"`
}

func (c *Client) CreateTreatment(ctx context.Context, customerID int, t models.Treatment) error {
	path := fmt.Sprintf("%s/%d/treatments", customersPath, customerID)
	_, err := c.request(ctx, http.MethodPost, path, nil, treatmentPayload{t.Service, t.Date, t.Note}, true)
	return err
}

func (c *Client) UpdateTreatment(ctx context.Context, customerID int, t models.Treatment) error {
	path := fmt.Sprintf("%s/%d/treatments/%d", customersPath, customerID, t.ID)
	_, err := c.request(ctx, http.MethodPut, path, nil, treatmentPayload{t.Service, t.Date, t.Note}, true)
	return err
}

func (c *Client) DeleteTreatment(ctx context.Context, customerID, treatmentID int) error {
	path := fmt.Sprintf("%s/%d/treatments/%d", customersPath, customerID, treatmentID)
	_, err := c.request(ctx, http.MethodDelete, path, nil, nil, true)
	return err
}
