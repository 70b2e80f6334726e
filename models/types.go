// ABOUTME: Data models for clinic entities
// ABOUTME: Defines Customer, Treatment, Appointment, and Identity structs
package models

import "strings"

// Calendar dates are ISO "YYYY-MM-DD" strings and times are "HH:MM:SS",
// matching the backend wire format. Lexicographic order on these strings
// equals chronological order, which the sort and filter code relies on.

type Identity struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type Treatment struct {
	ID      int    `json:"id"`
	Service string `json:"service"`
	Date    string `json:"treatment_date"`
	Note    string `json:"note,omitempty"`
}

// Persisted reports whether the treatment has been saved to the backend.
// A zero ID marks a locally created row pending its first save.
func (t Treatment) Persisted() bool {
	return t.ID > 0
}

type Customer struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone,omitempty"`
	Avatar     string      `json:"avatar,omitempty"`
	NASLink    string      `json:"nas_link,omitempty"`
	Treatments []Treatment `json:"treatments,omitempty"`
}

// LatestTreatmentDate returns the most recent treatment date, or "" when the
// customer has no treatments.
func (c Customer) LatestTreatmentDate() string {
	latest := ""
	for _, t := range c.Treatments {
		if t.Date > latest {
			latest = t.Date
		}
	}
	return latest
}

// ServiceTags returns the customer's distinct non-empty treatment services in
// first-seen order.
func (c Customer) ServiceTags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range c.Treatments {
		s := strings.TrimSpace(t.Service)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		tags = append(tags, s)
	}
	return tags
}

type Appointment struct {
	ID               int    `json:"id"`
	CustomerID       int    `json:"customer_id,omitempty"`
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	CustomerBirthday string `json:"customer_birthday,omitempty"`
	Service          string `json:"service,omitempty"`
	Staff            string `json:"staff,omitempty"`
	Date             string `json:"date"`
	Time             string `json:"time"`
}

// Services is the clinic's service catalog, used for new-customer treatments
// and directory filter chips. Appointments accept free-text services too.
var Services = []string{
	"Thăm khám",
	"Implant",
	"Niềng răng",
	"Bọc răng sứ",
}
