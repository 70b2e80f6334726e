// ABOUTME: Customer directory view-model with filtering and recency sort
// ABOUTME: Fetches records, derives latest visit and service tags per customer
package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/models"
)

// Filter narrows the directory listing. Text matches name or phone substring
// case-insensitively; Service requires the tag among the customer's
// treatments; From/To pass customers with any treatment date in the inclusive
// range (either bound may be empty).
type Filter struct {
	Text    string
	Service string
	From    string
	To      string
}

// Entry is a customer with its derived listing fields.
type Entry struct {
	models.Customer
	LatestDate string
	Services   []string
}

// Directory loads and refines the customer list. Permission gating for
// destructive calls happens in the caller; the backend enforces it for real.
type Directory struct {
	client *api.Client
}

func New(client *api.Client) *Directory {
	return &Directory{client: client}
}

// Load fetches customers and applies the filter. The from/to/q query params
// are forwarded to the backend as an optimization, but the local refinement
// below is authoritative either way.
func (d *Directory) Load(ctx context.Context, f Filter) ([]Entry, error) {
	customers, err := d.client.ListCustomers(ctx, api.CustomerQuery{
		From: f.From,
		To:   f.To,
		Text: f.Text,
	})
	if err != nil {
		return nil, err
	}
	return Refine(customers, f), nil
}

// Refine derives listing fields, sorts by most recent treatment (customers
// with none go last), and applies the filter client-side.
func Refine(customers []models.Customer, f Filter) []Entry {
	entries := make([]Entry, 0, len(customers))
	for _, c := range customers {
		entries = append(entries, Entry{
			Customer:   c,
			LatestDate: c.LatestTreatmentDate(),
			Services:   c.ServiceTags(),
		})
	}

	// Stable keeps input order among customers with equal (or no) dates.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].LatestDate, entries[j].LatestDate
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		return a > b
	})

	filtered := entries[:0]
	for _, e := range entries {
		if matches(e, f) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func matches(e Entry, f Filter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Text)); q != "" {
		inName := strings.Contains(strings.ToLower(e.Name), q)
		inPhone := e.Phone != "" && strings.Contains(e.Phone, q)
		if !inName && !inPhone {
			return false
		}
	}

	if f.Service != "" {
		found := false
		for _, s := range e.Services {
			if s == f.Service {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.From != "" || f.To != "" {
		anyInRange := false
		for _, t := range e.Treatments {
			if t.Date == "" {
				continue
			}
			if f.From != "" && t.Date < f.From {
				continue
			}
			if f.To != "" && t.Date > f.To {
				continue
			}
			anyInRange = true
			break
		}
		if !anyInRange {
			return false
		}
	}

	return true
}

// AllServices collects the distinct service tags across entries, sorted, for
// building filter chips.
func AllServices(entries []Entry) []string {
	seen := make(map[string]bool)
	var services []string
	for _, e := range entries {
		for _, s := range e.Services {
			if !seen[s] {
				seen[s] = true
				services = append(services, s)
			}
		}
	}
	sort.Strings(services)
	return services
}

// Delete removes a customer. Callers gate this on the customer.add grant set;
// the backend is the final authority and may still reject.
func (d *Directory) Delete(ctx context.Context, id int) error {
	return d.client.DeleteCustomer(ctx, id)
}
