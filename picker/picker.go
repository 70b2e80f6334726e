// ABOUTME: Debounced incremental customer search for the appointment form
// ABOUTME: Tags requests with monotonic ULIDs so only the latest query wins
package picker

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/calendar"
	"github.com/phuongsen/dentdesk/models"
)

// DebounceInterval is how long input must pause before a search fires.
const DebounceInterval = 220 * time.Millisecond

// Match is the short customer row shown in the picker.
type Match struct {
	ID     int
	Name   string
	Phone  string
	Avatar string
}

// Request identifies one issued search. Tags are monotonic ULIDs, so a plain
// string comparison orders requests by issue time.
type Request struct {
	Tag   string
	Query string
}

// Picker searches the customer directory incrementally. Responses arriving
// for anything but the most recently issued request are discarded, so a slow
// stale response can never overwrite a newer one.
type Picker struct {
	client  *api.Client
	entropy *ulid.MonotonicEntropy

	latest  Request
	results []Match
	err     error
}

func New(client *api.Client) *Picker {
	return &Picker{
		client:  client,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Open resets the picker and issues the initial empty-query request.
func (p *Picker) Open() Request {
	p.results = nil
	p.err = nil
	return p.SetQuery("")
}

// SetQuery records new input and returns the request the caller should
// resolve after the debounce interval.
func (p *Picker) SetQuery(q string) Request {
	p.latest = Request{Tag: p.newTag(), Query: q}
	return p.latest
}

func (p *Picker) newTag() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy).String()
}

// IsCurrent reports whether a request is still the most recently issued one.
// Checked both before dispatch (the debounce may have been superseded) and
// after the response arrives.
func (p *Picker) IsCurrent(req Request) bool {
	return req.Tag == p.latest.Tag
}

// Resolve performs the search for a request and applies the result if the
// request is still current. Superseded requests complete as no-ops.
func (p *Picker) Resolve(ctx context.Context, req Request) error {
	if !p.IsCurrent(req) {
		return nil
	}

	customers, err := p.client.ListCustomers(ctx, api.CustomerQuery{Text: req.Query})

	if !p.IsCurrent(req) {
		return nil // a newer query was issued while this one was in flight
	}
	if err != nil {
		p.results = nil
		p.err = err
		return err
	}
	p.results = toMatches(customers)
	p.err = nil
	return nil
}

// Accept applies externally fetched results for a request, with the same
// staleness guard as Resolve. The TUI uses this from its message loop.
func (p *Picker) Accept(req Request, customers []models.Customer, err error) {
	if !p.IsCurrent(req) {
		return
	}
	if err != nil {
		p.results = nil
		p.err = err
		return
	}
	p.results = toMatches(customers)
	p.err = nil
}

func toMatches(customers []models.Customer) []Match {
	matches := make([]Match, 0, len(customers))
	for _, c := range customers {
		matches = append(matches, Match{
			ID:     c.ID,
			Name:   c.Name,
			Phone:  c.Phone,
			Avatar: c.Avatar,
		})
	}
	return matches
}

func (p *Picker) Results() []Match { return p.results }
func (p *Picker) Err() error       { return p.err }
func (p *Picker) Query() string    { return p.latest.Query }

// Select copies a match into the appointment form. Closing the picker
// afterwards is the caller's cosmetic concern.
func (p *Picker) Select(i int, form *calendar.Form) bool {
	if i < 0 || i >= len(p.results) {
		return false
	}
	m := p.results[i]
	form.CustomerID = m.ID
	form.CustomerName = m.Name
	form.CustomerPhone = m.Phone
	return true
}
