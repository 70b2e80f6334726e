// ABOUTME: Appointment CLI commands
// ABOUTME: Month listing, search, and appointment CRUD
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phuongsen/dentdesk/cache"
	"github.com/phuongsen/dentdesk/calendar"
	"github.com/phuongsen/dentdesk/models"
	"github.com/phuongsen/dentdesk/picker"
)

// parseMonth accepts "YYYY-MM"; an empty value means the current month.
func parseMonth(s string) (int, time.Month, error) {
	if s == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// monthDays lists the displayed month's days as ISO dates in order.
func monthDays(cal *calendar.Calendar) []string {
	from, to := cal.Range()
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}

// ListAppointmentsCommand prints a month of appointments grouped by day.
// With the backend unreachable and a cache available, last-known data is
// shown instead.
func ListAppointmentsCommand(cal *calendar.Calendar, cacheDB *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	month := fs.String("month", "", "Month to show (YYYY-MM, default current)")
	_ = fs.Parse(args)

	year, m, err := parseMonth(*month)
	if err != nil {
		return err
	}
	for cal.Year() != year || cal.Month() != m {
		if cal.Year() > year || (cal.Year() == year && cal.Month() > m) {
			cal.PrevMonth()
		} else {
			cal.NextMonth()
		}
	}

	monthKey := fmt.Sprintf("%04d-%02d", year, int(m))
	if err := cal.Load(context.Background()); err != nil {
		if cacheDB == nil {
			return err
		}
		cached, cacheErr := cache.LoadMonth(cacheDB, monthKey)
		if cacheErr != nil || cached == nil {
			return err
		}
		log.Printf("backend unreachable, showing cached data: %v", err)
		y, mm, _, _ := cal.BeginLoad()
		cal.Complete(y, mm, cached, nil)
	} else if cacheDB != nil {
		var all []models.Appointment
		for _, day := range monthDays(cal) {
			all = append(all, cal.On(day)...)
		}
		if err := cache.ReplaceMonth(cacheDB, monthKey, all); err != nil {
			log.Printf("warning: failed to refresh cache: %v", err)
		}
	}

	fmt.Printf("%s %d\n\n", m, year)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tCUSTOMER\tPHONE\tSERVICE\tSTAFF\tID")
	count := 0
	for _, day := range monthDays(cal) {
		for _, a := range cal.On(day) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				a.Date, a.Time, a.CustomerName, a.CustomerPhone, a.Service, a.Staff, a.ID)
			count++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d appointment(s)\n", count)
	return nil
}

// CreateAppointmentCommand books an appointment. With -q, the customer is
// looked up in the directory first and its id is attached to the booking.
func CreateAppointmentCommand(cal *calendar.Calendar, pick *picker.Picker, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	date := fs.String("date", "", "Appointment date (YYYY-MM-DD, required)")
	at := fs.String("time", "", "Appointment time (HH:MM, required)")
	name := fs.String("name", "", "Customer name (required unless -q matches)")
	phone := fs.String("phone", "", "Customer phone")
	birthday := fs.String("birthday", "", "Customer birthday (YYYY-MM-DD)")
	service := fs.String("service", "", "Service")
	staff := fs.String("staff", "", "Staff member")
	query := fs.String("q", "", "Look up an existing customer by name or phone")
	_ = fs.Parse(args)

	if *date == "" {
		return fmt.Errorf("-date is required")
	}

	ctx := context.Background()

	form := calendar.Form{
		CustomerName:     *name,
		CustomerPhone:    *phone,
		CustomerBirthday: *birthday,
		Service:          *service,
		Staff:            *staff,
		Time:             *at,
	}

	if *query != "" {
		req := pick.SetQuery(*query)
		if err := pick.Resolve(ctx, req); err != nil {
			return err
		}
		matches := pick.Results()
		switch len(matches) {
		case 0:
			return fmt.Errorf("no customer matches %q", *query)
		case 1:
			pick.Select(0, &form)
			fmt.Printf("Matched customer #%d %s\n", form.CustomerID, form.CustomerName)
		default:
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE")
			for _, mt := range matches {
				fmt.Fprintf(w, "%d\t%s\t%s\n", mt.ID, mt.Name, mt.Phone)
			}
			_ = w.Flush()
			return fmt.Errorf("%d customers match %q, narrow the query", len(matches), *query)
		}
	}

	// Align the displayed month with the target date so the re-fetch covers it.
	t, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", *date)
	}
	for cal.Year() != t.Year() || cal.Month() != t.Month() {
		if cal.Year() > t.Year() || (cal.Year() == t.Year() && cal.Month() > t.Month()) {
			cal.PrevMonth()
		} else {
			cal.NextMonth()
		}
	}

	if err := cal.Create(ctx, *date, form); err != nil {
		return err
	}
	fmt.Printf("Booked %s at %s for %s\n", *date, form.Time, form.CustomerName)
	return nil
}

// UpdateAppointmentCommand saves edits to an existing appointment.
func UpdateAppointmentCommand(cal *calendar.Calendar, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.Int("id", 0, "Appointment ID (required)")
	date := fs.String("date", "", "Date (YYYY-MM-DD, required)")
	at := fs.String("time", "", "Time (HH:MM, required)")
	name := fs.String("name", "", "Customer name (required)")
	phone := fs.String("phone", "", "Customer phone")
	birthday := fs.String("birthday", "", "Customer birthday")
	service := fs.String("service", "", "Service")
	staff := fs.String("staff", "", "Staff member")
	customerID := fs.Int("customer-id", 0, "Linked customer ID")
	_ = fs.Parse(args)

	if *id == 0 || *date == "" {
		return fmt.Errorf("-id and -date are required")
	}

	appt := models.Appointment{
		ID:               *id,
		CustomerID:       *customerID,
		CustomerName:     *name,
		CustomerPhone:    *phone,
		CustomerBirthday: *birthday,
		Service:          *service,
		Staff:            *staff,
		Date:             *date,
		Time:             *at,
	}
	if err := cal.Update(context.Background(), appt); err != nil {
		return err
	}
	fmt.Printf("Updated appointment #%d\n", *id)
	return nil
}

// DeleteAppointmentCommand removes an appointment after confirmation.
func DeleteAppointmentCommand(cal *calendar.Calendar, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int("id", 0, "Appointment ID (required)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("-id is required")
	}
	if !*yes && !confirm(fmt.Sprintf("Delete appointment #%d?", *id)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := cal.Delete(context.Background(), *id); err != nil {
		return err
	}
	fmt.Printf("Deleted appointment #%d\n", *id)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
