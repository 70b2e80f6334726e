// ABOUTME: Customer CLI commands
// ABOUTME: Listing, creation, editing, and treatment management
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/auth"
	"github.com/phuongsen/dentdesk/avatar"
	"github.com/phuongsen/dentdesk/cache"
	"github.com/phuongsen/dentdesk/directory"
	"github.com/phuongsen/dentdesk/models"
)

// ListCustomersCommand prints the filtered directory. When the backend is
// unreachable and a cache is available, the last-known listing is shown
// instead, clearly marked.
func ListCustomersCommand(dir *directory.Directory, cacheDB *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	text := fs.String("q", "", "Match name or phone substring")
	service := fs.String("service", "", "Require a service tag")
	from := fs.String("from", "", "Earliest treatment date (YYYY-MM-DD)")
	to := fs.String("to", "", "Latest treatment date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	filter := directory.Filter{Text: *text, Service: *service, From: *from, To: *to}

	entries, err := dir.Load(context.Background(), filter)
	if err != nil {
		if cacheDB == nil {
			return err
		}
		cached, cacheErr := cache.LoadCustomers(cacheDB)
		if cacheErr != nil || cached == nil {
			return err
		}
		log.Printf("backend unreachable, showing cached data: %v", err)
		entries = directory.Refine(cached, filter)
	} else if cacheDB != nil {
		// Refresh the cache with the authoritative listing, unfiltered fields
		// included. Failures are non-fatal; the fetch already succeeded.
		raw := make([]models.Customer, len(entries))
		for i, e := range entries {
			raw[i] = e.Customer
		}
		if err := cache.ReplaceCustomers(cacheDB, raw); err != nil {
			log.Printf("warning: failed to refresh cache: %v", err)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tSERVICES\tLAST VISIT\tNAS")
	for _, e := range entries {
		last := e.LatestDate
		if last == "" {
			last = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.Phone, strings.Join(e.Services, " • "), last, e.NASLink)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d customer(s)\n", len(entries))
	return nil
}

// AddCustomerCommand creates a customer with an initial treatment dated
// today. All fields are required, matching the intake form.
func AddCustomerCommand(client *api.Client, store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Customer name (required)")
	phone := fs.String("phone", "", "Phone number (required)")
	service := fs.String("service", "", "Initial service (required, see catalog)")
	image := fs.String("image", "", "Path to a JPEG portrait to upload (required unless -avatar-url)")
	avatarURL := fs.String("avatar-url", "", "Already-uploaded avatar URL")
	nas := fs.String("nas", "", "NAS folder link (required)")
	_ = fs.Parse(args)

	if !store.Can(models.PermCustomerAdd) {
		return &api.PermissionError{Perm: models.PermCustomerAdd}
	}

	if *name == "" || *phone == "" || *service == "" || *nas == "" {
		return fmt.Errorf("-name, -phone, -service and -nas are all required")
	}

	url := *avatarURL
	if url == "" {
		if *image == "" {
			return fmt.Errorf("either -image or -avatar-url is required")
		}
		uploader, err := avatar.NewUploader()
		if err != nil {
			return err
		}
		url, err = uploader.UploadFile(*image)
		if err != nil {
			return err
		}
		log.Printf("avatar uploaded: %s", url)
	}

	payload := api.NewCustomer{
		Name:    *name,
		Phone:   *phone,
		Avatar:  url,
		NASLink: *nas,
		Treatments: []models.Treatment{{
			Service: *service,
			Date:    time.Now().Format("2006-01-02"),
		}},
	}
	if err := client.CreateCustomer(context.Background(), payload); err != nil {
		return err
	}
	fmt.Printf("Created customer %s\n", *name)
	return nil
}

// ShowCustomerCommand prints one customer with its treatment history.
func ShowCustomerCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Int("id", 0, "Customer ID (required)")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	c, err := client.GetCustomer(context.Background(), *id)
	if err != nil {
		return err
	}

	fmt.Printf("#%d %s\n", c.ID, c.Name)
	fmt.Printf("Phone: %s\n", c.Phone)
	fmt.Printf("NAS:   %s\n", c.NASLink)
	if c.Avatar != "" {
		fmt.Printf("Photo: %s\n", c.Avatar)
	}

	if len(c.Treatments) == 0 {
		fmt.Println("\nNo treatments on record")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nTREATMENT\tSERVICE\tDATE\tNOTE")
	for _, t := range c.Treatments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Service, t.Date, t.Note)
	}
	return w.Flush()
}

// UpdateCustomerCommand edits the base fields of a customer.
func UpdateCustomerCommand(client *api.Client, store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.Int("id", 0, "Customer ID (required)")
	name := fs.String("name", "", "New name")
	phone := fs.String("phone", "", "New phone")
	nas := fs.String("nas", "", "New NAS link")
	image := fs.String("image", "", "Path to a replacement JPEG portrait")
	_ = fs.Parse(args)

	if !store.Can(models.PermCustomerAdd) {
		return &api.PermissionError{Perm: models.PermCustomerAdd}
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	ctx := context.Background()

	// Start from the server copy so untouched fields survive the PUT.
	current, err := client.GetCustomer(ctx, *id)
	if err != nil {
		return err
	}

	payload := api.CustomerUpdate{
		Name:    current.Name,
		Phone:   current.Phone,
		Avatar:  current.Avatar,
		NASLink: current.NASLink,
	}
	if *name != "" {
		payload.Name = *name
	}
	if *phone != "" {
		payload.Phone = *phone
	}
	if *nas != "" {
		payload.NASLink = *nas
	}
	if *image != "" {
		uploader, err := avatar.NewUploader()
		if err != nil {
			return err
		}
		url, err := uploader.UploadFile(*image)
		if err != nil {
			return err
		}
		payload.Avatar = url
	}
	if payload.Name == "" || payload.Phone == "" {
		return fmt.Errorf("name and phone cannot be empty")
	}

	if err := client.UpdateCustomer(ctx, *id, payload); err != nil {
		return err
	}
	fmt.Printf("Updated customer #%d\n", *id)
	return nil
}

// DeleteCustomerCommand removes a customer after confirmation.
func DeleteCustomerCommand(dir *directory.Directory, store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int("id", 0, "Customer ID (required)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	if !store.Can(models.PermCustomerAdd) {
		return &api.PermissionError{Perm: models.PermCustomerAdd}
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}
	if !*yes && !confirm(fmt.Sprintf("Delete customer #%d?", *id)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := dir.Delete(context.Background(), *id); err != nil {
		return err
	}
	fmt.Printf("Deleted customer #%d\n", *id)
	return nil
}

// AddTreatmentCommand records a new treatment for a customer.
func AddTreatmentCommand(client *api.Client, store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("add-treatment", flag.ExitOnError)
	customerID := fs.Int("customer", 0, "Customer ID (required)")
	service := fs.String("service", "", "Service performed (required)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Treatment date (YYYY-MM-DD)")
	note := fs.String("note", "", "Optional note")
	_ = fs.Parse(args)

	if !store.Can(models.PermCustomerAdd) {
		return &api.PermissionError{Perm: models.PermCustomerAdd}
	}
	if *customerID == 0 || *service == "" {
		return fmt.Errorf("-customer and -service are required")
	}

	t := models.Treatment{Service: *service, Date: *date, Note: *note}
	if err := client.CreateTreatment(context.Background(), *customerID, t); err != nil {
		return err
	}
	fmt.Println("Treatment recorded")
	return nil
}

// UpdateTreatmentCommand edits an existing treatment.
func UpdateTreatmentCommand(client *api.Client, store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("update-treatment", flag.ExitOnError)
	customerID := fs.Int("customer", 0, "Customer ID (required)")
	id := fs.Int("id", 0, "Treatment ID (required)")
	service := fs.String("service", "", "Service performed (required)")
	date := fs.String("date", "", "Treatment date (YYYY-MM-DD, required)")
	note := fs.String("note", "", "Note")
	_ = fs.Parse(args)

	if !store.Can(models.PermCustomerAdd) {
		return &api.PermissionError{Perm: models.PermCustomerAdd}
	}
	if *customerID == 0 || *id == 0 || *service == "" || *date == "" {
		return fmt.Errorf("-customer, -id, -service and -date are required")
	}

	t := models.Treatment{ID: *id, Service: *service, Date: *date, Note: *note}
	if err := client.UpdateTreatment(context.Background(), *customerID, t); err != nil {
		return err
	}
	fmt.Println("Treatment updated")
	return nil
}

// DeleteTreatmentCommand removes a treatment after confirmation.
func DeleteTreatmentCommand(client *api.Client, store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("delete-treatment", flag.ExitOnError)
	customerID := fs.Int("customer", 0, "Customer ID (required)")
	id := fs.Int("id", 0, "Treatment ID (required)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	if !store.Can(models.PermCustomerAdd) {
		return &api.PermissionError{Perm: models.PermCustomerAdd}
	}
	if *customerID == 0 || *id == 0 {
		return fmt.Errorf("-customer and -id are required")
	}
	if !*yes && !confirm(fmt.Sprintf("Delete treatment #%d?", *id)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := client.DeleteTreatment(context.Background(), *customerID, *id); err != nil {
		return err
	}
	fmt.Println("Treatment deleted")
	return nil
}
