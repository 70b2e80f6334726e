// ABOUTME: Entry point for the dentdesk clinic client
// ABOUTME: Routes to auth, customer, appointment, and TUI commands
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/auth"
	"github.com/phuongsen/dentdesk/cache"
	"github.com/phuongsen/dentdesk/calendar"
	"github.com/phuongsen/dentdesk/cli"
	"github.com/phuongsen/dentdesk/directory"
	"github.com/phuongsen/dentdesk/picker"
	"github.com/phuongsen/dentdesk/tui"
)

const version = "0.2.0"

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine; real deployments use plain env vars.
		log.Printf("no .env file loaded: %v", err)
	}

	showVersion := flag.Bool("version", false, "Show version and exit")
	baseURL := flag.String("base", "", "Backend base URL (default: CLINIC_API_BASE or production)")
	cachePath := flag.String("cache-path", "", "Cache database path (default: ~/.local/share/dentdesk/cache.db)")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("dentdesk version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	base := *baseURL
	if base == "" {
		base = os.Getenv("CLINIC_API_BASE")
	}

	client := api.NewClient(base, auth.FileTokenSource{})
	store := auth.NewStore(client)

	ctx := context.Background()
	now := time.Now()

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "login":
		if err := cli.LoginCommand(store, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "logout":
		if err := cli.LogoutCommand(store, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "whoami":
		store.Initialize(ctx)
		if err := cli.WhoamiCommand(store, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "customers":
		if len(commandArgs) == 0 {
			fmt.Println("Error: customers requires a subcommand")
			printUsage()
			os.Exit(1)
		}
		store.Initialize(ctx)
		dir := directory.New(client)
		cacheDB := openCache(getCachePath(*cachePath))
		defer closeCache(cacheDB)

		sub, subArgs := commandArgs[0], commandArgs[1:]
		var err error
		switch sub {
		case "list":
			err = cli.ListCustomersCommand(dir, cacheDB, subArgs)
		case "add":
			err = cli.AddCustomerCommand(client, store, subArgs)
		case "show":
			err = cli.ShowCustomerCommand(client, subArgs)
		case "update":
			err = cli.UpdateCustomerCommand(client, store, subArgs)
		case "delete":
			err = cli.DeleteCustomerCommand(dir, store, subArgs)
		case "add-treatment":
			err = cli.AddTreatmentCommand(client, store, subArgs)
		case "update-treatment":
			err = cli.UpdateTreatmentCommand(client, store, subArgs)
		case "delete-treatment":
			err = cli.DeleteTreatmentCommand(client, store, subArgs)
		default:
			fmt.Printf("Unknown customers subcommand: %s\n", sub)
			printUsage()
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "appt":
		if len(commandArgs) == 0 {
			fmt.Println("Error: appt requires a subcommand")
			printUsage()
			os.Exit(1)
		}
		store.Initialize(ctx)
		cal := calendar.New(client, store.Can, now.Year(), now.Month())
		pick := picker.New(client)
		cacheDB := openCache(getCachePath(*cachePath))
		defer closeCache(cacheDB)

		sub, subArgs := commandArgs[0], commandArgs[1:]
		var err error
		switch sub {
		case "list":
			err = cli.ListAppointmentsCommand(cal, cacheDB, subArgs)
		case "create":
			err = cli.CreateAppointmentCommand(cal, pick, subArgs)
		case "update":
			err = cli.UpdateAppointmentCommand(cal, subArgs)
		case "delete":
			err = cli.DeleteAppointmentCommand(cal, subArgs)
		default:
			fmt.Printf("Unknown appt subcommand: %s\n", sub)
			printUsage()
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "tui":
		store.Initialize(ctx)
		if err := tui.Run(client, store); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getCachePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv("DENTDESK_DB_PATH"); env != "" {
		return env
	}
	return cache.DefaultPath()
}

// openCache opens the local read cache. The cache is an optional comfort, so
// failures degrade to online-only operation instead of aborting.
func openCache(path string) *sql.DB {
	db, err := cache.Open(path)
	if err != nil {
		log.Printf("warning: cache unavailable: %v", err)
		return nil
	}
	return db
}

func closeCache(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func printUsage() {
	fmt.Println(`dentdesk - clinic staff client

Usage:
  dentdesk [flags] <command>

Commands:
  login                     Sign in and store the bearer token
  logout                    Clear stored credentials
  whoami                    Show the current identity and permissions
  tui                       Full-screen terminal interface

  customers list            List/filter the customer directory
  customers add             Create a customer (uploads the portrait)
  customers show            Show one customer with treatments
  customers update          Edit a customer's base fields
  customers delete          Delete a customer
  customers add-treatment   Record a treatment
  customers update-treatment
  customers delete-treatment

  appt list                 Show a month of appointments
  appt create               Book an appointment
  appt update               Edit an appointment
  appt delete               Cancel an appointment

Flags:
  -version                  Show version
  -base <url>               Backend base URL
  -cache-path <path>        Cache database path

Run 'dentdesk <command> <subcommand> -h' for subcommand flags.`)
}
