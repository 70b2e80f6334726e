// ABOUTME: Authentication CLI commands
// ABOUTME: login/logout/whoami against the clinic backend
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/phuongsen/dentdesk/auth"
	"github.com/phuongsen/dentdesk/models"
)

// LoginCommand signs in and persists the bearer token.
func LoginCommand(store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "WordPress username (prompted if omitted)")
	password := fs.String("password", "", "Password (prompted if omitted; prompt is preferred)")
	_ = fs.Parse(args)

	u := *username
	if u == "" {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		u = strings.TrimSpace(line)
	}
	if u == "" {
		return fmt.Errorf("username is required")
	}

	p := *password
	if p == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		p = string(raw)
	}

	if err := store.Login(context.Background(), u, p); err != nil {
		return err
	}

	me, _ := store.Current()
	fmt.Printf("Signed in as %s <%s> (roles: %s)\n", me.Name, me.Email, strings.Join(me.Roles, ", "))
	return nil
}

// LogoutCommand clears the stored credentials.
func LogoutCommand(store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	_ = fs.Parse(args)

	store.Logout()
	fmt.Println("Signed out")
	return nil
}

// WhoamiCommand prints the current identity and its permission map.
func WhoamiCommand(store *auth.Store, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	_ = fs.Parse(args)

	me, ok := store.Current()
	if !ok {
		fmt.Println("Not signed in")
		return nil
	}

	fmt.Printf("%s <%s>\n", me.Name, me.Email)
	fmt.Printf("Roles: %s\n\n", strings.Join(me.Roles, ", "))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERMISSION\tGRANTED")
	for _, p := range models.AllPermissions() {
		fmt.Fprintf(w, "%s\t%v\n", p, store.Can(p))
	}
	return w.Flush()
}
