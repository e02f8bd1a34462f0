package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/paularlott/cli"
	"golang.org/x/term"

	"github.com/martinsuchenak/advisorctl/internal/app"
	"github.com/martinsuchenak/advisorctl/internal/log"
)

// Commands returns the session subcommands
func Commands() []*cli.Command {
	return []*cli.Command{
		setupCommand(),
		loginCommand(),
		logoutCommand(),
		statusCommand(),
	}
}

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:        "setup",
		Usage:       "Set the Advisor server address",
		Description: "Store the Advisor API address. A scheme is stripped; requests always use HTTPS.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "server",
				Aliases:  []string{"s"},
				Usage:    "Advisor server address (host or host:port)",
				EnvVars:  []string{"ADVISOR_SERVER"},
				Required: true,
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			return setup(a, cmd.GetString("server"))
		},
	}
}

func setup(a *app.App, server string) error {
	stored, err := a.Client.SetServerAddress(server)
	if err != nil {
		return err
	}
	log.Info("Server address saved", "address", stored)

	base, err := a.Client.BaseURL()
	if err != nil {
		return fmt.Errorf("server address saved but could not be read back: %w", err)
	}
	a.Println("Server set to " + base)
	return nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:        "login",
		Usage:       "Log in to the Advisor server",
		Description: "Exchange a username and password for a session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Username (defaults to the last one used)",
				EnvVars: []string{"ADVISOR_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (prompted when omitted)",
				EnvVars: []string{"ADVISOR_PASSWORD"},
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.Store.GetSession()
			if err != nil {
				return err
			}

			username := cmd.GetString("username")
			if username == "" {
				username, err = prompt("Username", session.Username)
				if err != nil {
					return err
				}
			}

			password := cmd.GetString("password")
			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			if err := a.Client.Login(ctx, username, password); err != nil {
				return err
			}

			a.Println("Logged in as " + username)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:        "logout",
		Usage:       "End the current session",
		Description: "Forget the server address and token. The username is kept for the next login.",
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Client.Logout(ctx); err != nil {
				return err
			}
			a.Println("Logged out")
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:        "status",
		Usage:       "Show the stored session",
		Description: "Print the configured server, username and token state",
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.Store.GetSession()
			if err != nil {
				return err
			}

			a.Println(describe(session.ServerAddress, session.Username, session.HasToken(), expiry(session.TokenExpiry())))
			return nil
		},
	}
}

func expiry(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	if time.Now().After(t) {
		return "expired " + t.Local().Format(time.RFC1123)
	}
	return "expires " + t.Local().Format(time.RFC1123)
}

func describe(server, username string, hasToken bool, expiry string) string {
	var b strings.Builder

	if server == "" {
		server = "(not configured)"
	}
	if username == "" {
		username = "(none)"
	}
	state := "not logged in"
	if hasToken {
		state = "logged in"
		if expiry != "" {
			state += ", token " + expiry
		}
	}

	fmt.Fprintf(&b, "Server:   %s\n", server)
	fmt.Fprintf(&b, "Username: %s\n", username)
	fmt.Fprintf(&b, "Session:  %s", state)
	return b.String()
}

func prompt(label, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(os.Stderr, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(os.Stderr, "%s: ", label)
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	return fallback, nil
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: pass --password or run in a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
