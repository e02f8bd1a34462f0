package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/config"
	"github.com/martinsuchenak/advisorctl/internal/dashboard"
	"github.com/martinsuchenak/advisorctl/internal/log"
	"github.com/martinsuchenak/advisorctl/internal/storage"
)

// App bundles what every command needs
type App struct {
	Config  *config.Config
	Store   storage.Storage
	Client  *advisor.Client
	Printer *dashboard.Printer
	Out     io.Writer
}

// Open builds the App described by cfg
func Open(cfg *config.Config) (*App, error) {
	var store storage.Storage
	if cfg.Ephemeral {
		store = storage.NewMemoryStorage()
		log.Debug("Using in-memory session store")
	} else {
		ss, err := storage.NewSQLiteStorage(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		log.Debug("Session store opened", "path", ss.Path())
		store = ss
	}

	return New(cfg, store), nil
}

// New wires a client around an existing store
func New(cfg *config.Config, store storage.Storage, extra ...advisor.Option) *App {
	opts := []advisor.Option{
		advisor.WithTimeout(cfg.Timeout),
		advisor.WithLogoutHandler(func(reason error) {
			log.Warn("Session ended", "reason", reason)
		}),
	}
	if cfg.Insecure {
		opts = append(opts, advisor.WithInsecureTLS())
	}
	if cfg.StrictSession {
		opts = append(opts, advisor.WithStrictSession())
	}
	opts = append(opts, extra...)

	return &App{
		Config:  cfg,
		Store:   store,
		Client:  advisor.NewClient(store, opts...),
		Printer: dashboard.NewPrinter(dashboard.DefaultTheme),
		Out:     os.Stdout,
	}
}

// FromContext opens the App for the configuration carried by ctx
func FromContext(ctx context.Context) (*App, error) {
	return Open(config.FromContext(ctx))
}

// Close releases the session store
func (a *App) Close() error {
	return a.Store.Close()
}

// Print writes command output without a trailing newline
func (a *App) Print(args ...any) {
	fmt.Fprint(a.Out, args...)
}

// Println writes a line of command output
func (a *App) Println(args ...any) {
	fmt.Fprintln(a.Out, args...)
}

// Hint returns operator guidance for session-class errors, or "" for other errors
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, advisor.ErrNotConfigured):
		return "No Advisor server configured. Run: advisorctl session setup --server <address>"
	case errors.Is(err, advisor.ErrUnauthorized):
		return "Session expired. Run: advisorctl session setup --server <address> and then advisorctl session login"
	case errors.Is(err, advisor.ErrNotAuthenticated):
		return "Not logged in. Run: advisorctl session login"
	}
	return ""
}
