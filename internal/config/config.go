package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paularlott/cli"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 30 * time.Second
)

// Config holds the console configuration
type Config struct {
	DataDir       string
	Timeout       time.Duration
	PollInterval  time.Duration
	Insecure      bool
	StrictSession bool
	Ephemeral     bool
}

type contextKey struct{}

// DefaultDataDir returns ~/.advisorctl, or ./.advisorctl when the home directory is unknown
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".advisorctl"
	}
	return filepath.Join(home, ".advisorctl")
}

// GetFlags returns the global flags that populate Config
func GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:         "data-dir",
			Usage:        "Directory holding the session database",
			DefaultValue: DefaultDataDir(),
			EnvVars:      []string{"ADVISOR_DATA_DIR"},
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "timeout",
			Usage:        "Request timeout (e.g. 30s, 1m)",
			DefaultValue: DefaultTimeout.String(),
			EnvVars:      []string{"ADVISOR_TIMEOUT"},
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "poll-interval",
			Usage:        "Refresh interval for watched views",
			DefaultValue: DefaultPollInterval.String(),
			EnvVars:      []string{"ADVISOR_POLL_INTERVAL"},
			Global:       true,
		},
		&cli.BoolFlag{
			Name:    "insecure",
			Usage:   "Skip TLS certificate verification",
			EnvVars: []string{"ADVISOR_INSECURE"},
			Global:  true,
		},
		&cli.BoolFlag{
			Name:    "strict-session",
			Usage:   "Refuse authenticated reads when no token is stored",
			EnvVars: []string{"ADVISOR_STRICT_SESSION"},
			Global:  true,
		},
		&cli.BoolFlag{
			Name:    "ephemeral",
			Usage:   "Keep the session in memory only",
			EnvVars: []string{"ADVISOR_EPHEMERAL"},
			Global:  true,
		},
	}
}

// Values is the subset of a parsed command Load reads from
type Values interface {
	GetString(name string) string
	GetBool(name string) bool
}

// Load builds the configuration from parsed flags
func Load(cmd Values) (*Config, error) {
	cfg := &Config{
		DataDir:       cmd.GetString("data-dir"),
		Insecure:      cmd.GetBool("insecure"),
		StrictSession: cmd.GetBool("strict-session"),
		Ephemeral:     cmd.GetBool("ephemeral"),
	}

	var err error
	if cfg.Timeout, err = parseDuration("timeout", cmd.GetString("timeout"), DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = parseDuration("poll-interval", cmd.GetString("poll-interval"), DefaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.PollInterval < time.Second {
		return nil, fmt.Errorf("poll-interval must be at least 1s, got %s", cfg.PollInterval)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}

	return cfg, nil
}

func parseDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, value)
	}
	return d, nil
}

// NewContext returns a context carrying cfg
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the configuration stored by NewContext, or defaults
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	return &Config{
		DataDir:      DefaultDataDir(),
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
	}
}
