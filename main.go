package main

import (
	"context"
	"fmt"
	"os"

	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"

	"github.com/martinsuchenak/advisorctl/cmd/dashboard"
	"github.com/martinsuchenak/advisorctl/cmd/device"
	"github.com/martinsuchenak/advisorctl/cmd/session"
	"github.com/martinsuchenak/advisorctl/cmd/system"
	"github.com/martinsuchenak/advisorctl/internal/app"
	"github.com/martinsuchenak/advisorctl/internal/config"
	"github.com/martinsuchenak/advisorctl/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "console")

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:         "log-level",
			Usage:        "Log level (trace, debug, info, warn, error)",
			DefaultValue: "info",
			EnvVars:      []string{"ADVISOR_LOG_LEVEL"},
			Global:       true,
		},
		&cli.StringFlag{
			Name:         "log-format",
			Usage:        "Log format (console, json)",
			DefaultValue: "console",
			EnvVars:      []string{"ADVISOR_LOG_FORMAT"},
			Global:       true,
		},
	}

	rootCmd := &cli.Command{
		Name:        "advisorctl",
		Version:     fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Usage:       "Console for the Advisor infrastructure API",
		Description: "Inspect managed systems, compute devices, firmware compliance and tasks on an Advisor server",
		Flags:       append(flags, config.GetFlags()...),
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.Configure(cmd.GetString("log-level"), cmd.GetString("log-format"))

			cfg, err := config.Load(cmd)
			if err != nil {
				return ctx, err
			}
			log.Debug("Configuration loaded", "data_dir", cfg.DataDir, "timeout", cfg.Timeout, "poll_interval", cfg.PollInterval)
			return config.NewContext(ctx, cfg), nil
		},
		Commands: []*cli.Command{
			{
				Name:        "session",
				Usage:       "Session commands",
				Description: "Configure the server and manage the login session",
				Commands:    session.Commands(),
			},
			{
				Name:        "system",
				Usage:       "Managed system commands",
				Description: "Inspect managed systems",
				Commands:    system.Commands(),
			},
			{
				Name:        "device",
				Usage:       "Compute device commands",
				Description: "Inspect compute devices and control their power",
				Commands:    device.Commands(),
			},
			{
				Name:        "dashboard",
				Usage:       "Dashboard views",
				Description: "Overview, firmware compliance, alerts and tasks",
				Commands:    dashboard.Commands(),
			},
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		log.Error("Command execution failed", "error", err)
		if hint := app.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}
