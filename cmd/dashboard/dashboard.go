package dashboard

import (
	"context"

	"github.com/paularlott/cli"

	"github.com/martinsuchenak/advisorctl/internal/app"
	views "github.com/martinsuchenak/advisorctl/internal/dashboard"
)

// Commands returns the dashboard subcommands
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:        "overview",
			Usage:       "Show the fleet overview",
			Description: "Summary cards, alerts, active tasks and system locations",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "watch",
					Aliases: []string{"w"},
					Usage:   "Keep refreshing every poll interval",
				},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				if cmd.GetBool("watch") {
					load := func(ctx context.Context) (*views.Overview, error) {
						return views.LoadOverview(ctx, a.Client)
					}
					return app.Watch(ctx, a, "overview", load, a.Printer.Overview)
				}

				return printOverview(ctx, a)
			},
		},
		{
			Name:        "compliance",
			Usage:       "Show firmware compliance",
			Description: "Count compute devices at and below the recommended firmware version",
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				return printCompliance(ctx, a)
			},
		},
		{
			Name:        "alerts",
			Usage:       "Show device health alerts",
			Description: "List every non-normal health field across all compute devices",
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				return printAlerts(ctx, a)
			},
		},
		{
			Name:        "tasks",
			Usage:       "Show active tasks",
			Description: "List server tasks that have not completed",
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				return printTasks(ctx, a)
			},
		},
	}
}

func printCompliance(ctx context.Context, a *app.App) error {
	summary, err := a.Client.FirmwareCompliance(ctx)
	if err != nil {
		return err
	}
	a.Println(a.Printer.Firmware(summary))
	return nil
}

func printAlerts(ctx context.Context, a *app.App) error {
	alerts, err := a.Client.RecentAlerts(ctx)
	if err != nil {
		return err
	}
	a.Println(a.Printer.Alerts(alerts))
	return nil
}

func printTasks(ctx context.Context, a *app.App) error {
	tasks, err := a.Client.ActiveTasks(ctx)
	if err != nil {
		return err
	}
	a.Println(a.Printer.Tasks(tasks))
	return nil
}

func printOverview(ctx context.Context, a *app.App) error {
	overview, err := views.LoadOverview(ctx, a.Client)
	if err != nil {
		return err
	}
	a.Println(a.Printer.Overview(overview))
	return nil
}
