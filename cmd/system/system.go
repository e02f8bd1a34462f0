package system

import (
	"context"

	"github.com/paularlott/cli"

	"github.com/martinsuchenak/advisorctl/internal/app"
	"github.com/martinsuchenak/advisorctl/internal/dashboard"
)

// Commands returns the system subcommands
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:        "list",
			Usage:       "List managed systems",
			Description: "List every managed system with its compute device count",
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				return list(ctx, a)
			},
		},
		{
			Name:        "show",
			Usage:       "Show one managed system",
			Description: "Show a system and its compute devices",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "id", Required: true},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				return show(ctx, a, cmd.GetStringArg("id"))
			},
		},
		{
			Name:        "watch",
			Usage:       "Watch one managed system",
			Description: "Redraw the system page every poll interval until interrupted",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "id", Required: true},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				a, err := app.FromContext(ctx)
				if err != nil {
					return err
				}
				defer a.Close()

				id := cmd.GetStringArg("id")
				return app.Watch(ctx, a, "system:"+id,
					func(ctx context.Context) (*dashboard.SystemDetail, error) {
						return dashboard.LoadSystemDetail(ctx, a.Client, id)
					},
					a.Printer.SystemDetail,
				)
			},
		},
	}
}

func list(ctx context.Context, a *app.App) error {
	systems, err := a.Client.ListSystems(ctx)
	if err != nil {
		return err
	}
	a.Println(a.Printer.Systems(systems))
	return nil
}

func show(ctx context.Context, a *app.App, id string) error {
	detail, err := dashboard.LoadSystemDetail(ctx, a.Client, id)
	if err != nil {
		return err
	}
	a.Println(a.Printer.SystemDetail(detail))
	return nil
}
