package device

import (
	"context"
	"fmt"

	"github.com/paularlott/cli"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/app"
	"github.com/martinsuchenak/advisorctl/internal/log"
	"github.com/martinsuchenak/advisorctl/internal/model"
)

// Commands returns the compute device subcommands
func Commands() []*cli.Command {
	return []*cli.Command{
		listCommand(),
		showCommand(),
		powerCommand(),
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:         "source",
		Usage:        "Where devices are read from: systems or direct",
		DefaultValue: advisor.SourceSystems.String(),
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List compute devices",
		Description: "List compute devices across all managed systems",
		Flags:       []cli.Flag{sourceFlag()},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			source, err := advisor.ParseDeviceSource(cmd.GetString("source"))
			if err != nil {
				return err
			}

			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			devices, err := a.Client.ListComputeDevices(ctx, source)
			if err != nil {
				return err
			}
			a.Println(a.Printer.Devices(devices))
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show one compute device",
		Description: "Show hardware, firmware and health details for a compute device",
		Flags:       []cli.Flag{sourceFlag()},
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id", Required: true},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			source, err := advisor.ParseDeviceSource(cmd.GetString("source"))
			if err != nil {
				return err
			}

			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			device, err := a.Client.GetComputeDevice(ctx, cmd.GetStringArg("id"), source)
			if err != nil {
				return err
			}
			a.Println(a.Printer.Device(device))
			return nil
		},
	}
}

func powerCommand() *cli.Command {
	return &cli.Command{
		Name:        "power",
		Usage:       "Change a device power state",
		Description: "Send a power command (on, off or cycle) and show the power state the server reports afterwards",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id", Required: true},
			&cli.StringArg{Name: "action", Required: true},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			action, err := model.ParsePowerAction(cmd.GetStringArg("action"))
			if err != nil {
				return err
			}

			a, err := app.FromContext(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			return setPower(ctx, a, cmd.GetStringArg("id"), action)
		},
	}
}

// setPower sends the command, then re-reads the device so the reported state comes from
// the server rather than being assumed.
func setPower(ctx context.Context, a *app.App, id string, action model.PowerAction) error {
	if err := a.Client.SetPowerState(ctx, id, action); err != nil {
		return err
	}
	log.Info("Power command accepted", "device_id", id, "action", action)

	device, err := a.Client.GetComputeDevice(ctx, id, advisor.SourceDirect)
	if err != nil {
		return fmt.Errorf("power command sent but re-reading the device failed: %w", err)
	}

	a.Println(fmt.Sprintf("%s: %s requested, now %s", device.DisplayName(), action, a.Printer.PowerBadge(device.PowerStatus)))
	return nil
}
