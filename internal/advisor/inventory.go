package advisor

import (
	"context"
	"fmt"
	"net/url"

	"github.com/martinsuchenak/advisorctl/internal/model"
)

const (
	systemsPath = "/systems"
	devicesPath = "/compute/devices"
	tasksPath   = "/tasks"
)

// DeviceSource selects how ListComputeDevices obtains devices. Both sources yield the same
// set in the same order.
type DeviceSource int

const (
	// SourceSystems flattens the computeDevices of every system
	SourceSystems DeviceSource = iota
	// SourceDirect reads the dedicated compute devices endpoint
	SourceDirect
)

// ParseDeviceSource maps the operator-facing name to a DeviceSource
func ParseDeviceSource(s string) (DeviceSource, error) {
	switch s {
	case "", "systems":
		return SourceSystems, nil
	case "direct":
		return SourceDirect, nil
	default:
		return SourceSystems, fmt.Errorf("invalid device source %q (expected systems or direct)", s)
	}
}

func (s DeviceSource) String() string {
	if s == SourceDirect {
		return "direct"
	}
	return "systems"
}

// ListSystems returns every managed system
func (c *Client) ListSystems(ctx context.Context) ([]model.ManagedSystem, error) {
	raw, err := c.Do(ctx, systemsPath, nil)
	if err != nil {
		return nil, err
	}
	systems, err := decodeList[model.ManagedSystem](raw)
	if err != nil {
		return nil, fmt.Errorf("listing systems: %w", err)
	}
	return systems, nil
}

// GetSystem returns one system by ID
func (c *Client) GetSystem(ctx context.Context, id string) (*model.ManagedSystem, error) {
	systems, err := c.ListSystems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range systems {
		if systems[i].ID == id {
			return &systems[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSystemNotFound, id)
}

// ListComputeDevices returns the union of every system's compute devices
func (c *Client) ListComputeDevices(ctx context.Context, source DeviceSource) ([]model.ComputeDevice, error) {
	if source == SourceDirect {
		raw, err := c.Do(ctx, devicesPath, nil)
		if err != nil {
			return nil, err
		}
		devices, err := decodeList[model.ComputeDevice](raw)
		if err != nil {
			return nil, fmt.Errorf("listing compute devices: %w", err)
		}
		return devices, nil
	}

	systems, err := c.ListSystems(ctx)
	if err != nil {
		return nil, err
	}
	return FlattenDevices(systems), nil
}

// GetComputeDevice returns one device by ID
func (c *Client) GetComputeDevice(ctx context.Context, id string, source DeviceSource) (*model.ComputeDevice, error) {
	devices, err := c.ListComputeDevices(ctx, source)
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].ID == id {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// FirmwareCompliance summarizes firmware compliance across all devices
func (c *Client) FirmwareCompliance(ctx context.Context) (model.FirmwareSummary, error) {
	devices, err := c.ListComputeDevices(ctx, SourceSystems)
	if err != nil {
		return model.FirmwareSummary{}, err
	}
	return SummarizeFirmware(devices), nil
}

// RecentAlerts derives alerts from the current device health fields
func (c *Client) RecentAlerts(ctx context.Context) ([]model.Alert, error) {
	devices, err := c.ListComputeDevices(ctx, SourceSystems)
	if err != nil {
		return nil, err
	}
	return DeriveAlerts(devices), nil
}

// ActiveTasks returns tasks that are not completed
func (c *Client) ActiveTasks(ctx context.Context) ([]model.Task, error) {
	raw, err := c.Do(ctx, tasksPath, nil)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeList[model.Task](raw)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return FilterActiveTasks(tasks), nil
}

func devicePowerPath(deviceID string) string {
	return devicesPath + "/" + url.PathEscape(deviceID) + "/powerState"
}
