package dashboard

import (
	"context"
	"time"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/model"
	"github.com/martinsuchenak/advisorctl/internal/worker"
)

// Reader is the part of the Advisor client the views read from
type Reader interface {
	ListSystems(ctx context.Context) ([]model.ManagedSystem, error)
	GetSystem(ctx context.Context, id string) (*model.ManagedSystem, error)
	ListComputeDevices(ctx context.Context, source advisor.DeviceSource) ([]model.ComputeDevice, error)
	FirmwareCompliance(ctx context.Context) (model.FirmwareSummary, error)
	RecentAlerts(ctx context.Context) ([]model.Alert, error)
	ActiveTasks(ctx context.Context) ([]model.Task, error)
}

// Overview is the home dashboard snapshot
type Overview struct {
	Systems  []model.ManagedSystem
	Devices  []model.ComputeDevice
	Firmware model.FirmwareSummary
	Tasks    []model.Task
	Alerts   []model.Alert
	Markers  []model.MapMarker
	LoadedAt time.Time
}

// SystemDetail is the snapshot behind the system page
type SystemDetail struct {
	System   model.ManagedSystem
	Devices  []model.ComputeDevice
	LoadedAt time.Time
}

// LoadOverview issues the five overview reads concurrently. The snapshot is returned only
// after every read settles; if any read failed the whole snapshot fails with that error.
func LoadOverview(ctx context.Context, r Reader) (*Overview, error) {
	var o Overview

	errs := worker.Gather(ctx, 0,
		worker.Job{ID: "systems", Handler: func(ctx context.Context) (err error) {
			o.Systems, err = r.ListSystems(ctx)
			return err
		}},
		worker.Job{ID: "devices", Handler: func(ctx context.Context) (err error) {
			o.Devices, err = r.ListComputeDevices(ctx, advisor.SourceSystems)
			return err
		}},
		worker.Job{ID: "firmware", Handler: func(ctx context.Context) (err error) {
			o.Firmware, err = r.FirmwareCompliance(ctx)
			return err
		}},
		worker.Job{ID: "tasks", Handler: func(ctx context.Context) (err error) {
			o.Tasks, err = r.ActiveTasks(ctx)
			return err
		}},
		worker.Job{ID: "alerts", Handler: func(ctx context.Context) (err error) {
			o.Alerts, err = r.RecentAlerts(ctx)
			return err
		}},
	)
	if err := worker.FirstError(errs); err != nil {
		return nil, err
	}

	o.Markers = advisor.MapMarkers(o.Systems)
	o.LoadedAt = time.Now()
	return &o, nil
}

// LoadSystemDetail reads one system with its compute devices
func LoadSystemDetail(ctx context.Context, r Reader, id string) (*SystemDetail, error) {
	system, err := r.GetSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SystemDetail{
		System:   *system,
		Devices:  system.ComputeDevices,
		LoadedAt: time.Now(),
	}, nil
}
