package advisor

import (
	"strings"
	"unicode"

	"github.com/martinsuchenak/advisorctl/internal/model"
)

// healthField pairs a device health field with its display label
type healthField struct {
	name  string
	label string
	value func(*model.ComputeDevice) model.HealthStatus
}

var healthFields = []healthField{
	{"driveHealthStatus", FieldLabel("driveHealthStatus"), func(d *model.ComputeDevice) model.HealthStatus { return d.DriveHealthStatus }},
	{"fanHealthStatus", FieldLabel("fanHealthStatus"), func(d *model.ComputeDevice) model.HealthStatus { return d.FanHealthStatus }},
	{"temperatureHealthStatus", FieldLabel("temperatureHealthStatus"), func(d *model.ComputeDevice) model.HealthStatus { return d.TemperatureHealthStatus }},
	{"powerSupplyHealthStatus", FieldLabel("powerSupplyHealthStatus"), func(d *model.ComputeDevice) model.HealthStatus { return d.PowerSupplyHealthStatus }},
	{"processorHealthStatus", FieldLabel("processorHealthStatus"), func(d *model.ComputeDevice) model.HealthStatus { return d.ProcessorHealthStatus }},
}

// FieldLabel renders a camelCase field name as words: a space goes before each internal
// capital and the first letter is upper-cased ("powerSupplyHealthStatus" becomes
// "Power Supply Health Status").
func FieldLabel(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FlattenDevices returns every compute device in system order, then device order within
// each system. Duplicates are kept.
func FlattenDevices(systems []model.ManagedSystem) []model.ComputeDevice {
	total := 0
	for i := range systems {
		total += len(systems[i].ComputeDevices)
	}
	devices := make([]model.ComputeDevice, 0, total)
	for i := range systems {
		devices = append(devices, systems[i].ComputeDevices...)
	}
	return devices
}

// SummarizeFirmware counts devices whose firmware is at the recommended version
func SummarizeFirmware(devices []model.ComputeDevice) model.FirmwareSummary {
	summary := model.FirmwareSummary{Total: len(devices)}
	for i := range devices {
		if devices[i].FirmwareAtRecommendedVersion {
			summary.Compliant++
		}
	}
	summary.NonCompliant = summary.Total - summary.Compliant
	return summary
}

// DeriveAlerts produces one alert per health field that is reported and not normal
func DeriveAlerts(devices []model.ComputeDevice) []model.Alert {
	alerts := make([]model.Alert, 0)
	for i := range devices {
		d := &devices[i]
		for _, f := range healthFields {
			status := f.value(d)
			if strings.TrimSpace(string(status)) == "" || status.IsNormal() {
				continue
			}
			alerts = append(alerts, model.Alert{
				DeviceID:     d.ID,
				DeviceSerial: d.SerialNumber,
				DeviceName:   d.DisplayName(),
				Field:        f.name,
				Status:       status,
				Message:      f.label + ": " + string(status),
			})
		}
	}
	return alerts
}

// FilterActiveTasks drops tasks whose status is "completed" in any case
func FilterActiveTasks(tasks []model.Task) []model.Task {
	active := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() {
			continue
		}
		active = append(active, t)
	}
	return active
}

// MapMarkers places each system with coordinates on the map
func MapMarkers(systems []model.ManagedSystem) []model.MapMarker {
	markers := make([]model.MapMarker, 0, len(systems))
	for i := range systems {
		s := &systems[i]
		if !s.Geo.HasLocation() {
			continue
		}
		markers = append(markers, model.MapMarker{
			SystemID:  s.ID,
			Name:      s.Name,
			Region:    s.Region,
			Latitude:  s.Geo.Latitude,
			Longitude: s.Geo.Longitude,
			Devices:   len(s.ComputeDevices),
		})
	}
	return markers
}
