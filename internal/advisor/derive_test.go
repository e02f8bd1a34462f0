package advisor

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/martinsuchenak/advisorctl/internal/model"
)

var healthValues = []model.HealthStatus{
	model.HealthNormal, "normal", model.HealthWarning, model.HealthCritical, model.HealthUnknown,
}

func genDevice(id string) *rapid.Generator[model.ComputeDevice] {
	return rapid.Custom(func(t *rapid.T) model.ComputeDevice {
		return model.ComputeDevice{
			ID:                           id,
			SerialNumber:                 rapid.StringMatching(`[A-Z0-9]{6}`).Draw(t, "serial"),
			DriveHealthStatus:            rapid.SampledFrom(healthValues).Draw(t, "drive"),
			FanHealthStatus:              rapid.SampledFrom(healthValues).Draw(t, "fan"),
			TemperatureHealthStatus:      rapid.SampledFrom(healthValues).Draw(t, "temperature"),
			PowerSupplyHealthStatus:      rapid.SampledFrom(healthValues).Draw(t, "psu"),
			ProcessorHealthStatus:        rapid.SampledFrom(healthValues).Draw(t, "processor"),
			FirmwareAtRecommendedVersion: rapid.Bool().Draw(t, "firmware"),
		}
	})
}

func genFleet(t *rapid.T) []model.ManagedSystem {
	counts := rapid.SliceOfN(rapid.IntRange(0, 6), 0, 8).Draw(t, "counts")
	systems := make([]model.ManagedSystem, len(counts))
	for i, n := range counts {
		systems[i].ID = fmt.Sprintf("sys-%d", i)
		for j := 0; j < n; j++ {
			d := genDevice(fmt.Sprintf("sys-%d/dev-%d", i, j)).Draw(t, "device")
			systems[i].ComputeDevices = append(systems[i].ComputeDevices, d)
		}
	}
	return systems
}

func TestFlattenDevices_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		systems := genFleet(t)

		devices := FlattenDevices(systems)

		want := 0
		for _, s := range systems {
			want += len(s.ComputeDevices)
		}
		if len(devices) != want {
			t.Fatalf("Expected %d devices, got %d", want, len(devices))
		}

		k := 0
		for _, s := range systems {
			for _, d := range s.ComputeDevices {
				if devices[k].ID != d.ID {
					t.Fatalf("Expected device %s at position %d, got %s", d.ID, k, devices[k].ID)
				}
				k++
			}
		}
	})
}

func TestSummarizeFirmware_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		devices := FlattenDevices(genFleet(t))

		compliant := 0
		for _, d := range devices {
			if d.FirmwareAtRecommendedVersion {
				compliant++
			}
		}

		summary := SummarizeFirmware(devices)
		if summary.Total != len(devices) || summary.Compliant != compliant {
			t.Fatalf("Expected total %d compliant %d, got %+v", len(devices), compliant, summary)
		}
		if summary.NonCompliant != summary.Total-summary.Compliant || summary.NonCompliant < 0 {
			t.Fatalf("Inconsistent non-compliant count: %+v", summary)
		}
	})
}

func TestDeriveAlerts_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		devices := FlattenDevices(genFleet(t))

		want := 0
		for i := range devices {
			for _, f := range healthFields {
				if !f.value(&devices[i]).IsNormal() {
					want++
				}
			}
		}

		alerts := DeriveAlerts(devices)
		if len(alerts) != want {
			t.Fatalf("Expected %d alerts, got %d", want, len(alerts))
		}
		for _, a := range alerts {
			if a.Status.IsNormal() {
				t.Fatalf("Alert raised for normal status: %+v", a)
			}
			if !strings.HasSuffix(a.Message, ": "+string(a.Status)) {
				t.Fatalf("Unexpected alert message %q", a.Message)
			}
		}
	})
}

func TestDeriveAlerts_SingleCriticalFan(t *testing.T) {
	device := model.ComputeDevice{
		ID:                      "dev-1",
		DriveHealthStatus:       model.HealthNormal,
		FanHealthStatus:         "CRITICAL",
		TemperatureHealthStatus: model.HealthNormal,
		PowerSupplyHealthStatus: model.HealthNormal,
		ProcessorHealthStatus:   model.HealthNormal,
	}

	alerts := DeriveAlerts([]model.ComputeDevice{device})
	if len(alerts) != 1 {
		t.Fatalf("Expected exactly one alert, got %d", len(alerts))
	}
	if !strings.HasPrefix(alerts[0].Message, "Fan Health Status") {
		t.Errorf("Expected message to start with 'Fan Health Status', got %q", alerts[0].Message)
	}
	if alerts[0].DeviceID != "dev-1" || alerts[0].Field != "fanHealthStatus" {
		t.Errorf("Unexpected alert: %+v", alerts[0])
	}
}

func TestDeriveAlerts_SkipsUnreportedFields(t *testing.T) {
	tests := []struct {
		name   string
		device model.ComputeDevice
		want   []string
	}{
		{"all empty", model.ComputeDevice{ID: "dev-1"}, nil},
		{"whitespace only", model.ComputeDevice{ID: "dev-1", FanHealthStatus: "  ", DriveHealthStatus: "\t"}, nil},
		{
			"empty next to reported",
			model.ComputeDevice{ID: "dev-1", FanHealthStatus: "", DriveHealthStatus: model.HealthWarning, ProcessorHealthStatus: model.HealthNormal},
			[]string{"driveHealthStatus"},
		},
		{"unknown is reported", model.ComputeDevice{ID: "dev-1", TemperatureHealthStatus: model.HealthUnknown}, []string{"temperatureHealthStatus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := DeriveAlerts([]model.ComputeDevice{tt.device})
			if len(alerts) != len(tt.want) {
				t.Fatalf("Expected %d alerts, got %+v", len(tt.want), alerts)
			}
			for i, field := range tt.want {
				if alerts[i].Field != field {
					t.Errorf("Expected alert on %s, got %s", field, alerts[i].Field)
				}
			}
		})
	}
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"powerSupplyHealthStatus", "Power Supply Health Status"},
		{"fanHealthStatus", "Fan Health Status"},
		{"temperatureHealthStatus", "Temperature Health Status"},
		{"drive", "Drive"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := FieldLabel(tt.field); got != tt.want {
				t.Errorf("FieldLabel(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestFilterActiveTasks_Property(t *testing.T) {
	statuses := []string{"Completed", "completed", "COMPLETED", "Running", "Failed", "Queued", " completed "}
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		tasks := make([]model.Task, n)
		want := 0
		for i := range tasks {
			tasks[i] = model.Task{ID: fmt.Sprint(i), Status: rapid.SampledFrom(statuses).Draw(t, "status")}
			if !strings.EqualFold(strings.TrimSpace(tasks[i].Status), "completed") {
				want++
			}
		}

		active := FilterActiveTasks(tasks)
		if len(active) != want {
			t.Fatalf("Expected %d active tasks, got %d", want, len(active))
		}
		for _, task := range active {
			if task.IsCompleted() {
				t.Fatalf("Completed task %s was not filtered", task.ID)
			}
		}
	})
}

func TestMapMarkers(t *testing.T) {
	systems := []model.ManagedSystem{
		{ID: "a", Name: "Dublin", Geo: model.Geo{Latitude: 53.35, Longitude: -6.26}, ComputeDevices: make([]model.ComputeDevice, 3)},
		{ID: "b", Name: "Nowhere"},
	}

	markers := MapMarkers(systems)
	if len(markers) != 1 {
		t.Fatalf("Expected 1 marker, got %d", len(markers))
	}
	if markers[0].SystemID != "a" || markers[0].Devices != 3 {
		t.Errorf("Unexpected marker: %+v", markers[0])
	}
}
