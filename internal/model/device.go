package model

import "strings"

// PowerStatus is the power state reported for a compute device. Anything other than
// on or off is treated as unknown.
type PowerStatus string

const (
	PowerStatusOn      PowerStatus = "ON"
	PowerStatusOff     PowerStatus = "OFF"
	PowerStatusUnknown PowerStatus = "UNKNOWN"
)

// Normalize folds the backend value into one of the three known states
func (p PowerStatus) Normalize() PowerStatus {
	switch strings.ToUpper(strings.TrimSpace(string(p))) {
	case "ON":
		return PowerStatusOn
	case "OFF":
		return PowerStatusOff
	default:
		return PowerStatusUnknown
	}
}

// HealthStatus is one of the per-subsystem health values on a device
type HealthStatus string

const (
	HealthNormal   HealthStatus = "NORMAL"
	HealthWarning  HealthStatus = "WARNING"
	HealthCritical HealthStatus = "CRITICAL"
	HealthUnknown  HealthStatus = "UNKNOWN"
)

// IsNormal reports whether the status is the normal value (case-insensitive)
func (h HealthStatus) IsNormal() bool {
	return strings.EqualFold(string(h), string(HealthNormal))
}

// ComputeDevice is a compute node tracked under a managed system
type ComputeDevice struct {
	ID            string      `json:"id"`
	Model         string      `json:"model"`
	SerialNumber  string      `json:"serialNumber"`
	ResourceState string      `json:"resourceState"`
	PowerStatus   PowerStatus `json:"powerStatus"`
	Hostname      string      `json:"hostname,omitempty"`

	CPUs            int       `json:"cpus"`
	TotalMemoryInMb int       `json:"totalMemoryInMb"`
	GPUs            int       `json:"gpus"`
	GPUInfo         []GPUInfo `json:"gpuInfo"`

	DriveHealthStatus       HealthStatus `json:"driveHealthStatus"`
	FanHealthStatus         HealthStatus `json:"fanHealthStatus"`
	TemperatureHealthStatus HealthStatus `json:"temperatureHealthStatus"`
	PowerSupplyHealthStatus HealthStatus `json:"powerSupplyHealthStatus"`
	ProcessorHealthStatus   HealthStatus `json:"processorHealthStatus"`

	BIOSFirmwareVersion          string `json:"biosFirmwareVersion,omitempty"`
	BMCFirmwareVersion           string `json:"bmcFirmwareVersion,omitempty"`
	RecommendedFirmwareVersion   string `json:"recommendedFirmwareVersion,omitempty"`
	FirmwareAtRecommendedVersion bool   `json:"firmwareAtRecommendedVersion"`
}

// GPUInfo describes one accelerator installed in a compute device
type GPUInfo struct {
	Model          string `json:"model"`
	Vendor         string `json:"vendor"`
	MemorySizeInKB int64  `json:"memorySizeInKB"`
}

// DisplayName returns the best human label for the device
func (d *ComputeDevice) DisplayName() string {
	if d.Hostname != "" {
		return d.Hostname
	}
	if d.SerialNumber != "" {
		return d.SerialNumber
	}
	return d.ID
}
