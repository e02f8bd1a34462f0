package advisortest

import "github.com/martinsuchenak/advisorctl/internal/model"

// Device returns a healthy, powered-on compute device with compliant firmware
func Device(id string) model.ComputeDevice {
	return model.ComputeDevice{
		ID:                           id,
		Model:                        "PowerEdge R760",
		SerialNumber:                 "SN-" + id,
		ResourceState:                "MANAGED",
		PowerStatus:                  model.PowerStatusOn,
		Hostname:                     id + ".lab.example.com",
		CPUs:                         2,
		TotalMemoryInMb:              262144,
		DriveHealthStatus:            model.HealthNormal,
		FanHealthStatus:              model.HealthNormal,
		TemperatureHealthStatus:      model.HealthNormal,
		PowerSupplyHealthStatus:      model.HealthNormal,
		ProcessorHealthStatus:        model.HealthNormal,
		BIOSFirmwareVersion:          "2.1.5",
		BMCFirmwareVersion:           "7.00.30",
		FirmwareAtRecommendedVersion: true,
	}
}

// System returns a managed system holding the given devices
func System(id string, devices ...model.ComputeDevice) model.ManagedSystem {
	return model.ManagedSystem{
		ID:             id,
		Name:           "system-" + id,
		Model:          "Private Cloud Rack",
		SerialNumber:   "SYS-" + id,
		Region:         "eu-west",
		GatewayAddress: "10.0.0.1",
		ResourceState:  "MANAGED",
		Geo:            model.Geo{Latitude: 53.35, Longitude: -6.26, City: "Dublin", Country: "IE"},
		ComputeDevices: devices,
	}
}

// Fleet returns two systems with three devices. dev-2 is powered off with a critical fan
// and outdated firmware.
func Fleet() []model.ManagedSystem {
	bad := Device("dev-2")
	bad.PowerStatus = model.PowerStatusOff
	bad.FanHealthStatus = model.HealthCritical
	bad.FirmwareAtRecommendedVersion = false

	gpu := Device("dev-3")
	gpu.GPUs = 1
	gpu.GPUInfo = []model.GPUInfo{{Model: "H100", Vendor: "NVIDIA", MemorySizeInKB: 83886080}}

	return []model.ManagedSystem{
		System("sys-a", Device("dev-1"), bad),
		System("sys-b", gpu),
	}
}
