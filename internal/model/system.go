package model

import "encoding/json"

// ManagedSystem is a top-level infrastructure unit reported by the Advisor API
type ManagedSystem struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Model                string            `json:"model"`
	SerialNumber         string            `json:"serialNumber"`
	Region               string            `json:"region"`
	GatewayAddress       string            `json:"gatewayAddress"`
	ResourceState        string            `json:"resourceState"`
	Geo                  Geo               `json:"geo"`
	ComputeDevices       []ComputeDevice   `json:"computeDevices"`
	StorageDevices       []json.RawMessage `json:"storageDevices"`
	EthernetSwitches     []json.RawMessage `json:"ethernetSwitches"`
	FibreChannelSwitches []json.RawMessage `json:"fibreChannelSwitches"`
}

// Geo is the physical placement of a system, used for map markers
type Geo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// HasLocation reports whether the system carries usable coordinates
func (g Geo) HasLocation() bool {
	return g.Latitude != 0 || g.Longitude != 0
}

// MapMarker is a system placed on the world map
type MapMarker struct {
	SystemID  string  `json:"system_id"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Devices   int     `json:"devices"`
}
