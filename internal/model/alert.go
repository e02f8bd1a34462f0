package model

// Alert is derived from a device health field that is not normal. It is recomputed on
// every refresh and never stored.
type Alert struct {
	DeviceID     string       `json:"device_id"`
	DeviceSerial string       `json:"device_serial,omitempty"`
	DeviceName   string       `json:"device_name"`
	Field        string       `json:"field"`
	Status       HealthStatus `json:"status"`
	Message      string       `json:"message"`
}

// FirmwareSummary counts devices by firmware compliance
type FirmwareSummary struct {
	Total        int `json:"total"`
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"non_compliant"`
}

// CompliancePercent returns the compliant share in the range 0-100
func (f FirmwareSummary) CompliancePercent() float64 {
	if f.Total == 0 {
		return 0
	}
	return float64(f.Compliant) * 100 / float64(f.Total)
}
