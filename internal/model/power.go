package model

import (
	"fmt"
	"strings"
)

// PowerAction is a power-state change accepted by the Advisor API
type PowerAction string

const (
	PowerOn    PowerAction = "ON"
	PowerOff   PowerAction = "OFF"
	PowerCycle PowerAction = "CYCLE"
)

// ParsePowerAction accepts on, off or cycle in any case
func ParsePowerAction(s string) (PowerAction, error) {
	switch a := PowerAction(strings.ToUpper(strings.TrimSpace(s))); a {
	case PowerOn, PowerOff, PowerCycle:
		return a, nil
	default:
		return "", fmt.Errorf("invalid power action %q (expected on, off or cycle)", s)
	}
}

// PowerCommand is a single fire-and-forget power request for one device
type PowerCommand struct {
	DeviceID string      `json:"-" validate:"required"`
	Action   PowerAction `json:"action" validate:"required,oneof=ON OFF CYCLE"`
}
