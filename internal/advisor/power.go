package advisor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/martinsuchenak/advisorctl/internal/log"
	"github.com/martinsuchenak/advisorctl/internal/model"
)

// SetPowerState sends a power action for one device. No device state is returned; the
// effect is observed on the next refresh. A second command for a device whose previous
// command has not returned yet is rejected with ErrPowerCommandInFlight.
func (c *Client) SetPowerState(ctx context.Context, deviceID string, action model.PowerAction) error {
	cmd := model.PowerCommand{DeviceID: deviceID, Action: action}
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("invalid power command: %w", err)
	}

	if !c.acquirePower(deviceID) {
		return fmt.Errorf("%w: %s", ErrPowerCommandInFlight, deviceID)
	}
	defer c.releasePower(deviceID)

	log.Info("Sending power command", "device_id", deviceID, "action", action)

	_, err := c.Do(ctx, devicePowerPath(deviceID), &RequestOptions{
		Method: http.MethodPost,
		Body:   cmd,
	})
	if err != nil {
		log.Warn("Power command failed", "device_id", deviceID, "action", action, "error", err)
		return err
	}
	return nil
}

func (c *Client) acquirePower(deviceID string) bool {
	c.powerMu.Lock()
	defer c.powerMu.Unlock()
	if _, busy := c.powerInFlight[deviceID]; busy {
		return false
	}
	c.powerInFlight[deviceID] = struct{}{}
	return true
}

func (c *Client) releasePower(deviceID string) {
	c.powerMu.Lock()
	defer c.powerMu.Unlock()
	delete(c.powerInFlight, deviceID)
}
