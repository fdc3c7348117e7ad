// Package handlers provides typed Huma request/response structs and handler
// implementations for the vesyncd HTTP API.
package handlers

import (
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

// --- Device types ---

// DeviceResponse is the API representation of a managed device.
type DeviceResponse struct {
	CID         string         `json:"cid" doc:"Cloud device identifier"`
	UUID        string         `json:"uuid" doc:"Cloud device UUID"`
	Name        string         `json:"name" doc:"Display name of the device"`
	Model       string         `json:"model" doc:"Cloud model string"`
	ProductType string         `json:"product_type" doc:"Appliance kind (outlet, switch, bulb, fan, humidifier, purifier)"`
	On          bool           `json:"on" doc:"Whether the device is currently on"`
	Online      bool           `json:"online" doc:"Whether the cloud reports the device connected"`
	State       map[string]any `json:"state" doc:"Full type-specific state snapshot"`
}

// DeviceFromVesync converts a vesync.Device to a DeviceResponse.
func DeviceFromVesync(dev vesync.Device) DeviceResponse {
	return DeviceResponse{
		CID:         dev.CID(),
		UUID:        dev.UUID(),
		Name:        dev.Name(),
		Model:       dev.Model(),
		ProductType: string(dev.ProductType()),
		On:          dev.IsOn(),
		Online:      dev.Online(),
		State:       dev.Display(),
	}
}

// DevicesFromVesync converts a slice of devices to DeviceResponses.
func DevicesFromVesync(devices []vesync.Device) []DeviceResponse {
	result := make([]DeviceResponse, len(devices))
	for i, dev := range devices {
		result[i] = DeviceFromVesync(dev)
	}
	return result
}

// --- Timer types ---

// TimerResponse is the API representation of a device countdown timer.
type TimerResponse struct {
	ID        int    `json:"id" doc:"Cloud timer identifier"`
	Duration  int64  `json:"duration" doc:"Armed duration in seconds"`
	Action    string `json:"action" doc:"Action taken on expiry (on/off)"`
	Remaining int64  `json:"remaining" doc:"Seconds left on the countdown"`
	Status    string `json:"status" doc:"Timer status (active, paused, done)"`
}

// TimerFromVesync converts a vesync.TimerInfo snapshot to a TimerResponse.
func TimerFromVesync(t *vesync.TimerInfo) TimerResponse {
	return TimerResponse{
		ID:        t.ID,
		Duration:  t.Duration,
		Action:    t.Action,
		Remaining: t.Remaining,
		Status:    string(t.Status),
	}
}

// --- Common response types ---

// StatusResponse is a simple status response.
type StatusResponse struct {
	Status string `json:"status" doc:"Operation status"`
}
