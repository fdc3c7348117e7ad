package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/vesyncd/internal/events"
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

// TimerHandler implements device timer endpoints.
type TimerHandler struct {
	Manager *vesync.Manager
	Bus     *events.Bus
}

func (h *TimerHandler) publish(dev vesync.Device) {
	if h.Bus != nil {
		h.Bus.Publish(events.NewEvent(events.TimerUpdated, dev.Display()))
	}
}

// --- Get timer ---

// GetTimerInput is the input for reading a device timer.
type GetTimerInput struct {
	CID string `path:"cid" doc:"Cloud device identifier"`
}

// GetTimerOutput is the output for reading a device timer.
type GetTimerOutput struct {
	Body struct {
		Timer *TimerResponse `json:"timer" doc:"The device timer, null when none is armed"`
	}
}

// GetTimer fetches the device's countdown timer from the cloud and returns
// the reconciled local view.
func (h *TimerHandler) GetTimer(ctx context.Context, input *GetTimerInput) (*GetTimerOutput, error) {
	dev, err := h.Manager.GetDevice(input.CID)
	if err != nil {
		return nil, huma.Error404NotFound("device not found: "+input.CID, err)
	}

	timer, err := dev.FetchTimer(ctx)
	if err != nil {
		return nil, classifyDeviceError(err)
	}

	out := &GetTimerOutput{}
	if timer != nil {
		view := TimerFromVesync(timer)
		out.Body.Timer = &view
	}
	return out, nil
}

// --- Set timer ---

// SetTimerInput is the input for arming a device timer.
type SetTimerInput struct {
	CID  string `path:"cid" doc:"Cloud device identifier"`
	Body struct {
		Duration int64  `json:"duration" minimum:"1" doc:"Countdown duration in seconds"`
		Action   string `json:"action,omitempty" enum:"on,off" doc:"Action on expiry, defaults to off"`
	}
}

// SetTimerOutput is the output for arming a device timer.
type SetTimerOutput struct {
	Body struct {
		Timer TimerResponse `json:"timer"`
	}
}

// SetTimer arms a countdown timer on the device.
func (h *TimerHandler) SetTimer(ctx context.Context, input *SetTimerInput) (*SetTimerOutput, error) {
	dev, err := h.Manager.GetDevice(input.CID)
	if err != nil {
		return nil, huma.Error404NotFound("device not found: "+input.CID, err)
	}

	timer, err := dev.SetTimer(ctx, input.Body.Duration, input.Body.Action)
	if err != nil {
		return nil, classifyDeviceError(err)
	}
	h.publish(dev)

	out := &SetTimerOutput{}
	out.Body.Timer = TimerFromVesync(timer)
	return out, nil
}

// --- Clear timer ---

// ClearTimerInput is the input for removing a device timer.
type ClearTimerInput struct {
	CID string `path:"cid" doc:"Cloud device identifier"`
}

// ClearTimerOutput is the output for removing a device timer.
type ClearTimerOutput struct {
	Body StatusResponse
}

// ClearTimer deletes the device's countdown timer.
func (h *TimerHandler) ClearTimer(ctx context.Context, input *ClearTimerInput) (*ClearTimerOutput, error) {
	dev, err := h.Manager.GetDevice(input.CID)
	if err != nil {
		return nil, huma.Error404NotFound("device not found: "+input.CID, err)
	}

	if err := dev.ClearTimer(ctx); err != nil {
		return nil, classifyDeviceError(err)
	}
	h.publish(dev)

	out := &ClearTimerOutput{}
	out.Body.Status = "ok"
	return out, nil
}
