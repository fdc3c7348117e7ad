package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/vesyncd/internal/errors"
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

// DeviceHandler implements device endpoints.
type DeviceHandler struct {
	Manager *vesync.Manager
}

// --- List devices ---

// ListDevicesInput is the input for listing devices.
type ListDevicesInput struct {
	Type string `query:"type" doc:"Filter by product type (outlet, switch, bulb, fan, humidifier, purifier)" required:"false"`
}

// ListDevicesOutput is the output for listing devices.
type ListDevicesOutput struct {
	Body struct {
		Devices []DeviceResponse `json:"devices" doc:"All managed devices"`
	}
}

// ListDevices returns every managed device, optionally filtered by type.
func (h *DeviceHandler) ListDevices(_ context.Context, input *ListDevicesInput) (*ListDevicesOutput, error) {
	var devices []vesync.Device
	if input.Type != "" {
		devices = h.Manager.DevicesByType(vesync.ProductType(input.Type))
	} else {
		devices = h.Manager.Devices()
	}

	out := &ListDevicesOutput{}
	out.Body.Devices = DevicesFromVesync(devices)
	return out, nil
}

// --- Get device ---

// GetDeviceInput is the input for getting a single device.
type GetDeviceInput struct {
	CID string `path:"cid" doc:"Cloud device identifier"`
}

// GetDeviceOutput is the output for getting a single device.
type GetDeviceOutput struct {
	Body struct {
		Device DeviceResponse `json:"device"`
	}
}

// GetDevice returns a single device by cid.
func (h *DeviceHandler) GetDevice(_ context.Context, input *GetDeviceInput) (*GetDeviceOutput, error) {
	dev, err := h.Manager.GetDevice(input.CID)
	if err != nil {
		return nil, huma.Error404NotFound("device not found: "+input.CID, err)
	}

	out := &GetDeviceOutput{}
	out.Body.Device = DeviceFromVesync(dev)
	return out, nil
}

// --- Set device state ---

// SetDeviceStateInput is the input for changing device state. All fields are
// optional; at least one must be set.
type SetDeviceStateInput struct {
	CID  string `path:"cid" doc:"Cloud device identifier"`
	Body struct {
		On             *bool   `json:"on,omitempty" doc:"Power the device on or off"`
		Brightness     *int    `json:"brightness,omitempty" doc:"Brightness 1-100 (switches, bulbs)"`
		ColorTemp      *int    `json:"color_temp,omitempty" doc:"White temperature percent 0-100 (bulbs)"`
		Mode           *string `json:"mode,omitempty" doc:"Operating mode (fans, humidifiers, purifiers)"`
		Level          *int    `json:"level,omitempty" doc:"Fan or mist level (fans, humidifiers, purifiers)"`
		TargetHumidity *int    `json:"target_humidity,omitempty" doc:"Auto-mode humidity target 30-80 (humidifiers)"`
	}
}

// SetDeviceStateOutput is the output for changing device state.
type SetDeviceStateOutput struct {
	Body struct {
		Status string         `json:"status"`
		Device DeviceResponse `json:"device"`
	}
}

// SetDeviceState applies one or more state changes to a device.
func (h *DeviceHandler) SetDeviceState(ctx context.Context, input *SetDeviceStateInput) (*SetDeviceStateOutput, error) {
	dev, err := h.Manager.GetDevice(input.CID)
	if err != nil {
		return nil, huma.Error404NotFound("device not found: "+input.CID, err)
	}

	b := input.Body
	if b.On == nil && b.Brightness == nil && b.ColorTemp == nil && b.Mode == nil && b.Level == nil && b.TargetHumidity == nil {
		return nil, huma.Error422UnprocessableEntity("no state property given")
	}

	if b.On != nil {
		if *b.On {
			err = dev.TurnOn(ctx)
		} else {
			err = dev.TurnOff(ctx)
		}
		if err != nil {
			return nil, classifyDeviceError(err)
		}
	}
	if b.Brightness != nil {
		switch d := dev.(type) {
		case *vesync.Switch:
			err = d.SetBrightness(ctx, *b.Brightness)
		case *vesync.Bulb:
			err = d.SetBrightness(ctx, *b.Brightness)
		default:
			err = errors.InvalidInputf("device %s does not support brightness", dev.CID())
		}
		if err != nil {
			return nil, classifyDeviceError(err)
		}
	}
	if b.ColorTemp != nil {
		bulb, ok := dev.(*vesync.Bulb)
		if !ok {
			return nil, huma.Error422UnprocessableEntity("device does not support color temperature")
		}
		if err := bulb.SetColorTemp(ctx, *b.ColorTemp); err != nil {
			return nil, classifyDeviceError(err)
		}
	}
	if b.Mode != nil {
		switch d := dev.(type) {
		case *vesync.Fan:
			err = d.SetMode(ctx, *b.Mode)
		case *vesync.Humidifier:
			err = d.SetMode(ctx, *b.Mode)
		case *vesync.Purifier:
			err = d.SetMode(ctx, *b.Mode)
		default:
			err = errors.InvalidInputf("device %s does not support modes", dev.CID())
		}
		if err != nil {
			return nil, classifyDeviceError(err)
		}
	}
	if b.Level != nil {
		switch d := dev.(type) {
		case *vesync.Fan:
			err = d.SetSpeed(ctx, *b.Level)
		case *vesync.Humidifier:
			err = d.SetMistLevel(ctx, *b.Level)
		case *vesync.Purifier:
			err = d.SetFanLevel(ctx, *b.Level)
		default:
			err = errors.InvalidInputf("device %s does not support levels", dev.CID())
		}
		if err != nil {
			return nil, classifyDeviceError(err)
		}
	}
	if b.TargetHumidity != nil {
		hum, ok := dev.(*vesync.Humidifier)
		if !ok {
			return nil, huma.Error422UnprocessableEntity("device does not support target humidity")
		}
		if err := hum.SetTargetHumidity(ctx, *b.TargetHumidity); err != nil {
			return nil, classifyDeviceError(err)
		}
	}

	out := &SetDeviceStateOutput{}
	out.Body.Status = "ok"
	out.Body.Device = DeviceFromVesync(dev)
	return out, nil
}

// classifyDeviceError maps sentinel categories onto HTTP status errors.
func classifyDeviceError(err error) error {
	switch {
	case errors.IsInvalidInput(err):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errors.IsDeviceOffline(err), errors.IsDeviceUnavailable(err):
		return huma.Error503ServiceUnavailable(err.Error())
	case errors.IsRateLimit(err):
		return huma.Error429TooManyRequests(err.Error())
	case errors.IsAuthentication(err):
		return huma.Error502BadGateway("cloud session expired", err)
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
