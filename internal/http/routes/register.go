package routes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/vesyncd/internal/http/handlers"
	"github.com/jmylchreest/vesyncd/internal/http/mw"
)

// Handlers bundles the handler implementations the API needs.
type Handlers struct {
	HealthCheck func(context.Context, *handlers.HealthInput) (*handlers.HealthOutput, error)
	Version     func(context.Context, *handlers.VersionInput) (*handlers.VersionOutput, error)
	Device      *handlers.DeviceHandler
	Timer       *handlers.TimerHandler
}

// Register registers all API routes with the given Huma API instance.
func Register(api huma.API, h *Handlers) {
	// --- Health ---
	mw.Get(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithDescription("Returns service health status."),
		mw.WithOperationID("healthCheck"))

	mw.HiddenGet(api, "/healthz", h.HealthCheck)

	// --- Version ---
	mw.Get(api, "/api/v1/version", h.Version,
		mw.WithTags("Version"),
		mw.WithSummary("Daemon version"),
		mw.WithOperationID("getVersion"))

	// --- Devices ---
	mw.Get(api, "/api/v1/devices", h.Device.ListDevices,
		mw.WithTags("Devices"),
		mw.WithSummary("List all devices"),
		mw.WithDescription("Returns all managed devices, optionally filtered by product type."),
		mw.WithOperationID("listDevices"))

	mw.Get(api, "/api/v1/devices/{cid}", h.Device.GetDevice,
		mw.WithTags("Devices"),
		mw.WithSummary("Get a device"),
		mw.WithOperationID("getDevice"))

	mw.Put(api, "/api/v1/devices/{cid}/state", h.Device.SetDeviceState,
		mw.WithTags("Devices"),
		mw.WithSummary("Set device state"),
		mw.WithDescription("Set one or more properties (on, brightness, color_temp, mode, level, target_humidity) on a device."),
		mw.WithOperationID("setDeviceState"))

	// --- Timers ---
	mw.Get(api, "/api/v1/devices/{cid}/timer", h.Timer.GetTimer,
		mw.WithTags("Timers"),
		mw.WithSummary("Get the device timer"),
		mw.WithDescription("Fetches the countdown timer from the cloud and returns the reconciled view; null when no timer is armed."),
		mw.WithOperationID("getTimer"))

	mw.Put(api, "/api/v1/devices/{cid}/timer", h.Timer.SetTimer,
		mw.WithTags("Timers"),
		mw.WithSummary("Arm a device timer"),
		mw.WithDescription("Arms a countdown timer that powers the device on or off when it expires."),
		mw.WithOperationID("setTimer"),
		mw.WithDefaultStatus(201))

	mw.Delete(api, "/api/v1/devices/{cid}/timer", h.Timer.ClearTimer,
		mw.WithTags("Timers"),
		mw.WithSummary("Clear the device timer"),
		mw.WithOperationID("clearTimer"))
}
