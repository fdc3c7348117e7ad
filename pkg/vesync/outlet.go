package vesync

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Outlet is a smart plug, optionally with energy monitoring.
type Outlet struct {
	baseDevice

	power   float64 // current draw in watts
	voltage float64
	energy  float64 // kWh today
}

// NewOutlet creates an Outlet from a device-list entry.
func NewOutlet(cfg DeviceConfig, spec DeviceSpec, client *Client, logger *slog.Logger) *Outlet {
	return &Outlet{baseDevice: newBaseDevice(cfg, spec, client, logger)}
}

// Update refreshes the outlet's power state and, when supported, its energy
// readings.
func (o *Outlet) Update(ctx context.Context) error {
	var result struct {
		Enabled bool    `json:"enabled"`
		Power   float64 `json:"power"`
		Voltage float64 `json:"voltage"`
		Energy  float64 `json:"energy"`
	}
	err := o.client.BypassV2(ctx, o.cid, o.configModule, "getOutletStatus", map[string]any{}, &result)
	if err != nil {
		return errors.LogErrorAndReturn(o.logger, err, "outlet: status fetch failed", "cid", o.cid)
	}

	o.mu.Lock()
	if result.Enabled {
		o.status = StatusOn
	} else {
		o.status = StatusOff
	}
	o.power = result.Power
	o.voltage = result.Voltage
	o.energy = result.Energy
	o.mu.Unlock()
	return nil
}

// Power returns the current draw in watts from the last Update.
func (o *Outlet) Power() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.power
}

// Voltage returns the line voltage from the last Update.
func (o *Outlet) Voltage() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.voltage
}

// EnergyToday returns today's consumption in kWh from the last Update.
func (o *Outlet) EnergyToday() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.energy
}

// Display returns a flattened view including energy readings.
func (o *Outlet) Display() map[string]any {
	out := o.display()
	if o.spec.HasFeature(FeatureEnergy) {
		o.mu.RLock()
		out["power"] = o.power
		out["voltage"] = o.voltage
		out["energy_today"] = o.energy
		o.mu.RUnlock()
	}
	return out
}
