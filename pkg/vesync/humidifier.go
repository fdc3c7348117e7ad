package vesync

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Humidifier is a cool- or warm-mist humidifier.
type Humidifier struct {
	baseDevice

	mistLevel      int
	mode           string
	humidity       int // current room humidity percent
	targetHumidity int
	waterLacks     bool
}

// NewHumidifier creates a Humidifier from a device-list entry.
func NewHumidifier(cfg DeviceConfig, spec DeviceSpec, client *Client, logger *slog.Logger) *Humidifier {
	return &Humidifier{baseDevice: newBaseDevice(cfg, spec, client, logger)}
}

// Update refreshes the humidifier state from the cloud.
func (h *Humidifier) Update(ctx context.Context) error {
	var result struct {
		Enabled       bool   `json:"enabled"`
		MistLevel     int    `json:"mist_virtual_level"`
		Mode          string `json:"mode"`
		Humidity      int    `json:"humidity"`
		WaterLacks    bool   `json:"water_lacks"`
		Configuration struct {
			AutoTargetHumidity int `json:"auto_target_humidity"`
		} `json:"configuration"`
	}
	err := h.client.BypassV2(ctx, h.cid, h.configModule, "getHumidifierStatus", map[string]any{}, &result)
	if err != nil {
		return errors.LogErrorAndReturn(h.logger, err, "humidifier: status fetch failed", "cid", h.cid)
	}

	h.mu.Lock()
	if result.Enabled {
		h.status = StatusOn
	} else {
		h.status = StatusOff
	}
	if result.MistLevel > 0 {
		h.mistLevel = result.MistLevel
	}
	if result.Mode != "" {
		h.mode = result.Mode
	}
	h.humidity = result.Humidity
	h.waterLacks = result.WaterLacks
	if result.Configuration.AutoTargetHumidity > 0 {
		h.targetHumidity = result.Configuration.AutoTargetHumidity
	}
	h.mu.Unlock()

	if result.WaterLacks {
		h.logger.Warn("humidifier: water tank empty", "cid", h.cid, "name", h.name)
	}
	return nil
}

// MistLevel returns the mist output level from the last Update.
func (h *Humidifier) MistLevel() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mistLevel
}

// Mode returns the operating mode from the last Update.
func (h *Humidifier) Mode() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mode
}

// Humidity returns the measured room humidity from the last Update.
func (h *Humidifier) Humidity() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.humidity
}

// TargetHumidity returns the auto-mode target from the last Update.
func (h *Humidifier) TargetHumidity() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.targetHumidity
}

// WaterLacks reports whether the tank was empty at the last Update.
func (h *Humidifier) WaterLacks() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.waterLacks
}

// SetMistLevel sets the mist output level. The level must be one the model
// supports.
func (h *Humidifier) SetMistLevel(ctx context.Context, level int) error {
	valid := false
	for _, l := range h.spec.MistLevels {
		if l == level {
			valid = true
			break
		}
	}
	if !valid {
		return errors.InvalidInputf("humidifier %s does not support mist level %d", h.cid, level)
	}

	err := h.client.BypassV2(ctx, h.cid, h.configModule, "setVirtualLevel", map[string]any{
		"id":    0,
		"level": level,
		"type":  "mist",
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(h.logger, err, "humidifier: setVirtualLevel failed",
			"cid", h.cid, "level", level)
	}

	h.mu.Lock()
	h.mistLevel = level
	h.mode = ModeManual
	h.mu.Unlock()
	return nil
}

// SetTargetHumidity sets the auto-mode humidity target (30-80 percent).
func (h *Humidifier) SetTargetHumidity(ctx context.Context, target int) error {
	if target < 30 || target > 80 {
		return errors.InvalidInputf("target humidity %d out of range 30-80", target)
	}

	err := h.client.BypassV2(ctx, h.cid, h.configModule, "setTargetHumidity", map[string]any{
		"target_humidity": target,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(h.logger, err, "humidifier: setTargetHumidity failed",
			"cid", h.cid, "target", target)
	}

	h.mu.Lock()
	h.targetHumidity = target
	h.mu.Unlock()
	return nil
}

// SetMode sets the operating mode (auto, manual, sleep depending on model).
func (h *Humidifier) SetMode(ctx context.Context, mode string) error {
	if !h.spec.HasMode(mode) {
		return errors.InvalidInputf("humidifier %s does not support mode %q", h.cid, mode)
	}

	err := h.client.BypassV2(ctx, h.cid, h.configModule, "setHumidityMode", map[string]any{
		"mode": mode,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(h.logger, err, "humidifier: setMode failed",
			"cid", h.cid, "mode", mode)
	}

	h.mu.Lock()
	h.mode = mode
	h.mu.Unlock()
	return nil
}

// Display returns a flattened view including humidifier state.
func (h *Humidifier) Display() map[string]any {
	out := h.display()
	h.mu.RLock()
	out["mist_level"] = h.mistLevel
	out["mode"] = h.mode
	out["humidity"] = h.humidity
	out["target_humidity"] = h.targetHumidity
	out["water_lacks"] = h.waterLacks
	h.mu.RUnlock()
	return out
}
