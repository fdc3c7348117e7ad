package vesync

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Switch is an in-wall switch, optionally with a dimmer.
type Switch struct {
	baseDevice

	brightness int // 1-100, dimmer models only
}

// NewSwitch creates a Switch from a device-list entry.
func NewSwitch(cfg DeviceConfig, spec DeviceSpec, client *Client, logger *slog.Logger) *Switch {
	return &Switch{baseDevice: newBaseDevice(cfg, spec, client, logger)}
}

// Dimmable reports whether the switch supports brightness control.
func (s *Switch) Dimmable() bool {
	return s.spec.HasFeature(FeatureDimmable)
}

// Update refreshes the switch state from the cloud.
func (s *Switch) Update(ctx context.Context) error {
	var result struct {
		Enabled    bool `json:"enabled"`
		Brightness int  `json:"brightness"`
	}
	err := s.client.BypassV2(ctx, s.cid, s.configModule, "getSwitchStatus", map[string]any{}, &result)
	if err != nil {
		return errors.LogErrorAndReturn(s.logger, err, "switch: status fetch failed", "cid", s.cid)
	}

	s.mu.Lock()
	if result.Enabled {
		s.status = StatusOn
	} else {
		s.status = StatusOff
	}
	if result.Brightness > 0 {
		s.brightness = result.Brightness
	}
	s.mu.Unlock()
	return nil
}

// Brightness returns the dimmer level from the last Update.
func (s *Switch) Brightness() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brightness
}

// SetBrightness sets the dimmer level (1-100). Values are clamped to range.
func (s *Switch) SetBrightness(ctx context.Context, brightness int) error {
	if !s.Dimmable() {
		return errors.InvalidInputf("switch %s has no dimmer", s.cid)
	}
	if brightness < 1 {
		brightness = 1
	} else if brightness > 100 {
		brightness = 100
	}

	err := s.client.BypassV2(ctx, s.cid, s.configModule, "setBrightness", map[string]any{
		"brightness": brightness,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(s.logger, err, "switch: setBrightness failed",
			"cid", s.cid, "brightness", brightness)
	}

	s.mu.Lock()
	s.brightness = brightness
	s.mu.Unlock()
	return nil
}

// Display returns a flattened view including dimmer state.
func (s *Switch) Display() map[string]any {
	out := s.display()
	if s.Dimmable() {
		s.mu.RLock()
		out["brightness"] = s.brightness
		s.mu.RUnlock()
	}
	return out
}
