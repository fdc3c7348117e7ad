package vesync

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Purifier is an air purifier, optionally with an air quality sensor.
type Purifier struct {
	baseDevice

	fanLevel   int
	mode       string
	filterLife int // percent remaining
	airQuality int // index 1 (best) to 4, sensor models only
	pm25       int // ug/m3, sensor models only
}

// NewPurifier creates a Purifier from a device-list entry.
func NewPurifier(cfg DeviceConfig, spec DeviceSpec, client *Client, logger *slog.Logger) *Purifier {
	return &Purifier{baseDevice: newBaseDevice(cfg, spec, client, logger)}
}

// Update refreshes the purifier state from the cloud.
func (p *Purifier) Update(ctx context.Context) error {
	var result struct {
		Enabled         bool   `json:"enabled"`
		Level           int    `json:"level"`
		Mode            string `json:"mode"`
		FilterLife      int    `json:"filter_life"`
		AirQuality      int    `json:"air_quality"`
		AirQualityValue int    `json:"air_quality_value"`
	}
	err := p.client.BypassV2(ctx, p.cid, p.configModule, "getPurifierStatus", map[string]any{}, &result)
	if err != nil {
		return errors.LogErrorAndReturn(p.logger, err, "purifier: status fetch failed", "cid", p.cid)
	}

	p.mu.Lock()
	if result.Enabled {
		p.status = StatusOn
	} else {
		p.status = StatusOff
	}
	if result.Level > 0 {
		p.fanLevel = result.Level
	}
	if result.Mode != "" {
		p.mode = result.Mode
	}
	p.filterLife = result.FilterLife
	if p.spec.HasFeature(FeatureAirQuality) {
		p.airQuality = result.AirQuality
		p.pm25 = result.AirQualityValue
	}
	p.mu.Unlock()
	return nil
}

// FanLevel returns the fan level from the last Update.
func (p *Purifier) FanLevel() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fanLevel
}

// Mode returns the operating mode from the last Update.
func (p *Purifier) Mode() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// FilterLife returns the filter life percentage from the last Update.
func (p *Purifier) FilterLife() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filterLife
}

// AirQuality returns the air quality index (1 best, 4 worst) and PM2.5
// reading from the last Update. Zero values on models without a sensor.
func (p *Purifier) AirQuality() (index, pm25 int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.airQuality, p.pm25
}

// SetFanLevel sets the fan level. The level must be one the model supports.
func (p *Purifier) SetFanLevel(ctx context.Context, level int) error {
	valid := false
	for _, l := range p.spec.FanLevels {
		if l == level {
			valid = true
			break
		}
	}
	if !valid {
		return errors.InvalidInputf("purifier %s does not support fan level %d", p.cid, level)
	}

	err := p.client.BypassV2(ctx, p.cid, p.configModule, "setLevel", map[string]any{
		"id":    0,
		"level": level,
		"type":  "wind",
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(p.logger, err, "purifier: setLevel failed",
			"cid", p.cid, "level", level)
	}

	p.mu.Lock()
	p.fanLevel = level
	p.mode = ModeManual
	p.mu.Unlock()
	return nil
}

// SetMode sets the operating mode (manual, auto, sleep depending on model).
func (p *Purifier) SetMode(ctx context.Context, mode string) error {
	if !p.spec.HasMode(mode) {
		return errors.InvalidInputf("purifier %s does not support mode %q", p.cid, mode)
	}

	err := p.client.BypassV2(ctx, p.cid, p.configModule, "setPurifierMode", map[string]any{
		"mode": mode,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(p.logger, err, "purifier: setMode failed",
			"cid", p.cid, "mode", mode)
	}

	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()
	return nil
}

// Display returns a flattened view including purifier state.
func (p *Purifier) Display() map[string]any {
	out := p.display()
	p.mu.RLock()
	out["fan_level"] = p.fanLevel
	out["mode"] = p.mode
	out["filter_life"] = p.filterLife
	if p.spec.HasFeature(FeatureAirQuality) {
		out["air_quality"] = p.airQuality
		out["pm25"] = p.pm25
	}
	p.mu.RUnlock()
	return out
}
