package vesync

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Bulb is a smart bulb. Feature flags on the spec determine whether it
// supports dimming, white color temperature, full RGB color, or all three.
type Bulb struct {
	baseDevice

	brightness int // 1-100
	colorTemp  int // percent of the white temperature range, 0-100
	color      *Color
	colorMode  string // "white" or "color"
}

// NewBulb creates a Bulb from a device-list entry.
func NewBulb(cfg DeviceConfig, spec DeviceSpec, client *Client, logger *slog.Logger) *Bulb {
	return &Bulb{baseDevice: newBaseDevice(cfg, spec, client, logger)}
}

// Update refreshes the bulb state from the cloud.
func (b *Bulb) Update(ctx context.Context) error {
	var result struct {
		Enabled    bool   `json:"enabled"`
		Brightness int    `json:"brightness"`
		ColorTemp  int    `json:"colorTempe"`
		ColorMode  string `json:"colorMode"`
		Hue        int    `json:"hue"`
		Saturation int    `json:"saturation"`
		Value      int    `json:"value"`
	}
	err := b.client.BypassV2(ctx, b.cid, b.configModule, "getLightStatus", map[string]any{}, &result)
	if err != nil {
		return errors.LogErrorAndReturn(b.logger, err, "bulb: status fetch failed", "cid", b.cid)
	}

	b.mu.Lock()
	if result.Enabled {
		b.status = StatusOn
	} else {
		b.status = StatusOff
	}
	if result.Brightness > 0 {
		b.brightness = result.Brightness
	}
	b.colorTemp = result.ColorTemp
	if result.ColorMode != "" {
		b.colorMode = result.ColorMode
	}
	// The cloud reports hue scaled by 27.77 (10000/360); normalize back.
	if result.ColorMode == "color" {
		if c, cerr := ColorFromHSV(float64(result.Hue)/27.77, float64(result.Saturation)/100, float64(result.Value)); cerr == nil {
			b.color = &c
		}
	}
	b.mu.Unlock()
	return nil
}

// Brightness returns the dim level from the last Update.
func (b *Bulb) Brightness() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.brightness
}

// SetBrightness sets the dim level (1-100). Values are clamped to range.
func (b *Bulb) SetBrightness(ctx context.Context, brightness int) error {
	if !b.spec.HasFeature(FeatureDimmable) {
		return errors.InvalidInputf("bulb %s is not dimmable", b.cid)
	}
	if brightness < 1 {
		brightness = 1
	} else if brightness > 100 {
		brightness = 100
	}

	err := b.client.BypassV2(ctx, b.cid, b.configModule, "setLightStatus", map[string]any{
		"action":     StatusOn,
		"brightness": brightness,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(b.logger, err, "bulb: setBrightness failed",
			"cid", b.cid, "brightness", brightness)
	}

	b.mu.Lock()
	b.brightness = brightness
	b.status = StatusOn
	b.mu.Unlock()
	return nil
}

// ColorTempPct returns the white temperature as a percentage of the bulb's
// range, from the last Update.
func (b *Bulb) ColorTempPct() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.colorTemp
}

// SetColorTemp sets the white temperature as a percentage (0 warmest,
// 100 coolest). Values are clamped to range.
func (b *Bulb) SetColorTemp(ctx context.Context, pct int) error {
	if !b.spec.HasFeature(FeatureColorTemp) {
		return errors.InvalidInputf("bulb %s has no tunable white", b.cid)
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}

	err := b.client.BypassV2(ctx, b.cid, b.configModule, "setLightStatus", map[string]any{
		"action":     StatusOn,
		"colorTempe": pct,
		"colorMode":  "white",
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(b.logger, err, "bulb: setColorTemp failed",
			"cid", b.cid, "pct", pct)
	}

	b.mu.Lock()
	b.colorTemp = pct
	b.colorMode = "white"
	b.status = StatusOn
	b.mu.Unlock()
	return nil
}

// Color returns the current color from the last Update, nil in white mode.
func (b *Bulb) Color() *Color {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.color
}

// SetColorRGB switches the bulb to color mode at the given RGB color.
func (b *Bulb) SetColorRGB(ctx context.Context, red, green, blue int) error {
	if !b.spec.HasFeature(FeatureColor) {
		return errors.InvalidInputf("bulb %s has no color support", b.cid)
	}
	color, err := ColorFromRGB(red, green, blue)
	if err != nil {
		return err
	}
	return b.setColor(ctx, color)
}

// SetColorHSV switches the bulb to color mode at the given HSV color.
func (b *Bulb) SetColorHSV(ctx context.Context, hue, saturation, value float64) error {
	if !b.spec.HasFeature(FeatureColor) {
		return errors.InvalidInputf("bulb %s has no color support", b.cid)
	}
	color, err := ColorFromHSV(hue, saturation, value)
	if err != nil {
		return err
	}
	return b.setColor(ctx, color)
}

func (b *Bulb) setColor(ctx context.Context, color Color) error {
	// Hue goes over the wire scaled to 0-10000 (27.77 per degree).
	err := b.client.BypassV2(ctx, b.cid, b.configModule, "setLightStatus", map[string]any{
		"action":     StatusOn,
		"colorMode":  "color",
		"hue":        int(color.HSV.Hue * 27.77),
		"saturation": int(color.HSV.Saturation * 100),
		"value":      int(color.HSV.Value),
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(b.logger, err, "bulb: setColor failed",
			"cid", b.cid, "color", color.RGB.String())
	}

	b.mu.Lock()
	b.color = &color
	b.colorMode = "color"
	b.status = StatusOn
	b.mu.Unlock()
	return nil
}

// Display returns a flattened view including light state.
func (b *Bulb) Display() map[string]any {
	out := b.display()
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.spec.HasFeature(FeatureDimmable) {
		out["brightness"] = b.brightness
	}
	if b.spec.HasFeature(FeatureColorTemp) {
		out["color_temp_pct"] = b.colorTemp
	}
	if b.spec.HasFeature(FeatureColor) && b.color != nil {
		out["color"] = *b.color
		out["color_mode"] = b.colorMode
	}
	return out
}
