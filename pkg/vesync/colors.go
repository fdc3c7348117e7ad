package vesync

import (
	"fmt"
	"math"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// RGB holds a color as red/green/blue components in the 0-255 range.
type RGB struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.Red, c.Green, c.Blue)
}

// HSV holds a color as hue (0-360), saturation (0-100) and value (0-100).
type HSV struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
}

func (c HSV) String() string {
	return fmt.Sprintf("HSV(%.0f, %.0f, %.0f)", c.Hue, c.Saturation, c.Value)
}

// Color carries both representations of a bulb color. Construct via
// ColorFromRGB or ColorFromHSV so the two stay consistent.
type Color struct {
	RGB RGB `json:"rgb"`
	HSV HSV `json:"hsv"`
}

// ColorFromRGB builds a Color from red/green/blue components.
func ColorFromRGB(red, green, blue int) (Color, error) {
	for _, v := range []int{red, green, blue} {
		if v < 0 || v > 255 {
			return Color{}, errors.InvalidInputf("rgb component %d out of range 0-255", v)
		}
	}
	rgb := RGB{Red: red, Green: green, Blue: blue}
	return Color{RGB: rgb, HSV: rgbToHSV(rgb)}, nil
}

// ColorFromHSV builds a Color from hue (degrees) and saturation/value
// percentages.
func ColorFromHSV(hue, saturation, value float64) (Color, error) {
	if hue < 0 || hue > 360 {
		return Color{}, errors.InvalidInputf("hue %.1f out of range 0-360", hue)
	}
	if saturation < 0 || saturation > 100 {
		return Color{}, errors.InvalidInputf("saturation %.1f out of range 0-100", saturation)
	}
	if value < 0 || value > 100 {
		return Color{}, errors.InvalidInputf("value %.1f out of range 0-100", value)
	}
	hsv := HSV{Hue: hue, Saturation: saturation, Value: value}
	return Color{HSV: hsv, RGB: hsvToRGB(hsv)}, nil
}

func hsvToRGB(c HSV) RGB {
	h := math.Mod(c.Hue, 360) / 60
	s := c.Saturation / 100
	v := c.Value / 100

	i := int(math.Floor(h)) % 6
	f := h - math.Floor(h)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{
		Red:   int(math.Round(r * 255)),
		Green: int(math.Round(g * 255)),
		Blue:  int(math.Round(b * 255)),
	}
}

func rgbToHSV(c RGB) HSV {
	r := float64(c.Red) / 255
	g := float64(c.Green) / 255
	b := float64(c.Blue) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case max == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = delta / max
	}

	return HSV{
		Hue:        round2(h),
		Saturation: round2(s * 100),
		Value:      math.Round(max * 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
