package vesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFromRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		wantHSV HSV
	}{
		{"red", 255, 0, 0, HSV{Hue: 0, Saturation: 100, Value: 100}},
		{"green", 0, 255, 0, HSV{Hue: 120, Saturation: 100, Value: 100}},
		{"blue", 0, 0, 255, HSV{Hue: 240, Saturation: 100, Value: 100}},
		{"white", 255, 255, 255, HSV{Hue: 0, Saturation: 0, Value: 100}},
		{"black", 0, 0, 0, HSV{Hue: 0, Saturation: 0, Value: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ColorFromRGB(tt.r, tt.g, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHSV, c.HSV)
			assert.Equal(t, RGB{Red: tt.r, Green: tt.g, Blue: tt.b}, c.RGB)
		})
	}
}

func TestColorFromHSV(t *testing.T) {
	c, err := ColorFromHSV(240, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, RGB{Red: 0, Green: 0, Blue: 255}, c.RGB)

	c, err = ColorFromHSV(0, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, RGB{Red: 255, Green: 255, Blue: 255}, c.RGB)

	// Orange-ish mid-saturation value.
	c, err = ColorFromHSV(30, 50, 80)
	require.NoError(t, err)
	assert.Equal(t, RGB{Red: 204, Green: 153, Blue: 102}, c.RGB)
}

func TestColorValidation(t *testing.T) {
	_, err := ColorFromRGB(-1, 0, 0)
	assert.Error(t, err)
	_, err = ColorFromRGB(0, 300, 0)
	assert.Error(t, err)

	_, err = ColorFromHSV(361, 0, 0)
	assert.Error(t, err)
	_, err = ColorFromHSV(0, 101, 0)
	assert.Error(t, err)
	_, err = ColorFromHSV(0, 0, -2)
	assert.Error(t, err)
}

func TestColorRoundTrip(t *testing.T) {
	orig, err := ColorFromRGB(120, 200, 40)
	require.NoError(t, err)

	back, err := ColorFromHSV(orig.HSV.Hue, orig.HSV.Saturation, orig.HSV.Value)
	require.NoError(t, err)

	assert.InDelta(t, orig.RGB.Red, back.RGB.Red, 2)
	assert.InDelta(t, orig.RGB.Green, back.RGB.Green, 2)
	assert.InDelta(t, orig.RGB.Blue, back.RGB.Blue, 2)
}
