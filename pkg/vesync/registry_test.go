package vesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDeviceSpec(t *testing.T) {
	tests := []struct {
		model    string
		wantType ProductType
		wantOK   bool
	}{
		{"ESW15-USA", ProductOutlet, true},
		{"esw15-usa", ProductOutlet, true},
		{"ESW15-USA-2", ProductOutlet, true}, // regional suffix, prefix match
		{"ESL100CW", ProductBulb, true},
		{"Classic300S", ProductHumidifier, true},
		{"Core400S", ProductPurifier, true},
		{"LTF-F422S-WUS", ProductFan, true},
		{"NOT-A-MODEL", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			spec, ok := LookupDeviceSpec(tt.model)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantType, spec.ProductType)
			}
		})
	}
}

func TestLookupExactBeforePrefix(t *testing.T) {
	// ESL100CW must resolve to the tunable-white spec, not fall back to the
	// plain ESL100 prefix.
	spec, ok := LookupDeviceSpec("ESL100CW")
	require.True(t, ok)
	assert.True(t, spec.HasFeature(FeatureColorTemp))
}

func TestDeviceSpecFeatureAndMode(t *testing.T) {
	spec, ok := LookupDeviceSpec("Core300S")
	require.True(t, ok)

	assert.True(t, spec.HasFeature(FeatureAirQuality))
	assert.False(t, spec.HasFeature(FeatureEnergy))
	assert.True(t, spec.HasMode(ModeAuto))
	assert.False(t, spec.HasMode(ModeTurbo))
}

func TestRegistryModelsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, spec := range deviceRegistry {
		require.NotEmpty(t, spec.ProductType)
		for _, m := range spec.Models {
			require.False(t, seen[m], "model %s registered twice", m)
			seen[m] = true
		}
	}
}
