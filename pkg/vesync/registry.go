package vesync

import "strings"

// ProductType classifies a device into one of the supported appliance kinds.
type ProductType string

const (
	ProductOutlet     ProductType = "outlet"
	ProductSwitch     ProductType = "switch"
	ProductBulb       ProductType = "bulb"
	ProductFan        ProductType = "fan"
	ProductHumidifier ProductType = "humidifier"
	ProductPurifier   ProductType = "purifier"
)

// Feature flags advertised by a device model.
type Feature string

const (
	FeatureDimmable   Feature = "dimmable"
	FeatureColorTemp  Feature = "color_temp"
	FeatureColor      Feature = "rgb_shift"
	FeatureEnergy     Feature = "energy_monitor"
	FeatureNightlight Feature = "nightlight"
	FeatureWarmMist   Feature = "warm_mist"
	FeatureAirQuality Feature = "air_quality"
	FeatureTimer      Feature = "timer"
)

// Operating modes shared by fans, humidifiers and purifiers.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
	ModeSleep  = "sleep"
	ModeNormal = "normal"
	ModePet    = "pet"
	ModeTurbo  = "turbo"
)

// DeviceSpec describes a family of models: its product type, feature set and
// the value ranges the cloud accepts for it.
type DeviceSpec struct {
	Models      []string
	ProductType ProductType
	Features    []Feature
	Modes       []string
	FanLevels   []int
	MistLevels  []int
	ColorModes  []string
}

// HasFeature reports whether the spec advertises the given feature.
func (s DeviceSpec) HasFeature(f Feature) bool {
	for _, have := range s.Features {
		if have == f {
			return true
		}
	}
	return false
}

// HasMode reports whether the spec supports the given operating mode.
func (s DeviceSpec) HasMode(mode string) bool {
	for _, have := range s.Modes {
		if have == mode {
			return true
		}
	}
	return false
}

// deviceRegistry maps cloud model strings to their capabilities. Model lists
// follow the vendor app's groupings; devices sharing firmware behave
// identically regardless of regional suffix.
var deviceRegistry = []DeviceSpec{
	// Outlets
	{
		Models:      []string{"wifi-switch-1.3"},
		ProductType: ProductOutlet,
		Features:    []Feature{FeatureEnergy, FeatureTimer},
	},
	{
		Models:      []string{"ESW03-USA", "ESW01-EU"},
		ProductType: ProductOutlet,
		Features:    []Feature{FeatureEnergy, FeatureTimer},
	},
	{
		Models:      []string{"ESW15-USA"},
		ProductType: ProductOutlet,
		Features:    []Feature{FeatureEnergy, FeatureNightlight, FeatureTimer},
	},
	{
		Models:      []string{"ESO15-TB"},
		ProductType: ProductOutlet,
		Features:    []Feature{FeatureEnergy, FeatureTimer},
	},
	{
		Models:      []string{"BSDOG01"},
		ProductType: ProductOutlet,
		Features:    []Feature{FeatureTimer},
	},

	// Wall switches
	{
		Models:      []string{"ESWL01", "ESWL03"},
		ProductType: ProductSwitch,
		Features:    []Feature{FeatureTimer},
	},
	{
		Models:      []string{"ESWD16"},
		ProductType: ProductSwitch,
		Features:    []Feature{FeatureDimmable, FeatureNightlight, FeatureTimer},
	},

	// Bulbs
	{
		Models:      []string{"ESL100"},
		ProductType: ProductBulb,
		Features:    []Feature{FeatureDimmable, FeatureTimer},
		ColorModes:  []string{"white"},
	},
	{
		Models:      []string{"ESL100CW"},
		ProductType: ProductBulb,
		Features:    []Feature{FeatureDimmable, FeatureColorTemp, FeatureTimer},
		ColorModes:  []string{"white"},
	},
	{
		Models:      []string{"ESL100MC"},
		ProductType: ProductBulb,
		Features:    []Feature{FeatureDimmable, FeatureColor, FeatureTimer},
		ColorModes:  []string{"white", "color"},
	},
	{
		Models:      []string{"XYD0001"},
		ProductType: ProductBulb,
		Features:    []Feature{FeatureDimmable, FeatureColorTemp, FeatureColor, FeatureTimer},
		ColorModes:  []string{"white", "color"},
	},

	// Tower fans
	{
		Models:      []string{"LTF-F422S-KEU", "LTF-F422S-WUSR", "LTF-F422_WJP", "LTF-F422S-WUS"},
		ProductType: ProductFan,
		Features:    []Feature{FeatureTimer},
		Modes:       []string{ModeNormal, ModeAuto, ModeSleep, ModeTurbo},
		FanLevels:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	},

	// Humidifiers
	{
		Models:      []string{"Classic300S", "LUH-A601S-WUSB", "LUH-A601S-AUSW"},
		ProductType: ProductHumidifier,
		Features:    []Feature{FeatureNightlight, FeatureTimer},
		Modes:       []string{ModeAuto, ModeManual, ModeSleep},
		MistLevels:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
	},
	{
		Models:      []string{"Classic200S"},
		ProductType: ProductHumidifier,
		Features:    []Feature{FeatureTimer},
		Modes:       []string{ModeAuto, ModeManual},
		MistLevels:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
	},
	{
		Models:      []string{"Dual200S", "LUH-D301S-WUSR", "LUH-D301S-WJP", "LUH-D301S-WEU"},
		ProductType: ProductHumidifier,
		Features:    []Feature{FeatureTimer},
		Modes:       []string{ModeAuto, ModeManual},
		MistLevels:  []int{1, 2},
	},
	{
		Models: []string{
			"LUH-A602S-WUSR", "LUH-A602S-WUS", "LUH-A602S-WEUR",
			"LUH-A602S-WEU", "LUH-A602S-WJP", "LUH-A602S-WUSC",
		},
		ProductType: ProductHumidifier,
		Features:    []Feature{FeatureWarmMist, FeatureNightlight, FeatureTimer},
		Modes:       []string{ModeAuto, ModeManual, ModeSleep},
		MistLevels:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
	},

	// Air purifiers
	{
		Models:      []string{"Core200S", "LAP-C201S-AUSR", "LAP-C202S-WUSR"},
		ProductType: ProductPurifier,
		Features:    []Feature{FeatureTimer},
		Modes:       []string{ModeSleep, ModeManual},
		FanLevels:   []int{1, 2, 3},
	},
	{
		Models:      []string{"Core300S", "LAP-C301S-WJP", "LAP-C302S-WUSB", "LAP-C301S-WAAA"},
		ProductType: ProductPurifier,
		Features:    []Feature{FeatureAirQuality, FeatureTimer},
		Modes:       []string{ModeSleep, ModeAuto, ModeManual},
		FanLevels:   []int{1, 2, 3, 4},
	},
	{
		Models:      []string{"Core400S", "LAP-C401S-WJP", "LAP-C401S-WUSR", "LAP-C401S-WAAA"},
		ProductType: ProductPurifier,
		Features:    []Feature{FeatureAirQuality, FeatureTimer},
		Modes:       []string{ModeSleep, ModeAuto, ModeManual},
		FanLevels:   []int{1, 2, 3, 4},
	},
	{
		Models:      []string{"Core600S", "LAP-C601S-WUS", "LAP-C601S-WUSR", "LAP-C601S-WEU"},
		ProductType: ProductPurifier,
		Features:    []Feature{FeatureAirQuality, FeatureTimer},
		Modes:       []string{ModeSleep, ModeAuto, ModeManual},
		FanLevels:   []int{1, 2, 3, 4},
	},
	{
		Models:      []string{"LV-PUR131S", "LV-RH131S"},
		ProductType: ProductPurifier,
		Features:    []Feature{FeatureAirQuality, FeatureTimer},
		Modes:       []string{ModeManual, ModeAuto, ModeSleep},
		FanLevels:   []int{1, 2, 3},
	},
}

// LookupDeviceSpec resolves a cloud model string to its spec. Models are
// matched case-insensitively; regional variants that share a prefix with a
// registered model (e.g. "ESW15-USA-2") fall back to prefix matching.
func LookupDeviceSpec(model string) (DeviceSpec, bool) {
	if model == "" {
		return DeviceSpec{}, false
	}
	needle := strings.ToUpper(model)
	for _, spec := range deviceRegistry {
		for _, m := range spec.Models {
			if strings.ToUpper(m) == needle {
				return spec, true
			}
		}
	}
	// Prefix fallback for regional suffixes not in the table.
	for _, spec := range deviceRegistry {
		for _, m := range spec.Models {
			if strings.HasPrefix(needle, strings.ToUpper(m)) {
				return spec, true
			}
		}
	}
	return DeviceSpec{}, false
}
