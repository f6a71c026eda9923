// Package sensor simulates physical environmental sensors: temperature,
// atmospheric pressure, and relative humidity. Each variant composes a shared
// core (activation state, drift, calibration, noise, malfunction) with its
// own deterministic physical model, and a SensorNetwork keeps co-located
// sensors consistent through one shared weather process.
package sensor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// LocationType captures the humidity regime of a location.
type LocationType string

const (
	Coastal  LocationType = "coastal"
	Inland   LocationType = "inland"
	Urban    LocationType = "urban"
	Tropical LocationType = "tropical"
	Arid     LocationType = "arid"
)

// Profile holds the fixed climate parameters for a named location.
type Profile struct {
	Name             string
	BaseTemperature  float64 // average annual temperature, °C
	DailyRange       float64 // daily temperature swing, °C
	SeasonalRange    float64 // seasonal temperature swing, °C
	Altitude         float64 // metres above sea level
	Type             LocationType
	SeaLevelPressure float64 // reference sea-level pressure, hPa
}

// Southern-hemisphere reference locations. Base temperatures and ranges follow
// Bureau of Meteorology long-term averages; altitudes are station elevations.
var profiles = map[string]Profile{
	"sydney":        {Name: "Sydney", BaseTemperature: 20.0, DailyRange: 8.0, SeasonalRange: 12.0, Altitude: 19, Type: Coastal, SeaLevelPressure: 1013.25},
	"melbourne":     {Name: "Melbourne", BaseTemperature: 16.0, DailyRange: 10.0, SeasonalRange: 15.0, Altitude: 31, Type: Urban, SeaLevelPressure: 1013.25},
	"brisbane":      {Name: "Brisbane", BaseTemperature: 24.0, DailyRange: 7.0, SeasonalRange: 8.0, Altitude: 27, Type: Coastal, SeaLevelPressure: 1013.25},
	"perth":         {Name: "Perth", BaseTemperature: 19.0, DailyRange: 12.0, SeasonalRange: 10.0, Altitude: 46, Type: Coastal, SeaLevelPressure: 1013.25},
	"adelaide":      {Name: "Adelaide", BaseTemperature: 18.0, DailyRange: 11.0, SeasonalRange: 14.0, Altitude: 50, Type: Urban, SeaLevelPressure: 1013.25},
	"darwin":        {Name: "Darwin", BaseTemperature: 28.0, DailyRange: 5.0, SeasonalRange: 4.0, Altitude: 30, Type: Tropical, SeaLevelPressure: 1013.25},
	"hobart":        {Name: "Hobart", BaseTemperature: 14.0, DailyRange: 8.0, SeasonalRange: 10.0, Altitude: 51, Type: Coastal, SeaLevelPressure: 1013.25},
	"canberra":      {Name: "Canberra", BaseTemperature: 15.0, DailyRange: 12.0, SeasonalRange: 18.0, Altitude: 580, Type: Inland, SeaLevelPressure: 1013.25},
	"alice springs": {Name: "Alice Springs", BaseTemperature: 22.0, DailyRange: 18.0, SeasonalRange: 20.0, Altitude: 545, Type: Arid, SeaLevelPressure: 1013.25},
	"cairns":        {Name: "Cairns", BaseTemperature: 26.0, DailyRange: 6.0, SeasonalRange: 6.0, Altitude: 3, Type: Tropical, SeaLevelPressure: 1013.25},
}

// humidityCharacteristics describe how relative humidity behaves for a
// location type: its resting level, swing amplitudes, and how strongly rain
// events move it.
type humidityCharacteristics struct {
	base            float64 // resting relative humidity, %RH
	seasonalRange   float64
	dailyRange      float64
	rainSensitivity float64
}

var humidityByLocationType = map[LocationType]humidityCharacteristics{
	Coastal:  {base: 70.0, seasonalRange: 15.0, dailyRange: 20.0, rainSensitivity: 1.2},
	Inland:   {base: 50.0, seasonalRange: 25.0, dailyRange: 30.0, rainSensitivity: 1.5},
	Urban:    {base: 60.0, seasonalRange: 20.0, dailyRange: 25.0, rainSensitivity: 1.0},
	Tropical: {base: 80.0, seasonalRange: 10.0, dailyRange: 15.0, rainSensitivity: 0.8},
	Arid:     {base: 30.0, seasonalRange: 20.0, dailyRange: 35.0, rainSensitivity: 2.0},
}

// LookupProfile resolves a location name (case- and whitespace-insensitive)
// to its climate profile. Unknown names fail with domain.ErrConfiguration.
func LookupProfile(name string) (Profile, error) {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	p, ok := profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown location %q", domain.ErrConfiguration, name)
	}
	return p, nil
}

// Locations returns the supported location names, sorted.
func Locations() []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
