package sensor

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

const (
	humidityRangeMin  = 0.0
	humidityRangeMax  = 100.0
	humidityPrecision = 0.1

	// psychrometricGain is the %RH change per °C of temperature departure at
	// full coupling strength. Negative coupling: warmer air, lower RH.
	psychrometricGain = 2.0

	// weatherHumidityGain converts the weather anomaly into %RH.
	weatherHumidityGain = 3.0

	// rainBoost is the %RH added during a rain event before the location's
	// rain sensitivity scales it.
	rainBoost = 18.0

	// humidityDailyPeakHour phases the daily cycle: highest before dawn,
	// lowest late afternoon.
	humidityDailyPeakHour = 5.0
)

// HumiditySensor models relative humidity keyed off the location type,
// inversely coupled to the co-located temperature's departure from its
// baseline, with a pre-dawn-peaking daily cycle and rain-amplified weather.
type HumiditySensor struct {
	core
	char         humidityCharacteristics
	locationType LocationType
	tempBaseline float64
	ambientTemp  float64
}

func NewHumidity(profile Profile, cfg Config, rng *rand.Rand) *HumiditySensor {
	char, ok := humidityByLocationType[profile.Type]
	if !ok {
		char = humidityByLocationType[Urban]
	}
	return &HumiditySensor{
		core:         newCore(domain.Humidity, profile.Name, cfg, rng, humidityRangeMin, humidityRangeMax, humidityPrecision),
		char:         char,
		locationType: profile.Type,
		tempBaseline: profile.BaseTemperature,
		ambientTemp:  profile.BaseTemperature,
	}
}

// SetAmbientTemperature feeds the same-tick temperature reading in. The
// network calls this between the temperature read and the humidity read.
func (s *HumiditySensor) SetAmbientTemperature(t float64) {
	if isFinite(t) {
		s.ambientTemp = t
	}
}

// BaseHumidity returns the resting humidity for the sensor's location type.
func (s *HumiditySensor) BaseHumidity() float64 { return s.char.base }

func (s *HumiditySensor) Read(ts time.Time, wx WeatherSnapshot) (domain.Reading, error) {
	if err := s.ensureActive(); err != nil {
		return domain.Reading{}, err
	}

	value := s.char.base

	// Inverse psychrometric coupling to the co-located temperature.
	value -= s.cfg.CouplingStrength * (s.ambientTemp - s.tempBaseline) * psychrometricGain

	value += s.seasonalEffect(ts)
	value += math.Cos(2*math.Pi*(hourOfDay(ts)-humidityDailyPeakHour)/24) * s.char.dailyRange / 2

	wxTerm := wx.Offset * weatherHumidityGain
	if wx.Raining {
		wxTerm += rainBoost * s.char.rainSensitivity
	}
	value += wxTerm

	return s.compose(ts, clamp(value, humidityRangeMin, humidityRangeMax))
}

// seasonalEffect scales the annual cycle by location type: tropical and
// coastal regimes swing far less than inland ones.
func (s *HumiditySensor) seasonalEffect(ts time.Time) float64 {
	divisor := 2.0
	if s.locationType == Tropical || s.locationType == Coastal {
		divisor = 4.0
	}
	return seasonalCycle(ts) * s.char.seasonalRange / divisor
}
