package sensor

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

const (
	temperatureRangeMin  = -40.0
	temperatureRangeMax  = 60.0
	temperaturePrecision = 0.1

	// solarLatitude approximates the latitude shared by the supported
	// locations for the solar-elevation proxy.
	solarLatitude = -35.0

	// weatherTempGain converts the weather anomaly into °C.
	weatherTempGain = 1.0

	// defaultThermalMass damps tick-to-tick changes: 0 responds instantly,
	// values near 1 respond very slowly.
	defaultThermalMass = 0.1
)

// TemperatureSensor models ambient air temperature as
// base + seasonal + solar + weather, smoothed by a thermal-mass term so the
// output never jumps discontinuously between ticks.
type TemperatureSensor struct {
	core
	profile     Profile
	thermalMass float64
	prev        float64
}

func NewTemperature(profile Profile, cfg Config, rng *rand.Rand) *TemperatureSensor {
	return &TemperatureSensor{
		core:        newCore(domain.Temperature, profile.Name, cfg, rng, temperatureRangeMin, temperatureRangeMax, temperaturePrecision),
		profile:     profile,
		thermalMass: defaultThermalMass,
		prev:        profile.BaseTemperature,
	}
}

// Baseline returns the location's long-term average temperature. The network
// uses it to compute the departure driving humidity coupling.
func (s *TemperatureSensor) Baseline() float64 { return s.profile.BaseTemperature }

func (s *TemperatureSensor) Read(ts time.Time, wx WeatherSnapshot) (domain.Reading, error) {
	if err := s.ensureActive(); err != nil {
		return domain.Reading{}, err
	}

	ideal := s.profile.BaseTemperature +
		seasonalCycle(ts)*s.profile.SeasonalRange/2 +
		s.solarEffect(ts) +
		wx.Offset*weatherTempGain

	// Exponential approach toward the ideal value; the sensor's thermal mass
	// keeps weather swings gradual.
	s.prev += (ideal - s.prev) * (1 - s.thermalMass)

	return s.compose(ts, s.prev)
}

// solarEffect derives a solar-radiation temperature contribution from a
// simplified solar elevation angle: positive while the sun is up, peaking at
// local solar noon, with mild radiative cooling at night.
func (s *TemperatureSensor) solarEffect(ts time.Time) float64 {
	hour := hourOfDay(ts)
	day := float64(ts.YearDay())

	declination := 23.45 * math.Sin(radians(360*(284+day)/365))
	hourAngle := 15 * (hour - 12)

	elevation := math.Asin(
		math.Sin(radians(declination))*math.Sin(radians(solarLatitude)) +
			math.Cos(radians(declination))*math.Cos(radians(solarLatitude))*math.Cos(radians(hourAngle)))

	if elevation > 0 {
		return math.Sin(elevation) * s.profile.DailyRange
	}
	return -0.2 * s.profile.DailyRange
}
