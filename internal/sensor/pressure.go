package sensor

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

const (
	pressureRangeMin  = 800.0
	pressureRangeMax  = 1100.0
	pressurePrecision = 0.01

	// Barometric formula constants: P = P0 * exp(-g*M*h / (R*T)).
	gravity      = 9.80665  // m/s²
	molarMassAir = 0.0289644 // kg/mol
	gasConstant  = 8.31447  // J/(mol·K)
	standardTemp = 288.15   // K (15°C)

	// weatherPressureGain converts the weather anomaly into hPa. Warm
	// anomalies ride low-pressure systems, hence the negative sign.
	weatherPressureGain = -4.0

	// Semi-diurnal atmospheric tide amplitudes, hPa.
	solarTideAmplitude = 1.2
	lunarTideAmplitude = 0.3
	lunarDayHours      = 24.8
)

// BarometricPressure returns the pressure at the given altitude (metres) for
// a sea-level reference pressure, via the isothermal barometric formula.
// Strictly decreasing in altitude.
func BarometricPressure(seaLevel, altitude float64) float64 {
	return seaLevel * math.Exp(-gravity*molarMassAir*altitude/(gasConstant*standardTemp))
}

// PressureSensor models station pressure as the barometric base for the
// configured altitude plus weather-system perturbation and the semi-diurnal
// atmospheric tide.
type PressureSensor struct {
	core
	profile      Profile
	basePressure float64
}

func NewPressure(profile Profile, cfg Config, rng *rand.Rand) *PressureSensor {
	return &PressureSensor{
		core:         newCore(domain.Pressure, profile.Name, cfg, rng, pressureRangeMin, pressureRangeMax, pressurePrecision),
		profile:      profile,
		basePressure: BarometricPressure(profile.SeaLevelPressure, profile.Altitude),
	}
}

// BasePressure returns the altitude-adjusted station pressure around which
// the model oscillates.
func (s *PressureSensor) BasePressure() float64 { return s.basePressure }

func (s *PressureSensor) Read(ts time.Time, wx WeatherSnapshot) (domain.Reading, error) {
	if err := s.ensureActive(); err != nil {
		return domain.Reading{}, err
	}

	base := s.basePressure +
		wx.Offset*weatherPressureGain +
		atmosphericTide(ts)

	return s.compose(ts, base)
}

// atmosphericTide returns the predictable pressure oscillation: a 12-hour
// solar component (two cycles per day) plus a small lunar component.
func atmosphericTide(ts time.Time) float64 {
	hour := hourOfDay(ts)
	day := float64(ts.YearDay())

	solar := solarTideAmplitude * math.Cos(2*math.Pi*hour/12)
	lunarPhase := (day*24 + hour) / lunarDayHours
	lunar := lunarTideAmplitude * math.Cos(2*math.Pi*lunarPhase)

	return solar + lunar
}
