package sensor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// Sensor is the capability surface shared by all physical sensor models.
// Read and Calibrate require an activated sensor. The WeatherSnapshot passed
// to Read is the tick's read-only view of the shared weather process; sensors
// never hold a reference to the live state.
type Sensor interface {
	Activate()
	Deactivate()
	Active() bool
	Read(ts time.Time, wx WeatherSnapshot) (domain.Reading, error)
	Calibrate(reference, actual float64) error
}

// Config holds per-sensor construction parameters. Immutable after the
// sensor is built.
type Config struct {
	NoiseLevel             float64 // 0.0 = no noise, 1.0 = very noisy
	DriftRate              float64 // baseline units accumulated per read
	CouplingStrength       float64 // humidity-to-temperature coupling, 0.0-1.0
	MalfunctionProbability float64 // per-read chance of a saturated bad reading
}

// core implements the state machine and measurement plumbing shared by all
// sensor variants: activation, accumulated drift, additive calibration,
// Gaussian noise, malfunction simulation, and range clamping. Each variant
// supplies the physical base value; core composes the final Reading.
type core struct {
	id         string
	sensorType domain.SensorType
	location   string
	cfg        Config
	rng        *rand.Rand

	rangeMin  float64
	rangeMax  float64
	precision float64

	active            bool
	driftOffset       float64
	calibrationOffset float64
}

func newCore(t domain.SensorType, location string, cfg Config, rng *rand.Rand, rangeMin, rangeMax, precision float64) core {
	return core{
		id:         domain.SensorID(t, location),
		sensorType: t,
		location:   location,
		cfg:        cfg,
		rng:        rng,
		rangeMin:   rangeMin,
		rangeMax:   rangeMax,
		precision:  precision,
	}
}

func (c *core) ID() string { return c.id }

func (c *core) Activate() { c.active = true }

func (c *core) Deactivate() { c.active = false }

func (c *core) Active() bool { return c.active }

func (c *core) ensureActive() error {
	if !c.active {
		return fmt.Errorf("%w: %s", domain.ErrNotActivated, c.id)
	}
	return nil
}

// Calibrate applies an additive correction from a reference comparison:
// the offset shifts every future reading by reference − actual. Calibration
// composes with drift — drift keeps accumulating afterwards. Non-finite
// arguments are rejected and leave the prior offset untouched.
func (c *core) Calibrate(reference, actual float64) error {
	if err := c.ensureActive(); err != nil {
		return err
	}
	if !isFinite(reference) || !isFinite(actual) {
		return fmt.Errorf("%w: reference=%v actual=%v on %s",
			domain.ErrInvalidCalibration, reference, actual, c.id)
	}
	c.calibrationOffset += reference - actual
	return nil
}

// compose turns a physical base value into a finished Reading: malfunction
// check, drift accumulation, calibration, noise, range clamp, quality.
func (c *core) compose(ts time.Time, base float64) (domain.Reading, error) {
	if err := c.ensureActive(); err != nil {
		return domain.Reading{}, err
	}

	if c.cfg.MalfunctionProbability > 0 && c.rng.Float64() < c.cfg.MalfunctionProbability {
		// Saturated bad reading: the value pins at the sensor's upper bound
		// (e.g. humidity reads 100%) and quality collapses. Always finite.
		return domain.Reading{
			Value:      c.rangeMax,
			Timestamp:  ts,
			SensorID:   c.id,
			SensorType: c.sensorType,
			Quality:    0.0,
			Metadata: map[string]any{
				"malfunction": true,
				"location":    c.location,
			},
		}, nil
	}

	c.driftOffset += c.cfg.DriftRate

	value := base + c.driftOffset + c.calibrationOffset
	if c.cfg.NoiseLevel > 0 {
		value += c.rng.NormFloat64() * c.precision * c.cfg.NoiseLevel * 10
	}
	value = clamp(value, c.rangeMin, c.rangeMax)

	quality := 1.0 - c.cfg.NoiseLevel - math.Abs(c.driftOffset)/(c.rangeMax-c.rangeMin)
	quality = clamp(quality, 0.0, 1.0)

	return domain.Reading{
		Value:      value,
		Timestamp:  ts,
		SensorID:   c.id,
		SensorType: c.sensorType,
		Quality:    quality,
		Metadata: map[string]any{
			"base_value":         base,
			"drift_applied":      c.driftOffset,
			"calibration_offset": c.calibrationOffset,
			"noise_level":        c.cfg.NoiseLevel,
			"location":           c.location,
		},
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// seasonalCycle returns the annual cosine phased so the southern-hemisphere
// peak lands mid-January (day 15) and the trough mid-July.
func seasonalCycle(ts time.Time) float64 {
	day := float64(ts.YearDay())
	return math.Cos(2 * math.Pi * (day - 15) / 365.25)
}

// hourOfDay returns the hour as a fraction, e.g. 14:30 -> 14.5.
func hourOfDay(ts time.Time) float64 {
	return float64(ts.Hour()) + float64(ts.Minute())/60.0 + float64(ts.Second())/3600.0
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
