package sensor

import (
	"math"
	"math/rand/v2"
	"time"
)

// Weather process tunables. The offset is a dimensionless anomaly in roughly
// [-6, 6]; each sensor variant scales it into its own units.
const (
	weatherTrendSigma = 0.6  // random trend kick per sqrt(hour)
	weatherTrendMax   = 2.0  // soft bound on trend magnitude
	weatherReversion  = 0.08 // fraction of offset pulled back per hour
	weatherOffsetMax  = 6.0  // soft bound on offset magnitude

	rainStartPerHour = 0.03
	rainStopPerHour  = 0.25
)

// WeatherState is the slowly evolving ambient weather for one location: a
// damped, mean-reverting random walk plus a rain-event flag. It is owned
// exclusively by a SensorNetwork and advanced exactly once per tick, before
// any sensor reads that tick.
type WeatherState struct {
	offset  float64
	trend   float64
	raining bool
	elapsed time.Duration
}

// WeatherSnapshot is the read-only view handed to sensors for one tick.
type WeatherSnapshot struct {
	Offset  float64
	Raining bool
}

// Step advances the weather by one tick of the given interval. The trend
// random-walks with soft clamping and the offset mean-reverts, so the anomaly
// wanders but cannot diverge; changes between adjacent ticks stay gradual.
func (w *WeatherState) Step(rng *rand.Rand, interval time.Duration) {
	dt := interval.Hours()
	if dt <= 0 {
		return
	}

	w.trend += rng.NormFloat64() * weatherTrendSigma * math.Sqrt(dt)
	w.trend = softClamp(w.trend, weatherTrendMax)

	w.offset += w.trend*dt - weatherReversion*w.offset*dt
	w.offset = softClamp(w.offset, weatherOffsetMax)

	if w.raining {
		if rng.Float64() < math.Min(1, rainStopPerHour*dt) {
			w.raining = false
		}
	} else if rng.Float64() < math.Min(1, rainStartPerHour*dt) {
		w.raining = true
	}

	w.elapsed += interval
}

// Snapshot returns the current state as an immutable per-tick view.
func (w *WeatherState) Snapshot() WeatherSnapshot {
	return WeatherSnapshot{Offset: w.offset, Raining: w.raining}
}

// Elapsed returns total simulated time this state has been advanced.
func (w *WeatherState) Elapsed() time.Duration { return w.elapsed }

// softClamp squashes v smoothly into (-limit, limit) so bounded state never
// hits a hard discontinuity.
func softClamp(v, limit float64) float64 {
	return limit * math.Tanh(v/limit)
}
