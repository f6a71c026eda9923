package sensor

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func mustProfile(t *testing.T, name string) Profile {
	t.Helper()
	p, err := LookupProfile(name)
	require.NoError(t, err)
	return p
}

func TestSensorRequiresActivation(t *testing.T) {
	s := NewTemperature(mustProfile(t, "sydney"), Config{}, testRNG())
	ts := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	_, err := s.Read(ts, WeatherSnapshot{})
	require.ErrorIs(t, err, domain.ErrNotActivated)

	err = s.Calibrate(20.0, 19.5)
	require.ErrorIs(t, err, domain.ErrNotActivated)

	s.Activate()
	_, err = s.Read(ts, WeatherSnapshot{})
	require.NoError(t, err)

	s.Deactivate()
	_, err = s.Read(ts, WeatherSnapshot{})
	require.ErrorIs(t, err, domain.ErrNotActivated)
}

func TestCalibrationShiftsEveryFutureReading(t *testing.T) {
	ts := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	uncalibrated := NewTemperature(mustProfile(t, "sydney"), Config{}, testRNG())
	uncalibrated.Activate()
	calibrated := NewTemperature(mustProfile(t, "sydney"), Config{}, testRNG())
	calibrated.Activate()

	require.NoError(t, calibrated.Calibrate(22.0, 20.0))

	for i := 0; i < 5; i++ {
		tick := ts.Add(time.Duration(i) * time.Minute)
		base, err := uncalibrated.Read(tick, WeatherSnapshot{})
		require.NoError(t, err)
		shifted, err := calibrated.Read(tick, WeatherSnapshot{})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, shifted.Value-base.Value, 1e-9, "tick %d", i)
	}
}

func TestCalibrateRejectsNonFiniteInputs(t *testing.T) {
	tests := []struct {
		name      string
		reference float64
		actual    float64
	}{
		{name: "nan reference", reference: math.NaN(), actual: 20.0},
		{name: "nan actual", reference: 20.0, actual: math.NaN()},
		{name: "positive inf reference", reference: math.Inf(1), actual: 20.0},
		{name: "negative inf actual", reference: 20.0, actual: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTemperature(mustProfile(t, "sydney"), Config{}, testRNG())
			s.Activate()

			before, err := s.Read(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), WeatherSnapshot{})
			require.NoError(t, err)

			err = s.Calibrate(tt.reference, tt.actual)
			require.ErrorIs(t, err, domain.ErrInvalidCalibration)

			after, err := s.Read(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), WeatherSnapshot{})
			require.NoError(t, err)
			assert.InDelta(t, before.Value, after.Value, 1e-9,
				"failed calibration must not alter the offset")
		})
	}
}

func TestDriftAccumulatesPerRead(t *testing.T) {
	s := NewPressure(mustProfile(t, "sydney"), Config{DriftRate: 0.5}, testRNG())
	s.Activate()
	ts := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	var prevDrift float64
	for i := 1; i <= 4; i++ {
		r, err := s.Read(ts, WeatherSnapshot{})
		require.NoError(t, err)
		drift := r.Metadata["drift_applied"].(float64)
		assert.InDelta(t, 0.5*float64(i), drift, 1e-9)
		assert.Greater(t, drift, prevDrift)
		prevDrift = drift
	}
}

func TestMalfunctionSaturatesValueAndZeroesQuality(t *testing.T) {
	s := NewHumidity(mustProfile(t, "darwin"), Config{MalfunctionProbability: 1.0}, testRNG())
	s.Activate()

	r, err := s.Read(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), WeatherSnapshot{})
	require.NoError(t, err)

	assert.Equal(t, humidityRangeMax, r.Value)
	assert.Equal(t, 0.0, r.Quality)
	assert.Equal(t, true, r.Metadata["malfunction"])
	assert.False(t, math.IsNaN(r.Value))
}

func TestZeroNoiseIsDeterministic(t *testing.T) {
	ts := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	a := NewPressure(mustProfile(t, "hobart"), Config{}, testRNG())
	a.Activate()
	b := NewPressure(mustProfile(t, "hobart"), Config{}, rand.New(rand.NewPCG(99, 100)))
	b.Activate()

	ra, err := a.Read(ts, WeatherSnapshot{Offset: 1.5})
	require.NoError(t, err)
	rb, err := b.Read(ts, WeatherSnapshot{Offset: 1.5})
	require.NoError(t, err)

	assert.Equal(t, ra.Value, rb.Value,
		"with zero noise and no malfunction the random stream must not be consumed")
}

func TestQualityReflectsNoiseAndDrift(t *testing.T) {
	ts := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	clean := NewTemperature(mustProfile(t, "sydney"), Config{}, testRNG())
	clean.Activate()
	noisy := NewTemperature(mustProfile(t, "sydney"), Config{NoiseLevel: 0.3}, testRNG())
	noisy.Activate()

	rc, err := clean.Read(ts, WeatherSnapshot{})
	require.NoError(t, err)
	rn, err := noisy.Read(ts, WeatherSnapshot{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, rc.Quality)
	assert.Less(t, rn.Quality, rc.Quality)
	assert.GreaterOrEqual(t, rn.Quality, 0.0)
}
