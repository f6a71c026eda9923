package sensor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeatherOffsetStaysBounded(t *testing.T) {
	rng := testRNG()
	var w WeatherState

	for i := 0; i < 100_000; i++ {
		w.Step(rng, time.Minute)
		assert.Less(t, math.Abs(w.Snapshot().Offset), weatherOffsetMax,
			"step %d", i)
	}
}

func TestWeatherChangesAreGradual(t *testing.T) {
	rng := testRNG()
	var w WeatherState

	prev := w.Snapshot().Offset
	for i := 0; i < 10_000; i++ {
		w.Step(rng, time.Minute)
		cur := w.Snapshot().Offset
		assert.Less(t, math.Abs(cur-prev), 0.5, "step %d", i)
		prev = cur
	}
}

func TestWeatherRainEventsStartAndStop(t *testing.T) {
	rng := testRNG()
	var w WeatherState

	var sawRain, sawDryAfterRain bool
	for i := 0; i < 500_000 && !(sawRain && sawDryAfterRain); i++ {
		w.Step(rng, time.Minute)
		if w.Snapshot().Raining {
			sawRain = true
		} else if sawRain {
			sawDryAfterRain = true
		}
	}

	assert.True(t, sawRain, "rain should start within the horizon")
	assert.True(t, sawDryAfterRain, "rain should also stop")
}

func TestWeatherZeroIntervalIsNoOp(t *testing.T) {
	rng := testRNG()
	var w WeatherState
	w.Step(rng, time.Hour)
	before := w.Snapshot()

	w.Step(rng, 0)
	assert.Equal(t, before, w.Snapshot())
	assert.Equal(t, time.Hour, w.Elapsed())
}
