package sim

import (
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

func validConfig() Config {
	return Config{
		Location: "Sydney",
		Duration: time.Hour,
		Interval: time.Minute,
		Start:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Seed:     42,
	}
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero duration", mutate: func(c *Config) { c.Duration = 0 }},
		{name: "negative duration", mutate: func(c *Config) { c.Duration = -time.Hour }},
		{name: "zero interval", mutate: func(c *Config) { c.Interval = 0 }},
		{name: "negative interval", mutate: func(c *Config) { c.Interval = -time.Second }},
		{name: "unknown location", mutate: func(c *Config) { c.Location = "gotham" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestGeneratorEmitsExactlyDurationOverInterval(t *testing.T) {
	g, err := New(validConfig())
	require.NoError(t, err)
	require.Equal(t, 60, g.Total())

	var count int
	for {
		_, err := g.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}

	assert.Equal(t, 60, count)
	assert.Equal(t, 60, g.Emitted())
}

func TestGeneratorTimestampsAdvanceByInterval(t *testing.T) {
	cfg := validConfig()
	g, err := New(cfg)
	require.NoError(t, err)

	prev := cfg.Start.Add(-cfg.Interval)
	for {
		group, err := g.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, cfg.Interval, group.Timestamp.Sub(prev))
		require.Len(t, group.Readings, 3)
		prev = group.Timestamp
	}
}

func TestGeneratorIsNotRestartable(t *testing.T) {
	cfg := validConfig()
	cfg.Duration = 2 * time.Minute
	g, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := g.Next()
		require.NoError(t, err)
	}

	// Exhausted; every subsequent call keeps returning io.EOF.
	for i := 0; i < 3; i++ {
		_, err := g.Next()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestGeneratorDeterministicForSeed(t *testing.T) {
	cfg := validConfig()
	cfg.NoiseLevel = 0.3
	cfg.Duration = 10 * time.Minute

	collect := func() []float64 {
		g, err := New(cfg)
		require.NoError(t, err)
		var values []float64
		for {
			group, err := g.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			values = append(values, group.Readings[domain.Temperature].Value)
		}
		return values
	}

	assert.Equal(t, collect(), collect())
}

func TestGeneratorDefaultsStartToClock(t *testing.T) {
	fixed := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	defer domain.SetClock(nil)

	cfg := validConfig()
	cfg.Start = time.Time{}
	g, err := New(cfg)
	require.NoError(t, err)

	group, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, fixed, group.Timestamp)
}
