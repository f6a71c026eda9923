// Package sim drives a sensor network through a finite simulated time span,
// producing one reading group per interval.
package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
	"github.com/couchcryptid/enviro-sensor-sim/internal/sensor"
)

// Config describes one simulation run. Duration and Interval are required
// and must both be positive; Start defaults to the current clock time.
type Config struct {
	Location               string
	Duration               time.Duration
	Interval               time.Duration
	Start                  time.Time
	NoiseLevel             float64
	DriftRate              float64
	CouplingStrength       float64
	MalfunctionProbability float64
	Seed                   uint64
}

// Generator emits the reading groups of one finite simulation run in
// timestamp order. It is forward-only: once Next returns io.EOF the run is
// over and the generator cannot be restarted.
type Generator struct {
	network  *sensor.Network
	interval time.Duration
	next     time.Time
	emitted  int
	total    int
}

// New validates cfg and builds the generator. A non-positive duration or
// interval, or an unknown location, fails with domain.ErrConfiguration.
func New(cfg Config) (*Generator, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %v", domain.ErrConfiguration, cfg.Duration)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %v", domain.ErrConfiguration, cfg.Interval)
	}

	network, err := sensor.NewNetwork(sensor.NetworkConfig{
		Location:               cfg.Location,
		NoiseLevel:             cfg.NoiseLevel,
		DriftRate:              cfg.DriftRate,
		CouplingStrength:       cfg.CouplingStrength,
		MalfunctionProbability: cfg.MalfunctionProbability,
		Seed:                   cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	start := cfg.Start
	if start.IsZero() {
		start = domain.Now()
	}

	return &Generator{
		network:  network,
		interval: cfg.Interval,
		next:     start,
		total:    int(cfg.Duration / cfg.Interval),
	}, nil
}

// Next returns the next reading group. After the final tick it returns
// io.EOF on every call.
func (g *Generator) Next() (domain.ReadingGroup, error) {
	if g.emitted >= g.total {
		return domain.ReadingGroup{}, io.EOF
	}

	group, err := g.network.Tick(g.next, g.interval)
	if err != nil {
		return domain.ReadingGroup{}, err
	}

	g.next = g.next.Add(g.interval)
	g.emitted++
	return group, nil
}

// Total returns the number of ticks this run will emit.
func (g *Generator) Total() int { return g.total }

// Emitted returns how many ticks have been produced so far.
func (g *Generator) Emitted() int { return g.emitted }

// Interval returns the simulated time between consecutive groups.
func (g *Generator) Interval() time.Duration { return g.interval }

// Network exposes the underlying sensor network, e.g. for calibration before
// the run starts.
func (g *Generator) Network() *sensor.Network { return g.network }
