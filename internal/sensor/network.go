package sensor

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// NetworkConfig assembles a co-located trio of sensors. Seed fixes the random
// stream: two networks built from identical configs produce identical output.
type NetworkConfig struct {
	Location               string
	NoiseLevel             float64
	DriftRate              float64
	CouplingStrength       float64
	MalfunctionProbability float64
	Seed                   uint64
}

// Network is one simulated station: a temperature, pressure, and humidity
// sensor sharing a single weather process and a single random stream. Not
// safe for concurrent use.
type Network struct {
	profile     Profile
	weather     WeatherState
	temperature *TemperatureSensor
	pressure    *PressureSensor
	humidity    *HumiditySensor
	rng         *rand.Rand
}

func NewNetwork(cfg NetworkConfig) (*Network, error) {
	profile, err := LookupProfile(cfg.Location)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	sc := Config{
		NoiseLevel:             cfg.NoiseLevel,
		DriftRate:              cfg.DriftRate,
		CouplingStrength:       cfg.CouplingStrength,
		MalfunctionProbability: cfg.MalfunctionProbability,
	}

	n := &Network{
		profile:     profile,
		temperature: NewTemperature(profile, sc, rng),
		pressure:    NewPressure(profile, sc, rng),
		humidity:    NewHumidity(profile, sc, rng),
		rng:         rng,
	}
	n.temperature.Activate()
	n.pressure.Activate()
	n.humidity.Activate()
	return n, nil
}

// Profile returns the network's resolved location profile.
func (n *Network) Profile() Profile { return n.profile }

// Sensors returns the network's sensors in canonical order.
func (n *Network) Sensors() []Sensor {
	return []Sensor{n.temperature, n.pressure, n.humidity}
}

// Temperature returns the network's temperature sensor, e.g. for calibration.
func (n *Network) Temperature() *TemperatureSensor { return n.temperature }

// Pressure returns the network's pressure sensor.
func (n *Network) Pressure() *PressureSensor { return n.pressure }

// Humidity returns the network's humidity sensor.
func (n *Network) Humidity() *HumiditySensor { return n.humidity }

// Tick advances the shared weather by one interval and reads all three
// sensors against the same snapshot. The temperature reading is fed to the
// humidity sensor first so its psychrometric coupling sees this tick's
// temperature, keeping the group physically consistent.
func (n *Network) Tick(ts time.Time, interval time.Duration) (domain.ReadingGroup, error) {
	n.weather.Step(n.rng, interval)
	wx := n.weather.Snapshot()

	tempR, err := n.temperature.Read(ts, wx)
	if err != nil {
		return domain.ReadingGroup{}, fmt.Errorf("temperature read: %w", err)
	}
	n.humidity.SetAmbientTemperature(tempR.Value)

	pressR, err := n.pressure.Read(ts, wx)
	if err != nil {
		return domain.ReadingGroup{}, fmt.Errorf("pressure read: %w", err)
	}

	humR, err := n.humidity.Read(ts, wx)
	if err != nil {
		return domain.ReadingGroup{}, fmt.Errorf("humidity read: %w", err)
	}

	return domain.ReadingGroup{
		Timestamp: ts,
		Readings: map[domain.SensorType]domain.Reading{
			domain.Temperature: tempR,
			domain.Pressure:    pressR,
			domain.Humidity:    humR,
		},
	}, nil
}
