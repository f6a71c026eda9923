// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/anomaly"
	"github.com/couchcryptid/enviro-sensor-sim/internal/sensor"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Simulation parameters.
	Location               string
	Duration               time.Duration
	Interval               time.Duration
	Seed                   uint64
	NoiseLevel             float64
	DriftRate              float64
	CouplingStrength       float64
	MalfunctionProbability float64

	// Detection parameters.
	WindowSize int
	ZThreshold float64

	// Realtime paces the run at one tick per interval of wall time instead
	// of producing everything as fast as possible.
	Realtime bool

	// Output destinations. Empty paths mean stdout for readings and no file
	// for alerts.
	ReadingsPath string
	AlertsPath   string

	// Kafka alert publishing, disabled unless KAFKA_ENABLED is true.
	KafkaBrokers    []string
	KafkaAlertTopic string
	KafkaEnabled    bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	duration, err := envDuration("DURATION", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	interval, err := envDuration("INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	seed, err := envUint("SEED", 0)
	if err != nil {
		return nil, err
	}
	windowSize, err := envInt("WINDOW_SIZE", anomaly.DefaultWindowSize)
	if err != nil {
		return nil, err
	}

	noise, err := envFloat("NOISE_LEVEL", 0.05)
	if err != nil {
		return nil, err
	}
	drift, err := envFloat("DRIFT_RATE", 0.0)
	if err != nil {
		return nil, err
	}
	coupling, err := envFloat("COUPLING_STRENGTH", 0.5)
	if err != nil {
		return nil, err
	}
	malfunction, err := envFloat("MALFUNCTION_PROBABILITY", 0.0)
	if err != nil {
		return nil, err
	}
	zThreshold, err := envFloat("Z_THRESHOLD", anomaly.DefaultZThreshold)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Location:               envOrDefault("LOCATION", "Sydney"),
		Duration:               duration,
		Interval:               interval,
		Seed:                   seed,
		NoiseLevel:             noise,
		DriftRate:              drift,
		CouplingStrength:       coupling,
		MalfunctionProbability: malfunction,

		WindowSize: windowSize,
		ZThreshold: zThreshold,

		Realtime: os.Getenv("REALTIME") == "true",

		ReadingsPath: os.Getenv("READINGS_PATH"),
		AlertsPath:   os.Getenv("ALERTS_PATH"),

		KafkaBrokers:    splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "sensor-alerts"),
		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if _, err := sensor.LookupProfile(cfg.Location); err != nil {
		return nil, fmt.Errorf("LOCATION: %w", err)
	}
	if cfg.WindowSize < 2 {
		return nil, errors.New("WINDOW_SIZE must be at least 2")
	}
	if cfg.ZThreshold <= 0 {
		return nil, errors.New("Z_THRESHOLD must be positive")
	}
	if cfg.NoiseLevel < 0 || cfg.NoiseLevel > 1 {
		return nil, errors.New("NOISE_LEVEL must be in [0, 1]")
	}
	if cfg.MalfunctionProbability < 0 || cfg.MalfunctionProbability > 1 {
		return nil, errors.New("MALFUNCTION_PROBABILITY must be in [0, 1]")
	}
	if cfg.CouplingStrength < 0 || cfg.CouplingStrength > 1 {
		return nil, errors.New("COUPLING_STRENGTH must be in [0, 1]")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, s)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	return n, nil
}

func envUint(key string, def uint64) (uint64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, s)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, s)
	}
	return f, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
