// Command simd runs the environmental sensor simulator as a service: it
// generates a finite stream of readings for one location, runs anomaly
// detection over the stream, writes readings as NDJSON, optionally publishes
// alerts to Kafka or a file, and serves health/metrics endpoints while the
// run is in progress.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	httpadapter "github.com/couchcryptid/enviro-sensor-sim/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/enviro-sensor-sim/internal/adapter/kafka"
	"github.com/couchcryptid/enviro-sensor-sim/internal/adapter/ndjson"
	"github.com/couchcryptid/enviro-sensor-sim/internal/anomaly"
	"github.com/couchcryptid/enviro-sensor-sim/internal/config"
	"github.com/couchcryptid/enviro-sensor-sim/internal/observability"
	"github.com/couchcryptid/enviro-sensor-sim/internal/pipeline"
	"github.com/couchcryptid/enviro-sensor-sim/internal/sim"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	runID := uuid.NewString()

	generator, err := sim.New(sim.Config{
		Location:               cfg.Location,
		Duration:               cfg.Duration,
		Interval:               cfg.Interval,
		Seed:                   cfg.Seed,
		NoiseLevel:             cfg.NoiseLevel,
		DriftRate:              cfg.DriftRate,
		CouplingStrength:       cfg.CouplingStrength,
		MalfunctionProbability: cfg.MalfunctionProbability,
	})
	if err != nil {
		logger.Error("failed to build generator", "error", err)
		os.Exit(1)
	}

	manager := anomaly.NewManager(logger,
		anomaly.NewRuleDetector(anomaly.DefaultRules()),
		anomaly.NewZScoreDetector(cfg.WindowSize, cfg.ZThreshold),
	)
	manager.SetFailureHook(func(detector string) {
		metrics.DetectorFailures.WithLabelValues(detector).Inc()
	})

	readingSink, closeReadings, err := openReadingSink(cfg)
	if err != nil {
		logger.Error("failed to open reading sink", "error", err)
		os.Exit(1)
	}

	alertSink, closeAlerts, err := openAlertSink(cfg, runID, logger)
	if err != nil {
		logger.Error("failed to open alert sink", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(generator, manager, readingSink, alertSink, logger, metrics, pipeline.Options{
		RunID:    runID,
		Location: cfg.Location,
		Interval: cfg.Interval,
		Realtime: cfg.Realtime,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- p.Run(ctx)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down on signal")
	case err := <-runErr:
		if err != nil {
			logger.Error("pipeline error", "error", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := closeReadings(); err != nil {
		logger.Error("reading sink close error", "error", err)
	}
	if closeAlerts != nil {
		if err := closeAlerts(); err != nil {
			logger.Error("alert sink close error", "error", err)
		}
	}

	logger.Info("shutdown complete", "run_id", runID)
	os.Exit(exitCode)
}

// openReadingSink writes readings to READINGS_PATH, or stdout when unset.
func openReadingSink(cfg *config.Config) (pipeline.ReadingSink, func() error, error) {
	if cfg.ReadingsPath == "" {
		w := ndjson.NewWriter(os.Stdout)
		return w, w.Close, nil
	}
	w, err := ndjson.OpenFile(cfg.ReadingsPath)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Close, nil
}

// openAlertSink prefers Kafka when enabled, falls back to ALERTS_PATH, and
// returns a nil sink when neither is configured.
func openAlertSink(cfg *config.Config, runID string, logger *slog.Logger) (pipeline.AlertSink, func() error, error) {
	if cfg.KafkaEnabled {
		pub := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, runID, logger)
		logger.Info("kafka alert publishing enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
		return pub, pub.Close, nil
	}
	if cfg.AlertsPath != "" {
		w, err := ndjson.OpenFile(cfg.AlertsPath)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Close, nil
	}
	return nil, nil, nil
}
