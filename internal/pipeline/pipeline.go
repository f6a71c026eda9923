// Package pipeline orchestrates the generate-detect-write loop of a
// simulation run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
	"github.com/couchcryptid/enviro-sensor-sim/internal/observability"
)

// ReadingSource produces reading groups in timestamp order and returns io.EOF
// when the run is complete.
type ReadingSource interface {
	Next() (domain.ReadingGroup, error)
}

// AlertProcessor turns a reading group into zero or more alerts.
type AlertProcessor interface {
	ProcessGroup(g domain.ReadingGroup) []domain.Alert
}

// ReadingSink persists readings.
type ReadingSink interface {
	WriteReadings(ctx context.Context, readings []domain.Reading) error
}

// AlertSink publishes alerts.
type AlertSink interface {
	PublishAlerts(ctx context.Context, alerts []domain.Alert) error
}

// Options carries run-level settings.
type Options struct {
	RunID    string
	Location string
	// Interval is the simulated time per tick; with Realtime set the loop
	// also paces itself by this much wall time per tick.
	Interval time.Duration
	Realtime bool
}

// Status is a point-in-time view of a run for the status endpoint.
type Status struct {
	RunID            string                    `json:"run_id"`
	Location         string                    `json:"location"`
	Running          bool                      `json:"running"`
	Ticks            int64                     `json:"ticks"`
	Readings         int64                     `json:"readings"`
	Alerts           int64                     `json:"alerts"`
	AlertsBySeverity map[domain.Severity]int64 `json:"alerts_by_severity"`
}

// Pipeline drives one simulation run: pull a reading group, run detection,
// write readings, publish alerts, repeat until the source is exhausted or the
// context is cancelled.
type Pipeline struct {
	source    ReadingSource
	processor AlertProcessor
	readings  ReadingSink
	alerts    AlertSink // nil disables alert publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	ready   atomic.Bool
	running atomic.Bool
	ticks   atomic.Int64
	nReads  atomic.Int64
	nAlerts atomic.Int64

	mu         sync.Mutex
	bySeverity map[domain.Severity]int64
}

// New creates a Pipeline. alerts may be nil when no alert sink is configured.
func New(source ReadingSource, processor AlertProcessor, readings ReadingSink, alerts AlertSink,
	logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		source:     source,
		processor:  processor,
		readings:   readings,
		alerts:     alerts,
		logger:     logger,
		metrics:    metrics,
		opts:       opts,
		bySeverity: make(map[domain.Severity]int64),
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// tick, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed any ticks yet")
	}
	return nil
}

// Status reports current run progress.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	bySeverity := make(map[domain.Severity]int64, len(p.bySeverity))
	for sev, n := range p.bySeverity {
		bySeverity[sev] = n
	}
	p.mu.Unlock()

	return Status{
		RunID:            p.opts.RunID,
		Location:         p.opts.Location,
		Running:          p.running.Load(),
		Ticks:            p.ticks.Load(),
		Readings:         p.nReads.Load(),
		Alerts:           p.nAlerts.Load(),
		AlertsBySeverity: bySeverity,
	}
}

// Run executes the loop until the source returns io.EOF or the context is
// cancelled. Source errors are fatal; sink errors are retried with
// exponential backoff.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"run_id", p.opts.RunID,
		"location", p.opts.Location,
		"interval", p.opts.Interval,
		"realtime", p.opts.Realtime)
	p.metrics.PipelineRunning.Set(1)
	p.running.Store(true)
	defer func() {
		p.metrics.PipelineRunning.Set(0)
		p.running.Store(false)
	}()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		group, err := p.source.Next()
		if errors.Is(err, io.EOF) {
			p.logger.Info("run complete",
				"run_id", p.opts.RunID,
				"ticks", p.ticks.Load(),
				"readings", p.nReads.Load(),
				"alerts", p.nAlerts.Load())
			return nil
		}
		if err != nil {
			return fmt.Errorf("generate readings: %w", err)
		}

		if !p.processTick(ctx, group) {
			return nil
		}

		if p.opts.Realtime && !sleepWithContext(ctx, p.opts.Interval) {
			return nil
		}
	}
}

// processTick runs detection and writes one tick's output. Returns false if
// the pipeline should stop.
func (p *Pipeline) processTick(ctx context.Context, group domain.ReadingGroup) bool {
	start := time.Now()
	readings := group.Ordered()

	p.metrics.ReadingsGenerated.Add(float64(len(readings)))
	for _, r := range readings {
		p.metrics.ReadingQuality.Observe(r.Quality)
		if bad, ok := r.Metadata["malfunction"].(bool); ok && bad {
			p.metrics.Malfunctions.Inc()
		}
	}

	alerts := p.processor.ProcessGroup(group)
	for i := range alerts {
		a := &alerts[i]
		if p.opts.RunID != "" {
			// Copy before enriching so the detector's alert stays untouched.
			md := make(map[string]any, len(a.Metadata)+1)
			for k, v := range a.Metadata {
				md[k] = v
			}
			md["run_id"] = p.opts.RunID
			a.Metadata = md
		}
		p.metrics.AlertsRaised.WithLabelValues(a.RuleName, string(a.Severity)).Inc()
		p.logger.Warn("anomaly detected",
			"rule", a.RuleName,
			"severity", a.Severity,
			"sensor_id", a.SensorID,
			"value", a.Value)
	}

	if !p.writeWithRetry(ctx, "write readings", func(ctx context.Context) error {
		return p.readings.WriteReadings(ctx, readings)
	}) {
		return false
	}
	p.metrics.ReadingsWritten.Add(float64(len(readings)))

	if p.alerts != nil && len(alerts) > 0 {
		if !p.writeWithRetry(ctx, "publish alerts", func(ctx context.Context) error {
			return p.alerts.PublishAlerts(ctx, alerts)
		}) {
			return false
		}
		p.metrics.AlertsPublished.Add(float64(len(alerts)))
	}

	p.metrics.TickDuration.Observe(time.Since(start).Seconds())
	p.metrics.TicksTotal.Inc()
	p.ticks.Add(1)
	p.nReads.Add(int64(len(readings)))
	p.nAlerts.Add(int64(len(alerts)))
	if len(alerts) > 0 {
		p.mu.Lock()
		for _, a := range alerts {
			p.bySeverity[a.Severity]++
		}
		p.mu.Unlock()
	}
	p.ready.Store(true)
	return true
}

// writeWithRetry retries op with exponential backoff: start at 200ms, double
// each retry, cap at 5s. Returns false if the context was cancelled before op
// succeeded.
func (p *Pipeline) writeWithRetry(ctx context.Context, what string, op func(context.Context) error) bool {
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		err := op(ctx)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		p.logger.Error(what+" failed", "error", err, "retry_in", backoff)
		p.metrics.WriteErrors.Inc()

		if !sleepWithContext(ctx, backoff) {
			return false
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
