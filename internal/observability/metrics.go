package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation pipeline.
type Metrics struct {
	ReadingsGenerated prometheus.Counter
	ReadingsWritten   prometheus.Counter
	Malfunctions      prometheus.Counter
	WriteErrors       prometheus.Counter
	TicksTotal        prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Detection metrics.
	AlertsRaised     *prometheus.CounterVec // labels: rule, severity
	AlertsPublished  prometheus.Counter
	DetectorFailures *prometheus.CounterVec // labels: detector

	// Tick processing metrics.
	TickDuration   prometheus.Histogram
	ReadingQuality prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReadingsGenerated,
		m.ReadingsWritten,
		m.Malfunctions,
		m.WriteErrors,
		m.TicksTotal,
		m.PipelineRunning,
		m.AlertsRaised,
		m.AlertsPublished,
		m.DetectorFailures,
		m.TickDuration,
		m.ReadingQuality,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReadingsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "readings_generated_total",
			Help:      "Total sensor readings produced by the generator.",
		}),
		ReadingsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "readings_written_total",
			Help:      "Total readings written to the reading sink.",
		}),
		Malfunctions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "malfunctions_total",
			Help:      "Total readings produced by a simulated sensor malfunction.",
		}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "write_errors_total",
			Help:      "Total sink write failures.",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "ticks_total",
			Help:      "Total completed generate-detect-write ticks.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "enviro_sim",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		AlertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "alerts_raised_total",
			Help:      "Anomaly alerts raised by rule and severity.",
		}, []string{"rule", "severity"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "alerts_published_total",
			Help:      "Total alerts written to the alert sink.",
		}),
		DetectorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_sim",
			Name:      "detector_failures_total",
			Help:      "Detector panics recovered by the alert manager.",
		}, []string{"detector"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "enviro_sim",
			Name:      "tick_duration_seconds",
			Help:      "Duration of a complete generate-detect-write tick.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ReadingQuality: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "enviro_sim",
			Name:      "reading_quality",
			Help:      "Quality score distribution of generated readings.",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1},
		}),
	}
}
