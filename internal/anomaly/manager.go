package anomaly

import (
	"log/slog"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// Manager fans each reading out to every registered detector and
// concatenates the alerts in registration order. A panicking detector is
// isolated: its alerts for that reading are dropped, the panic is logged,
// and the remaining detectors still run.
type Manager struct {
	detectors []Detector
	logger    *slog.Logger
	onFailure func(detector string)
}

func NewManager(logger *slog.Logger, detectors ...Detector) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{detectors: detectors, logger: logger}
}

// SetFailureHook installs a callback invoked with the detector name whenever
// a detector panic is recovered. Used to feed failure metrics.
func (m *Manager) SetFailureHook(fn func(detector string)) {
	m.onFailure = fn
}

// Register appends a detector. Detectors run in registration order.
func (m *Manager) Register(d Detector) {
	m.detectors = append(m.detectors, d)
}

// Detectors returns the registered detector names in run order.
func (m *Manager) Detectors() []string {
	names := make([]string, len(m.detectors))
	for i, d := range m.detectors {
		names[i] = d.Name()
	}
	return names
}

// Process runs every detector against the reading and returns all alerts.
func (m *Manager) Process(r domain.Reading) []domain.Alert {
	var alerts []domain.Alert
	for _, d := range m.detectors {
		alerts = append(alerts, m.runOne(d, r)...)
	}
	return alerts
}

// ProcessGroup processes a tick's readings in canonical sensor order.
func (m *Manager) ProcessGroup(g domain.ReadingGroup) []domain.Alert {
	var alerts []domain.Alert
	for _, r := range g.Ordered() {
		alerts = append(alerts, m.Process(r)...)
	}
	return alerts
}

func (m *Manager) runOne(d Detector, r domain.Reading) (alerts []domain.Alert) {
	defer func() {
		if rec := recover(); rec != nil {
			alerts = nil
			m.logger.Error("detector panicked, skipping its output for this reading",
				"detector", d.Name(),
				"sensor_id", r.SensorID,
				"panic", rec)
			if m.onFailure != nil {
				m.onFailure(d.Name())
			}
		}
	}()
	return d.Process(r)
}
