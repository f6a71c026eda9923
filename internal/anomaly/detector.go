// Package anomaly detects unusual readings in a sensor stream. Two detector
// kinds ship here: fixed physical-threshold rules and a per-sensor rolling
// z-score, composed by a Manager that fans each reading out to every
// registered detector.
package anomaly

import "github.com/couchcryptid/enviro-sensor-sim/internal/domain"

// Detector examines one reading at a time and returns the alerts it raises
// for that reading, possibly none. Detectors may keep per-sensor state; they
// are not required to be safe for concurrent use.
type Detector interface {
	Name() string
	Process(r domain.Reading) []domain.Alert
}
