package domain

import "errors"

// Error kinds shared across the simulation and detection cores. Callers
// match with errors.Is; producers wrap with context (sensor ID, field name).
var (
	// ErrNotActivated is returned by Read on a sensor that has not been
	// activated, or has been deactivated. The call fails; no state changes.
	ErrNotActivated = errors.New("sensor not activated")

	// ErrInvalidCalibration is returned when a calibration argument is NaN or
	// infinite. The sensor's prior calibration is left untouched.
	ErrInvalidCalibration = errors.New("invalid calibration value")

	// ErrConfiguration is returned at construction time for invalid
	// parameters: non-positive duration or interval, unknown location names.
	// Construction never silently substitutes defaults.
	ErrConfiguration = errors.New("invalid configuration")
)
