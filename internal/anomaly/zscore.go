package anomaly

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

const (
	// DefaultWindowSize is the rolling-window length per sensor.
	DefaultWindowSize = 50
	// DefaultZThreshold is the |z| above which a reading alerts.
	DefaultZThreshold = 3.0
)

// ZScoreDetector flags readings that deviate statistically from each
// sensor's own recent history. It keeps an independent rolling window per
// sensor ID, created lazily on first sight, so one hot sensor never skews
// another's statistics.
//
// The incoming reading is scored against the window and only then admitted
// to it, so an outlier never dilutes the baseline it is judged by.
type ZScoreDetector struct {
	windowSize int
	threshold  float64
	windows    map[string]*rollingWindow
}

// NewZScoreDetector builds a detector with the given per-sensor window length
// and |z| alert threshold. Non-positive arguments fall back to the defaults.
func NewZScoreDetector(windowSize int, threshold float64) *ZScoreDetector {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	return &ZScoreDetector{
		windowSize: windowSize,
		threshold:  threshold,
		windows:    make(map[string]*rollingWindow),
	}
}

func (d *ZScoreDetector) Name() string { return "z_score" }

func (d *ZScoreDetector) Process(r domain.Reading) []domain.Alert {
	w, ok := d.windows[r.SensorID]
	if !ok {
		w = newRollingWindow(d.windowSize)
		d.windows[r.SensorID] = w
	}
	// Score first, admit after.
	defer w.Push(r.Value)

	// Warm-up: stay silent until the window is full.
	if w.Len() < d.windowSize {
		return nil
	}

	stdev := w.StdDev()
	if stdev == 0 {
		// Perfectly flat history carries no statistical signal.
		return nil
	}

	mean := w.Mean()
	z := (r.Value - mean) / stdev
	if math.Abs(z) < d.threshold {
		return nil
	}

	return []domain.Alert{{
		Timestamp:  r.Timestamp,
		SensorID:   r.SensorID,
		SensorType: r.SensorType,
		RuleName:   "z_score_" + formatThreshold(d.threshold),
		Severity:   zScoreSeverity(math.Abs(z)),
		Value:      r.Value,
		Threshold:  d.threshold,
		Message: fmt.Sprintf("value %.2f deviates %.1f standard deviations from rolling mean %.2f",
			r.Value, math.Abs(z), mean),
		Metadata: map[string]any{
			"z_score":     z,
			"mean":        mean,
			"std_dev":     stdev,
			"window_size": d.windowSize,
		},
	}}
}

// formatThreshold renders the threshold exactly as configured: 3.0 stays
// "3.0", 2.75 stays "2.75" rather than rounding to "2.8".
func formatThreshold(t float64) string {
	s := strconv.FormatFloat(t, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// zScoreSeverity grades by deviation magnitude. Values below 3 are only
// reachable when the detector threshold is configured under 3.
func zScoreSeverity(absZ float64) domain.Severity {
	switch {
	case absZ >= 5:
		return domain.SeverityCritical
	case absZ >= 4:
		return domain.SeverityHigh
	case absZ >= 3:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
