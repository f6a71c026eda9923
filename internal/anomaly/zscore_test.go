package anomaly

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// feed pushes values through the detector in order and returns all alerts.
func feed(d *ZScoreDetector, sensorID string, values []float64) []domain.Alert {
	var alerts []domain.Alert
	for _, v := range values {
		r := reading(domain.Temperature, v)
		r.SensorID = sensorID
		alerts = append(alerts, d.Process(r)...)
	}
	return alerts
}

// wobble fills n samples alternating around base so the window has nonzero
// variance without tripping the detector.
func wobble(base float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = base + 0.5
		} else {
			out[i] = base - 0.5
		}
	}
	return out
}

func TestZScoreSilentDuringWarmup(t *testing.T) {
	d := NewZScoreDetector(10, 3.0)

	alerts := feed(d, "temp_sydney", wobble(20, 10))
	assert.Empty(t, alerts, "no alerts until a full window of history exists")

	// The first sample judged against a full window can alert.
	alerts = feed(d, "temp_sydney", []float64{500.0})
	assert.NotEmpty(t, alerts)
}

func TestZScoreSilentOnZeroVariance(t *testing.T) {
	d := NewZScoreDetector(5, 3.0)

	constant := []float64{20, 20, 20, 20, 20, 20, 20}
	alerts := feed(d, "temp_sydney", constant)
	assert.Empty(t, alerts, "flat history has no statistical signal")
}

func TestZScoreFlagsOutlier(t *testing.T) {
	d := NewZScoreDetector(50, 3.0)

	alerts := feed(d, "temp_sydney", append(wobble(20, 50), 80.0))
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, "z_score_3.0", a.RuleName)
	assert.Equal(t, 80.0, a.Value)
	assert.Equal(t, 3.0, a.Threshold)
	assert.Equal(t, domain.SeverityCritical, a.Severity, "an 80-over-baseline jump is many sigmas out")

	z, ok := a.Metadata["z_score"].(float64)
	require.True(t, ok)
	assert.Greater(t, z, 5.0)
}

func TestZScoreSignPreservedInMetadata(t *testing.T) {
	d := NewZScoreDetector(50, 3.0)

	alerts := feed(d, "temp_sydney", append(wobble(20, 50), -60.0))
	require.Len(t, alerts, 1)

	z := alerts[0].Metadata["z_score"].(float64)
	assert.Less(t, z, -5.0, "below-mean outliers keep a negative z in metadata")
}

// TestZScoreGradesPressureDrop walks a sudden 80 hPa drop against ten
// established baseline samples: exactly one alert, graded purely by how many
// baseline standard deviations the drop spans.
func TestZScoreGradesPressureDrop(t *testing.T) {
	tests := []struct {
		name      string
		amplitude float64 // baseline wobble half-width in hPa
		want      domain.Severity
	}{
		{name: "tight baseline", amplitude: 5, want: domain.SeverityCritical},
		{name: "moderate baseline", amplitude: 17, want: domain.SeverityHigh},
		{name: "loose baseline", amplitude: 22, want: domain.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewZScoreDetector(10, 3.0)

			baseline := make([]float64, 10)
			for i := range baseline {
				if i%2 == 0 {
					baseline[i] = 1013 + tt.amplitude
				} else {
					baseline[i] = 1013 - tt.amplitude
				}
			}

			var alerts []domain.Alert
			for _, v := range append(baseline, 1013-80) {
				alerts = append(alerts, d.Process(reading(domain.Pressure, v))...)
			}

			require.Len(t, alerts, 1, "one drop, one alert")
			a := alerts[0]
			assert.Equal(t, "z_score_3.0", a.RuleName)
			assert.Equal(t, tt.want, a.Severity)
			assert.Equal(t, 933.0, a.Value)

			z := a.Metadata["z_score"].(float64)
			assert.Less(t, z, -3.0)
		})
	}
}

func TestZScoreWindowsArePerSensor(t *testing.T) {
	d := NewZScoreDetector(10, 3.0)

	// Fill sensor A's window; sensor B stays empty.
	feed(d, "temp_sydney", wobble(20, 10))

	// B's first sample is far from A's mean but must not alert: B has its own
	// (still warming) window.
	alerts := feed(d, "temp_darwin", []float64{500.0})
	assert.Empty(t, alerts)
}

func TestZScoreWindowEvictsOldest(t *testing.T) {
	d := NewZScoreDetector(4, 3.0)

	// After enough new-regime samples the old regime ages out entirely and a
	// new-regime value is unremarkable.
	values := append(wobble(0, 4), wobble(100, 8)...)
	_ = feed(d, "temp_sydney", values)

	alerts := feed(d, "temp_sydney", []float64{100.0})
	assert.Empty(t, alerts, "window now contains only the new regime")
}

func TestZScoreSeverityBands(t *testing.T) {
	tests := []struct {
		absZ float64
		want domain.Severity
	}{
		{absZ: 2.5, want: domain.SeverityLow},
		{absZ: 3.0, want: domain.SeverityMedium},
		{absZ: 3.9, want: domain.SeverityMedium},
		{absZ: 4.0, want: domain.SeverityHigh},
		{absZ: 4.9, want: domain.SeverityHigh},
		{absZ: 5.0, want: domain.SeverityCritical},
		{absZ: 12.0, want: domain.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("z=%.1f", tt.absZ), func(t *testing.T) {
			assert.Equal(t, tt.want, zScoreSeverity(tt.absZ))
		})
	}
}

func TestZScoreRuleNameKeepsThresholdPrecision(t *testing.T) {
	tests := []struct {
		threshold float64
		want      string
	}{
		{threshold: 3.0, want: "3.0"},
		{threshold: 2.75, want: "2.75"},
		{threshold: 4, want: "4.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatThreshold(tt.threshold))
		})
	}
}

func TestZScoreDefaultsApplied(t *testing.T) {
	d := NewZScoreDetector(0, 0)
	assert.Equal(t, DefaultWindowSize, d.windowSize)
	assert.Equal(t, DefaultZThreshold, d.threshold)
}
