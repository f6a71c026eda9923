package anomaly

import (
	"fmt"

	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

// Rule is a fixed physical-threshold check against a single sensor type.
type Rule struct {
	Name       string
	SensorType domain.SensorType
	Severity   domain.Severity
	Threshold  float64
	// Below fires when the value drops under Threshold; otherwise the rule
	// fires when the value exceeds it.
	Below   bool
	Message string
}

// Matches reports whether the reading trips this rule.
func (ru Rule) Matches(r domain.Reading) bool {
	if r.SensorType != ru.SensorType {
		return false
	}
	if ru.Below {
		return r.Value < ru.Threshold
	}
	return r.Value > ru.Threshold
}

// DefaultRules is the standard physical-plausibility rule set. Humidity
// outside [0, 100] is physically impossible, so those grade critical as a
// sensor-malfunction signal.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "frost", SensorType: domain.Temperature, Severity: domain.SeverityHigh, Threshold: -5.0, Below: true, Message: "temperature below frost threshold"},
		{Name: "heat", SensorType: domain.Temperature, Severity: domain.SeverityMedium, Threshold: 30.0, Message: "temperature above heat threshold"},
		{Name: "extreme_heat", SensorType: domain.Temperature, Severity: domain.SeverityHigh, Threshold: 35.0, Message: "temperature above extreme heat threshold"},
		{Name: "pressure_very_low", SensorType: domain.Pressure, Severity: domain.SeverityMedium, Threshold: 950.0, Below: true, Message: "pressure below storm-system threshold"},
		{Name: "pressure_very_high", SensorType: domain.Pressure, Severity: domain.SeverityMedium, Threshold: 1050.0, Message: "pressure above strong-high threshold"},
		{Name: "humidity_low_malfunction", SensorType: domain.Humidity, Severity: domain.SeverityCritical, Threshold: 0.0, Below: true, Message: "humidity below physical range, probable sensor malfunction"},
		{Name: "humidity_high_malfunction", SensorType: domain.Humidity, Severity: domain.SeverityCritical, Threshold: 100.0, Message: "humidity above physical range, probable sensor malfunction"},
	}
}

// RuleDetector applies a fixed rule set to each reading. Every matching rule
// produces its own alert; rules never short-circuit each other, so a 36°C
// reading raises both heat and extreme_heat.
type RuleDetector struct {
	rules []Rule
}

// NewRuleDetector builds a detector over the given rules. Pass DefaultRules()
// for the standard set.
func NewRuleDetector(rules []Rule) *RuleDetector {
	return &RuleDetector{rules: rules}
}

func (d *RuleDetector) Name() string { return "rules" }

func (d *RuleDetector) Process(r domain.Reading) []domain.Alert {
	var alerts []domain.Alert
	for _, ru := range d.rules {
		if !ru.Matches(r) {
			continue
		}
		alerts = append(alerts, domain.Alert{
			Timestamp:  r.Timestamp,
			SensorID:   r.SensorID,
			SensorType: r.SensorType,
			RuleName:   ru.Name,
			Severity:   ru.Severity,
			Value:      r.Value,
			Threshold:  ru.Threshold,
			Message:    fmt.Sprintf("%s: %.2f%s", ru.Message, r.Value, r.SensorType.Unit()),
		})
	}
	return alerts
}
