package domain

import "time"

// Severity grades an alert. Values serialize lowercase on the wire.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists all severities from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Alert is an immutable anomaly record produced by a detector.
type Alert struct {
	Timestamp  time.Time      `json:"timestamp"`
	SensorID   string         `json:"sensor_id"`
	SensorType SensorType     `json:"sensor_type"`
	RuleName   string         `json:"rule_name"`
	Severity   Severity       `json:"severity"`
	Value      float64        `json:"value"`
	Threshold  float64        `json:"threshold"`
	Message    string         `json:"message"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
