package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensorID(t *testing.T) {
	tests := []struct {
		name       string
		sensorType SensorType
		location   string
		expected   string
	}{
		{"temperature with space", Temperature, "Alice Springs", "temp_alice_springs"},
		{"temperature single word", Temperature, "Sydney", "temp_sydney"},
		{"pressure", Pressure, "Canberra", "pressure_canberra"},
		{"humidity", Humidity, "Darwin", "humidity_darwin"},
		{"mixed case", Temperature, "ALICE springs", "temp_alice_springs"},
		{"extra internal whitespace", Humidity, "Alice   Springs", "humidity_alice_springs"},
		{"leading and trailing whitespace", Pressure, "  Hobart  ", "pressure_hobart"},
		{"empty location", Temperature, "", "temp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SensorID(tt.sensorType, tt.location))
		})
	}
}

func TestSensorTypeAbbrev(t *testing.T) {
	assert.Equal(t, "temp", Temperature.Abbrev())
	assert.Equal(t, "pressure", Pressure.Abbrev())
	assert.Equal(t, "humidity", Humidity.Abbrev())
}

func TestSensorTypeValid(t *testing.T) {
	assert.True(t, Temperature.Valid())
	assert.True(t, Pressure.Valid())
	assert.True(t, Humidity.Valid())
	assert.False(t, SensorType("wind").Valid())
	assert.False(t, SensorType("").Valid())
}

func TestReadingWireFormat(t *testing.T) {
	r := Reading{
		Value:      21.4,
		Timestamp:  time.Date(2025, 8, 12, 6, 30, 0, 0, time.UTC),
		SensorID:   "temp_sydney",
		SensorType: Temperature,
		Quality:    0.95,
		Metadata:   map[string]any{"location": "Sydney", "noise_level": 0.01},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"timestamp":"2025-08-12T06:30:00Z"`)
	assert.Contains(t, string(data), `"sensor_type":"temperature"`)

	var back Reading
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.Value, back.Value)
	assert.Equal(t, r.SensorID, back.SensorID)
	assert.Equal(t, "Sydney", back.Metadata["location"])
}

func TestAlertWireFormat(t *testing.T) {
	a := Alert{
		Timestamp:  time.Date(2025, 8, 12, 6, 30, 0, 0, time.UTC),
		SensorID:   "humidity_darwin",
		SensorType: Humidity,
		RuleName:   "humidity_high_malfunction",
		Severity:   SeverityCritical,
		Value:      103.2,
		Threshold:  100.0,
		Message:    "humidity above 100%",
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"critical"`)
	assert.Contains(t, string(data), `"rule_name":"humidity_high_malfunction"`)
}

func TestReadingGroupOrdered(t *testing.T) {
	ts := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	g := ReadingGroup{
		Timestamp: ts,
		Readings: map[SensorType]Reading{
			Humidity:    {SensorType: Humidity, Timestamp: ts},
			Temperature: {SensorType: Temperature, Timestamp: ts},
			Pressure:    {SensorType: Pressure, Timestamp: ts},
		},
	}

	ordered := g.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, Temperature, ordered[0].SensorType)
	assert.Equal(t, Pressure, ordered[1].SensorType)
	assert.Equal(t, Humidity, ordered[2].SensorType)
}
