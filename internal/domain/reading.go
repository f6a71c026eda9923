package domain

import (
	"strings"
	"time"
)

// SensorType identifies the physical quantity a sensor measures.
type SensorType string

const (
	Temperature SensorType = "temperature"
	Pressure    SensorType = "pressure"
	Humidity    SensorType = "humidity"
)

// SensorTypes lists all types in the canonical read order of a network tick.
// Temperature first: humidity coupling depends on the same-tick temperature.
var SensorTypes = []SensorType{Temperature, Pressure, Humidity}

// Valid reports whether t is a known sensor type.
func (t SensorType) Valid() bool {
	switch t {
	case Temperature, Pressure, Humidity:
		return true
	}
	return false
}

// Abbrev returns the sensor ID prefix for this type.
func (t SensorType) Abbrev() string {
	if t == Temperature {
		return "temp"
	}
	return string(t)
}

// Unit returns the measurement unit for this type.
func (t SensorType) Unit() string {
	switch t {
	case Temperature:
		return "°C"
	case Pressure:
		return "hPa"
	case Humidity:
		return "%RH"
	}
	return ""
}

// SensorID derives the canonical sensor identifier from a location name:
// lowercase, internal whitespace replaced with underscores, prefixed with the
// type abbreviation. "Alice Springs" + temperature -> "temp_alice_springs".
func SensorID(t SensorType, location string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(location)), "_")
	if slug == "" {
		return t.Abbrev()
	}
	return t.Abbrev() + "_" + slug
}

// Reading is a single immutable sensor measurement.
type Reading struct {
	Value      float64        `json:"value"`
	Timestamp  time.Time      `json:"timestamp"`
	SensorID   string         `json:"sensor_id"`
	SensorType SensorType     `json:"sensor_type"`
	Quality    float64        `json:"quality"` // 0.0 = bad, 1.0 = perfect
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ReadingGroup is one tick's worth of readings across a sensor network,
// all sharing the same timestamp.
type ReadingGroup struct {
	Timestamp time.Time
	Readings  map[SensorType]Reading
}

// Ordered returns the group's readings in the canonical sensor-type order.
// Missing types are skipped.
func (g ReadingGroup) Ordered() []Reading {
	out := make([]Reading, 0, len(g.Readings))
	for _, t := range SensorTypes {
		if r, ok := g.Readings[t]; ok {
			out = append(out, r)
		}
	}
	return out
}
