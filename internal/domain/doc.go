// Package domain models synthetic environmental sensor data and the alerts
// raised against it.
//
// # Readings
//
// A Reading is one measurement from one simulated sensor: temperature (°C),
// atmospheric pressure (hPa), or relative humidity (%RH). Readings carry a
// quality factor in [0, 1] (1.0 = perfect, 0.0 = unusable) and a metadata map
// recording how the value was composed (base physical value, accumulated
// drift, calibration offset, noise level, location). Readings are immutable
// once produced.
//
// # Sensor IDs
//
// Sensor identifiers are always derived, never supplied: the location name is
// lowercased, internal whitespace collapses to underscores, and the sensor
// type abbreviation is prefixed. "Alice Springs" + temperature yields
// "temp_alice_springs". See [SensorID].
//
// # Alerts
//
// An Alert is an immutable record produced by an anomaly detector. Severity
// is one of low, medium, high, critical and is a pure function of the
// triggering rule and magnitude — no detector state influences grading.
//
// # Wire format
//
// Both records serialize as newline-delimited JSON (one object per line) with
// RFC 3339 timestamps, matching the persistence and reporting consumers
// downstream of this core.
package domain
