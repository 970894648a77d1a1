// Package model contains domain models passed between layers.
package model

import (
	"strconv"
)

// CSV column order for the clean artifact. Fixed; consumers key on it.
var Columns = []string{"timestamp", "engine_id", "chamber_pressure", "fuel_flow", "temperature"}

// Reading is one timestamped sensor sample for one engine.
//
// The three sensor fields are pointers so a nil value models sensor dropout:
// an absent field is omitted on the wire and emitted as an empty CSV cell,
// never reconstructed.
type Reading struct {
	Timestamp       string   `json:"timestamp"`
	EngineID        string   `json:"engine_id"`
	ChamberPressure *float64 `json:"chamber_pressure,omitempty"`
	FuelFlow        *float64 `json:"fuel_flow,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// Key identifies a reading for deduplication.
type Key struct {
	Timestamp string
	EngineID  string
}

// Key returns the reading's dedup identity.
func (r Reading) Key() Key {
	return Key{Timestamp: r.Timestamp, EngineID: r.EngineID}
}

// Clone returns a deep copy so injected duplicates never alias the
// original's sensor values.
func (r Reading) Clone() Reading {
	c := Reading{Timestamp: r.Timestamp, EngineID: r.EngineID}
	if r.ChamberPressure != nil {
		v := *r.ChamberPressure
		c.ChamberPressure = &v
	}
	if r.FuelFlow != nil {
		v := *r.FuelFlow
		c.FuelFlow = &v
	}
	if r.Temperature != nil {
		v := *r.Temperature
		c.Temperature = &v
	}
	return c
}

// CSVRow renders the reading in the fixed column order. Absent sensor
// values become empty cells.
func (r Reading) CSVRow() []string {
	return []string{
		r.Timestamp,
		r.EngineID,
		formatOptional(r.ChamberPressure),
		formatOptional(r.FuelFlow),
		formatOptional(r.Temperature),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// Float returns a pointer to v. Convenience for building readings.
func Float(v float64) *float64 {
	return &v
}
