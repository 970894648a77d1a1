// Package cleaner validates, repairs, and deduplicates raw telemetry records.
//
// Each record walks the stage chain parse -> required fields -> timestamp ->
// numeric cleaning -> accept. A failing stage drops the record and bumps the
// matching counter; a single bad record never aborts the run. Deduplication
// happens once at end of stream, first occurrence wins.
package cleaner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/plume/internal/adapters/stream"
	"github.com/okian/plume/internal/domain/dedupe"
	"github.com/okian/plume/internal/domain/model"
	"github.com/okian/plume/pkg/logger"
	"github.com/okian/plume/pkg/metrics"
)

// Cleaning rule thresholds.
const (
	absoluteZeroCelsius = -273.15
	extremeTemperature  = 6000.0
	fuelFlowMinimum     = 0.1
)

// Drop reasons as reported to metrics.
const (
	reasonMissingRequired = "missing_required"
	reasonBadTimestamp    = "bad_timestamp"
	reasonBadNumeric      = "bad_numeric"
	reasonImpossibleTemp  = "impossible_temperature"
)

// Accepted timestamp layouts. RFC 3339 first; the zone-less forms cover
// generators that emit naive ISO-8601 instants.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Processor runs one cleaning pass. Statistics are scoped to the run, not
// shared process state.
type Processor struct {
	deduper dedupe.Deduper
	log     logger.Logger
}

// Result is the outcome of one cleaning run: deduplicated records in original
// stream order plus the audit statistics.
type Result struct {
	Records []model.Reading
	Stats   Stats
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	if p.deduper == nil {
		p.deduper = dedupe.NewInMemoryDeduper()
	}
	if p.log == nil {
		p.log = logger.Get().Named("cleaner")
	}
	return p
}

// Run consumes src to end of stream and returns the clean table and stats.
// A cancelled context or a read error ends the pass early; the records seen
// so far still produce a consistent result.
func (p *Processor) Run(ctx context.Context, src *stream.Source) (Result, error) {
	var (
		stats    Stats
		accepted []model.Reading
	)

	for line := range src.Lines(ctx) {
		reading, ok := p.processLine(ctx, line, &stats)
		if !ok {
			continue
		}
		accepted = append(accepted, reading)
	}
	if err := src.Err(); err != nil {
		return Result{}, fmt.Errorf("cleaning pass failed: %w", err)
	}

	// Dedup barrier: all accepted records are materialized before the key
	// pass runs, and first-seen-wins follows original stream order.
	unique := make([]model.Reading, 0, len(accepted))
	for _, r := range accepted {
		if p.deduper.SeenAndRecord(ctx, r.Key()) {
			stats.Duplicates++
			metrics.RecordDuplicateRemoved()
			p.log.Warn(ctx, "duplicate record removed",
				logger.String("timestamp", r.Timestamp),
				logger.String("engine_id", r.EngineID))
			continue
		}
		unique = append(unique, r)
	}

	return Result{Records: unique, Stats: stats}, nil
}

// processLine runs one record through the stage chain. It returns the cleaned
// reading and whether the record survived.
func (p *Processor) processLine(ctx context.Context, line stream.Line, stats *Stats) (model.Reading, bool) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(line.Text))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		stats.ParseErrors++
		metrics.RecordParseError()
		p.log.Error(ctx, "record failed to parse",
			logger.Int("line", line.Number), logger.Error(err))
		return model.Reading{}, false
	}
	stats.Total++
	metrics.RecordRecordSeen()

	reading, err := p.cleanRecord(ctx, line.Number, raw, stats)
	if err != nil {
		stats.Dropped++
		return model.Reading{}, false
	}

	stats.Valid++
	metrics.RecordRecordValid()
	return reading, true
}

// cleanRecord validates required fields, the timestamp, and the numeric
// payload. It returns an error when the record must be dropped.
func (p *Processor) cleanRecord(ctx context.Context, lineNum int, raw map[string]any, stats *Stats) (model.Reading, error) {
	timestamp, tsOK := raw["timestamp"].(string)
	engineID, idOK := raw["engine_id"].(string)
	if !tsOK || !idOK {
		metrics.RecordRecordDropped(reasonMissingRequired)
		p.log.Warn(ctx, "record missing required fields",
			logger.Int("line", lineNum),
			logger.Any("has_timestamp", tsOK),
			logger.Any("has_engine_id", idOK))
		return model.Reading{}, ErrMissingField
	}

	if !validTimestamp(timestamp) {
		metrics.RecordRecordDropped(reasonBadTimestamp)
		p.log.Error(ctx, "invalid timestamp format",
			logger.Int("line", lineNum), logger.String("timestamp", timestamp))
		return model.Reading{}, ErrBadTimestamp
	}

	reading := model.Reading{Timestamp: timestamp, EngineID: engineID}
	corrected := false

	if value, present := raw["chamber_pressure"]; present {
		v, err := coerceNumber(value)
		if err != nil {
			return model.Reading{}, p.dropBadNumeric(ctx, lineNum, "chamber_pressure", value, err)
		}
		if v < 0 {
			p.log.Warn(ctx, "corrected negative pressure",
				logger.Int("line", lineNum), logger.Float64("from", v), logger.Float64("to", -v))
			v = -v
			corrected = true
		}
		reading.ChamberPressure = model.Float(v)
	}

	if value, present := raw["fuel_flow"]; present {
		v, err := coerceNumber(value)
		if err != nil {
			return model.Reading{}, p.dropBadNumeric(ctx, lineNum, "fuel_flow", value, err)
		}
		if v == 0 {
			// Zero flow is a sensor-rounding artifact, not a real reading.
			p.log.Warn(ctx, "corrected zero fuel flow",
				logger.Int("line", lineNum), logger.Float64("to", fuelFlowMinimum))
			v = fuelFlowMinimum
			corrected = true
		}
		reading.FuelFlow = model.Float(v)
	}

	if value, present := raw["temperature"]; present {
		v, err := coerceNumber(value)
		if err != nil {
			return model.Reading{}, p.dropBadNumeric(ctx, lineNum, "temperature", value, err)
		}
		switch {
		case v < absoluteZeroCelsius:
			// Cannot be sensor noise.
			metrics.RecordRecordDropped(reasonImpossibleTemp)
			p.log.Error(ctx, "temperature below absolute zero, dropping record",
				logger.Int("line", lineNum), logger.Float64("temperature", v))
			return model.Reading{}, ErrImpossibleValue
		case v > extremeTemperature:
			// Extreme but retained.
			p.log.Warn(ctx, "extremely high temperature detected",
				logger.Int("line", lineNum), logger.Float64("temperature", v))
		}
		reading.Temperature = model.Float(v)
	}

	if corrected {
		stats.Corrected++
		metrics.RecordRecordCorrected()
	}
	return reading, nil
}

func (p *Processor) dropBadNumeric(ctx context.Context, lineNum int, field string, value any, err error) error {
	metrics.RecordRecordDropped(reasonBadNumeric)
	p.log.Error(ctx, "invalid numeric value",
		logger.Int("line", lineNum),
		logger.String("field", field),
		logger.Any("value", value),
		logger.Error(err))
	return fmt.Errorf("%w: %s", ErrBadNumeric, field)
}

// validTimestamp reports whether s parses under any accepted layout.
func validTimestamp(s string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// coerceNumber converts a decoded JSON value to float64. Numbers and numeric
// strings are accepted; anything else is a bad numeric value.
func coerceNumber(value any) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBadNumeric, err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBadNumeric, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrBadNumeric, value)
	}
}
