package generator

import (
	"github.com/okian/plume/internal/domain/model"
	"github.com/okian/plume/internal/domain/profile"
	"github.com/okian/plume/pkg/metrics"
)

// Anomaly kinds as reported to metrics.
const (
	kindCriticalFailure = "critical_failure"
	kindMissingFields   = "missing_fields"
	kindOutOfRange      = "out_of_range"
)

// Critical failure modes.
const (
	failureFuelSystem = iota
	failurePressureSpike
	failureThermalRunaway
	failureCombustionInstability
	failureModeCount
)

// injectAnomalies runs the per-reading Bernoulli trials. The first trial that
// fires wins and the rest are skipped, so at most one anomaly kind lands on a
// reading. Injectors return a new reading rather than mutating the input.
func (g *Generator) injectAnomalies(r model.Reading, engine profile.EngineProfile) model.Reading {
	if g.rng.Float64() < engine.FailureRate*g.rates.CriticalFailure {
		metrics.RecordAnomalyInjected(kindCriticalFailure)
		return g.injectCriticalFailure(r)
	}

	if g.rng.Float64() < g.rates.MissingFields {
		metrics.RecordAnomalyInjected(kindMissingFields)
		return g.injectMissingFields(r)
	}

	if g.rng.Float64() < g.rates.OutOfRange {
		metrics.RecordAnomalyInjected(kindOutOfRange)
		return g.injectOutOfRange(r)
	}

	return r
}

// injectCriticalFailure overwrites one quantity with a domain-breaking value.
func (g *Generator) injectCriticalFailure(r model.Reading) model.Reading {
	out := r.Clone()
	switch g.rng.Intn(failureModeCount) {
	case failureFuelSystem:
		// Fuel pump failure.
		out.FuelFlow = model.Float(0)
	case failurePressureSpike:
		// Dangerous overpressure.
		out.ChamberPressure = model.Float(uniform(g.rng, 400, 600))
	case failureThermalRunaway:
		out.Temperature = model.Float(uniform(g.rng, 5000, 8000))
	case failureCombustionInstability:
		out.ChamberPressure = model.Float(uniform(g.rng, -50, 50))
	}
	return out
}

// injectMissingFields removes 1-2 of the three sensor fields, simulating
// sensor dropout.
func (g *Generator) injectMissingFields(r model.Reading) model.Reading {
	out := r.Clone()
	count := 1 + g.rng.Intn(2)
	for _, idx := range g.rng.Perm(3)[:count] {
		switch idx {
		case 0:
			out.ChamberPressure = nil
		case 1:
			out.FuelFlow = nil
		case 2:
			out.Temperature = nil
		}
	}
	return out
}

// injectOutOfRange overwrites one sensor field with a physically impossible
// value.
func (g *Generator) injectOutOfRange(r model.Reading) model.Reading {
	out := r.Clone()
	switch g.rng.Intn(3) {
	case 0:
		if g.rng.Intn(2) == 0 {
			out.ChamberPressure = model.Float(uniform(g.rng, -100, -10))
		} else {
			out.ChamberPressure = model.Float(uniform(g.rng, 500, 1000))
		}
	case 1:
		if g.rng.Intn(2) == 0 {
			out.FuelFlow = model.Float(0) // engine stall
		} else {
			out.FuelFlow = model.Float(uniform(g.rng, 300, 500))
		}
	case 2:
		if g.rng.Intn(2) == 0 {
			out.Temperature = model.Float(uniform(g.rng, -300, 0))
		} else {
			out.Temperature = model.Float(uniform(g.rng, 8000, 12000))
		}
	}
	return out
}
