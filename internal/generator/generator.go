// Package generator produces synthetic rocket-engine telemetry readings with
// physically-correlated noise and injected data-quality defects.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/okian/plume/internal/domain/model"
	"github.com/okian/plume/internal/domain/profile"
	"github.com/okian/plume/pkg/metrics"
)

// Physical parameter ranges (psi, kg/s, °F).
const (
	pressureMin   = 150.0
	pressureMax   = 300.0
	pressureSigma = 10.0

	fuelFlowMin   = 50.0
	fuelFlowMax   = 150.0
	fuelFlowSigma = 8.0

	temperatureMin   = 2000.0
	temperatureMax   = 4000.0
	temperatureSigma = 50.0

	// Inefficient combustion runs hotter: the temperature target scales by
	// up to this fraction as performance drops toward zero.
	temperatureDegradation = 0.3

	// Sensor floors applied before anomaly injection.
	pressureFloor    = 0.0
	fuelFlowFloor    = 0.0
	temperatureFloor = 500.0
)

// Reading cadence bounds in seconds.
const (
	stepMinSeconds = 1.0
	stepMaxSeconds = 5.0
)

// Rates holds the defect-injection probabilities, all in [0,1].
type Rates struct {
	CriticalFailure float64
	MissingFields   float64
	OutOfRange      float64
	Duplicate       float64
}

// DefaultRates returns the canonical moderate injection rates.
func DefaultRates() Rates {
	return Rates{
		CriticalFailure: 0.02,
		MissingFields:   0.03,
		OutOfRange:      0.05,
		Duplicate:       0.04,
	}
}

// Generator produces a finite sequence of synthetic readings. Each instance
// owns its randomness source, so seeded instances are reproducible.
type Generator struct {
	fleet *profile.Fleet
	rng   *rand.Rand
	start time.Time
	rates Rates
}

// New creates a generator with the default fleet and rates, seeded from
// entropy unless WithSeed is given.
func New(opts ...Option) *Generator {
	g := &Generator{
		fleet: profile.NewFleet(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		start: time.Now().UTC(),
		rates: DefaultRates(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fleet returns the generator's engine fleet.
func (g *Generator) Fleet() *profile.Fleet {
	return g.fleet
}

// Rates returns the generator's injection rates.
func (g *Generator) Rates() Rates {
	return g.rates
}

// Generate produces n primary readings followed by their queued duplicates.
// Primary readings are chronological; duplicates trail the main sequence in
// the order they were queued, each a copy of an earlier reading.
func (g *Generator) Generate(ctx context.Context, n int) ([]model.Reading, error) {
	records := make([]model.Reading, 0, n)
	var duplicates []model.Reading

	ts := g.start
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
		default:
		}

		if i > 0 {
			step := uniform(g.rng, stepMinSeconds, stepMaxSeconds)
			ts = ts.Add(time.Duration(step * float64(time.Second)))
		}

		engine := g.fleet.Pick(g.rng)
		reading := g.baseReading(engine, ts)
		reading = g.injectAnomalies(reading, engine)
		records = append(records, reading)
		metrics.RecordReadingGenerated()

		// Duplicate trial is independent of the other injections and the
		// copy is queued behind the whole primary sequence.
		if g.rng.Float64() < g.rates.Duplicate {
			duplicates = append(duplicates, reading.Clone())
			metrics.RecordDuplicateQueued()
		}
	}

	return append(records, duplicates...), nil
}

// WriteJSONL writes readings one compact JSON object per line.
func WriteJSONL(w io.Writer, readings []model.Reading) error {
	for _, r := range readings {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode reading: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write reading: %w", err)
		}
	}
	return nil
}

// baseReading computes the physics-based values for one engine at one instant.
func (g *Generator) baseReading(engine profile.EngineProfile, ts time.Time) model.Reading {
	return model.Reading{
		Timestamp:       ts.UTC().Format(time.RFC3339Nano),
		EngineID:        engine.ID,
		ChamberPressure: model.Float(g.pressure(engine.Performance)),
		FuelFlow:        model.Float(g.fuelFlow(engine.Performance)),
		Temperature:     model.Float(g.temperature(engine.Performance)),
	}
}

// pressure interpolates the optimal chamber pressure by performance and adds
// sensor noise.
func (g *Generator) pressure(performance float64) float64 {
	optimal := pressureMin + (pressureMax-pressureMin)*performance
	return floor(optimal+g.rng.NormFloat64()*pressureSigma, pressureFloor)
}

// fuelFlow interpolates the optimal fuel flow by performance and adds sensor
// noise.
func (g *Generator) fuelFlow(performance float64) float64 {
	optimal := fuelFlowMin + (fuelFlowMax-fuelFlowMin)*performance
	return floor(optimal+g.rng.NormFloat64()*fuelFlowSigma, fuelFlowFloor)
}

// temperature scales the target upward as performance degrades, then adds
// sensor noise.
func (g *Generator) temperature(performance float64) float64 {
	factor := 1.0 + temperatureDegradation*(1.0-performance)
	optimal := temperatureMin + (temperatureMax-temperatureMin)*factor
	return floor(optimal+g.rng.NormFloat64()*temperatureSigma, temperatureFloor)
}

func floor(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
