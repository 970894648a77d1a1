package generator

import (
	"math/rand"
	"time"

	"github.com/okian/plume/internal/domain/profile"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed seeds the generator's randomness source for reproducible output.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // simulation, not crypto
	}
}

// WithFleet replaces the default engine fleet.
func WithFleet(fleet *profile.Fleet) Option {
	return func(g *Generator) {
		if fleet != nil {
			g.fleet = fleet
		}
	}
}

// WithStartTime sets the timestamp of the first reading.
func WithStartTime(start time.Time) Option {
	return func(g *Generator) {
		if !start.IsZero() {
			g.start = start
		}
	}
}

// WithRates replaces the default injection rates. Out-of-range values are
// clamped to [0,1].
func WithRates(rates Rates) Option {
	return func(g *Generator) {
		g.rates = Rates{
			CriticalFailure: clamp01(rates.CriticalFailure),
			MissingFields:   clamp01(rates.MissingFields),
			OutOfRange:      clamp01(rates.OutOfRange),
			Duplicate:       clamp01(rates.Duplicate),
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
