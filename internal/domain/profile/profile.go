// Package profile holds the static per-engine simulation parameters.
package profile

import (
	"math/rand"
	"sort"
)

// EngineProfile describes one engine's baseline condition for the run.
// Performance and FailureRate are in (0,1]; higher performance means better
// combustion efficiency, higher failure rate means more critical-failure
// injections.
type EngineProfile struct {
	ID          string
	Name        string
	Performance float64
	FailureRate float64
}

// Fleet is a fixed set of engine profiles with a categorical selection
// distribution over them.
type Fleet struct {
	engines []EngineProfile
	weights map[string]float64
}

// Option applies a configuration option to the Fleet.
type Option func(*Fleet)

// WithEngines replaces the default engine set.
func WithEngines(engines []EngineProfile) Option {
	return func(f *Fleet) {
		if len(engines) > 0 {
			f.engines = engines
		}
	}
}

// WithWeights sets per-engine selection weights. Engines without an entry
// keep weight 1. Non-positive weights are ignored.
func WithWeights(weights map[string]float64) Option {
	return func(f *Fleet) {
		f.weights = make(map[string]float64)
		for id, w := range weights {
			if w > 0 {
				f.weights[id] = w
			}
		}
	}
}

// NewFleet creates a fleet with the default Terran R engine set and equal
// selection weights.
func NewFleet(opts ...Option) *Fleet {
	f := &Fleet{
		engines: defaultEngines(),
	}
	for _, opt := range opts {
		opt(f)
	}
	// Stable order regardless of construction path.
	sort.Slice(f.engines, func(i, j int) bool { return f.engines[i].ID < f.engines[j].ID })
	return f
}

// defaultEngines returns the canonical five-engine set.
func defaultEngines() []EngineProfile {
	return []EngineProfile{
		{ID: "TRE-001", Name: "Terran R Engine Alpha", Performance: 0.88, FailureRate: 0.12},
		{ID: "TRE-002", Name: "Terran R Engine Beta", Performance: 0.75, FailureRate: 0.18},
		{ID: "TRE-003", Name: "Terran R Engine Gamma", Performance: 0.92, FailureRate: 0.08},
		{ID: "TRE-004", Name: "Terran R Engine Delta", Performance: 0.82, FailureRate: 0.15},
		{ID: "TRE-005", Name: "Terran R Engine Epsilon", Performance: 0.85, FailureRate: 0.13},
	}
}

// Engines returns the fleet's profiles in stable ID order.
func (f *Fleet) Engines() []EngineProfile {
	out := make([]EngineProfile, len(f.engines))
	copy(out, f.engines)
	return out
}

// IDs returns the engine IDs in stable order.
func (f *Fleet) IDs() []string {
	ids := make([]string, len(f.engines))
	for i, e := range f.engines {
		ids[i] = e.ID
	}
	return ids
}

// Lookup returns the profile for id.
func (f *Fleet) Lookup(id string) (EngineProfile, bool) {
	for _, e := range f.engines {
		if e.ID == id {
			return e, true
		}
	}
	return EngineProfile{}, false
}

// Pick draws one engine from the categorical distribution using rng.
func (f *Fleet) Pick(rng *rand.Rand) EngineProfile {
	total := 0.0
	for _, e := range f.engines {
		total += f.weight(e.ID)
	}
	target := rng.Float64() * total
	acc := 0.0
	for _, e := range f.engines {
		acc += f.weight(e.ID)
		if target < acc {
			return e
		}
	}
	return f.engines[len(f.engines)-1]
}

func (f *Fleet) weight(id string) float64 {
	if f.weights == nil {
		return 1
	}
	if w, ok := f.weights[id]; ok {
		return w
	}
	return 1
}
