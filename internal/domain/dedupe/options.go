// Package dedupe tracks reading identities for duplicate removal.
package dedupe

import "github.com/okian/plume/internal/domain/model"

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithCapacityHint pre-sizes the seen set for an expected number of keys.
func WithCapacityHint(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.seen = make(map[model.Key]struct{}, n)
		}
	}
}
