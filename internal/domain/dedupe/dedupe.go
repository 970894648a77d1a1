// Package dedupe tracks reading identities so duplicate records are kept out
// of the clean table.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/plume/internal/domain/model"
)

// Deduper records seen reading keys so the first occurrence of a key wins.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	// First-wins ordering follows from calling this in stream order.
	SeenAndRecord(ctx context.Context, key model.Key) bool

	// Unrecord removes a key, allowing it to be admitted again. Used when an
	// accepted record later fails to materialize in the output.
	Unrecord(ctx context.Context, key model.Key)

	Size() int64
}

// inMemoryDeduper implements Deduper with a plain map guarded by a mutex.
//
// The set is deliberately unbounded: evicting an entry mid-run would silently
// re-admit a duplicate. Expected key count is capped by the input size of one
// batch run.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[model.Key]struct{}
	size atomic.Int64
}

// NewInMemoryDeduper creates an empty in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	if d.seen == nil {
		d.seen = make(map[model.Key]struct{})
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key model.Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key model.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// Size returns the current number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
