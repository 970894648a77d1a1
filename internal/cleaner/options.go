package cleaner

import (
	"github.com/okian/plume/internal/domain/dedupe"
	"github.com/okian/plume/pkg/logger"
)

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithDeduper replaces the default in-memory deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(p *Processor) {
		if d != nil {
			p.deduper = d
		}
	}
}

// WithLogger sets a custom logger for the processor.
func WithLogger(log logger.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}
