// Package sink writes the clean telemetry table to its destination artifact.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/plume/internal/domain/model"
	"github.com/okian/plume/pkg/metrics"
)

const outputDirPermission = 0o755

// Sink persists a finished table of clean readings.
type Sink interface {
	// Write materializes records in order and returns the row count written.
	Write(ctx context.Context, records []model.Reading) (int, error)
}

// CSVSink writes the fixed-column CSV artifact. The parent directory is
// created if absent; absent sensor values become empty cells.
type CSVSink struct {
	path string
}

// Option applies a configuration option to the CSVSink.
type Option func(*CSVSink)

// WithPath sets the artifact destination.
func WithPath(path string) Option {
	return func(s *CSVSink) {
		if path != "" {
			s.path = path
		}
	}
}

// NewCSVSink creates a CSV sink with the default destination.
func NewCSVSink(opts ...Option) *CSVSink {
	s := &CSVSink{
		path: "data/telemetry_clean.csv",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the artifact destination.
func (s *CSVSink) Path() string {
	return s.path
}

// Write creates the artifact in one pass. Write failures are fatal to the
// run, unlike per-record errors upstream.
func (s *CSVSink) Write(ctx context.Context, records []model.Reading) (int, error) {
	start := time.Now()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, outputDirPermission); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	defer f.Close()

	n, err := writeTable(ctx, f, records)
	if err != nil {
		return n, err
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}

	metrics.RecordRowsWritten(n)
	metrics.RecordArtifactWriteDuration(time.Since(start).Seconds())
	return n, nil
}

// writeTable writes the header and rows to w.
func writeTable(ctx context.Context, w io.Writer, records []model.Reading) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}

	written := 0
	for _, r := range records {
		select {
		case <-ctx.Done():
			return written, fmt.Errorf("%w: %w", ErrWriteArtifact, ctx.Err())
		default:
		}
		if err := cw.Write(r.CSVRow()); err != nil {
			return written, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	return written, nil
}
