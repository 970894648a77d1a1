// Package app wires the telemetry pipeline end to end: generator -> record
// stream -> cleaner -> artifact sink.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/okian/plume/internal/adapters/sink"
	"github.com/okian/plume/internal/adapters/stream"
	"github.com/okian/plume/internal/cleaner"
	"github.com/okian/plume/internal/generator"
	"github.com/okian/plume/pkg/logger"
)

const defaultRecordCount = 100

// Service runs the in-process generate-then-clean pipeline. The two stages
// stay decoupled by the record stream: the generator writes JSON lines into a
// pipe and the cleaner consumes them as any other input.
type Service struct {
	recordCount   int
	generatorOpts []generator.Option
	cleanerOpts   []cleaner.Option
	sink          sink.Sink
	log           logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRecordCount sets the number of primary readings to generate.
func WithRecordCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recordCount = n
		}
	}
}

// WithGeneratorOptions forwards options to the generator stage.
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(s *Service) {
		s.generatorOpts = append(s.generatorOpts, opts...)
	}
}

// WithCleanerOptions forwards options to the cleaner stage.
func WithCleanerOptions(opts ...cleaner.Option) Option {
	return func(s *Service) {
		s.cleanerOpts = append(s.cleanerOpts, opts...)
	}
}

// WithSink replaces the default CSV sink.
func WithSink(out sink.Sink) Option {
	return func(s *Service) {
		if out != nil {
			s.sink = out
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		recordCount: defaultRecordCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = sink.NewCSVSink()
	}
	if s.log == nil {
		s.log = logger.Get().Named("pipeline")
	}
	return s
}

// Run executes one full pipeline pass and returns the cleaning result.
func (s *Service) Run(ctx context.Context) (cleaner.Result, error) {
	runID := uuid.New().String()
	log := s.log
	log.Info(ctx, "pipeline run starting",
		logger.String("run_id", runID),
		logger.Int("record_count", s.recordCount))

	gen := generator.New(s.generatorOpts...)
	readings, err := gen.Generate(ctx, s.recordCount)
	if err != nil {
		return cleaner.Result{}, fmt.Errorf("generate stage: %w", err)
	}
	log.Info(ctx, "generated readings",
		logger.String("run_id", runID),
		logger.Int("emitted", len(readings)))

	pr, pw := io.Pipe()
	go func() {
		if err := generator.WriteJSONL(pw, readings); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.Close()
	}()

	proc := cleaner.New(s.cleanerOpts...)
	result, err := proc.Run(ctx, stream.NewSource(pr))
	if err != nil {
		return cleaner.Result{}, fmt.Errorf("clean stage: %w", err)
	}

	rows, err := s.sink.Write(ctx, result.Records)
	if err != nil {
		return cleaner.Result{}, fmt.Errorf("sink stage: %w", err)
	}

	result.Stats.LogSummary(ctx, log)
	log.Info(ctx, "pipeline run finished",
		logger.String("run_id", runID),
		logger.Int("rows_written", rows))
	return result, nil
}
