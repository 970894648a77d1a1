package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/plume/internal/adapters/sink"
	"github.com/okian/plume/internal/app"
	"github.com/okian/plume/internal/config"
	"github.com/okian/plume/internal/generator"
	"github.com/okian/plume/pkg/logger"
	"github.com/okian/plume/pkg/metrics"
)

// Metrics listener timeouts.
const (
	metricsReadTimeout       = 5 * time.Second
	metricsReadHeaderTimeout = 2 * time.Second
)

// runCmd executes the full generate-then-clean pipeline in process.
func runCmd(cfg *config.Config) *cobra.Command {
	var (
		count       int
		seed        int64
		outputPath  string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full generate-and-clean pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.Get().Named("run")

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           metrics.Handler(),
					ReadTimeout:       metricsReadTimeout,
					ReadHeaderTimeout: metricsReadHeaderTimeout,
				}
				go func() {
					log.Info(ctx, "serving metrics", logger.String("addr", metricsAddr))
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Error(ctx, "metrics listener failed", logger.Error(err))
					}
				}()
				defer srv.Close()
			}

			genOpts := []generator.Option{
				generator.WithRates(generator.Rates{
					CriticalFailure: cfg.CriticalFailureRate,
					MissingFields:   cfg.MissingFieldsRate,
					OutOfRange:      cfg.OutOfRangeRate,
					Duplicate:       cfg.DuplicateRate,
				}),
			}
			if seed != 0 {
				genOpts = append(genOpts, generator.WithSeed(seed))
			}

			svc := app.New(
				app.WithLogger(log),
				app.WithRecordCount(count),
				app.WithGeneratorOptions(genOpts...),
				app.WithSink(sink.NewCSVSink(sink.WithPath(outputPath))),
			)
			_, err := svc.Run(ctx)
			return err
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", cfg.RecordCount, "Number of primary readings to generate")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Seed, "Seed for reproducible generation (0 = entropy)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", cfg.OutputPath, "Output CSV file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", cfg.MetricsAddr, "Expose Prometheus metrics on this address (empty = off)")
	return cmd
}
