package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/plume/internal/config"
	"github.com/okian/plume/internal/generator"
)

// generateCmd emits synthetic telemetry records to stdout, one JSON object
// per line. Progress lines go to stderr prefixed with '#' so consumers of the
// primary channel can ignore them.
func generateCmd(cfg *config.Config) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate [count]",
		Short: "Generate synthetic telemetry records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := cfg.RecordCount
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					return fmt.Errorf("record count must be a non-negative integer, got %q", args[0])
				}
				count = n
			}

			opts := []generator.Option{
				generator.WithRates(generator.Rates{
					CriticalFailure: cfg.CriticalFailureRate,
					MissingFields:   cfg.MissingFieldsRate,
					OutOfRange:      cfg.OutOfRangeRate,
					Duplicate:       cfg.DuplicateRate,
				}),
			}
			if seed != 0 {
				opts = append(opts, generator.WithSeed(seed))
			} else if cfg.Seed != 0 {
				opts = append(opts, generator.WithSeed(cfg.Seed))
			}

			gen := generator.New(opts...)
			rates := gen.Rates()

			fmt.Fprintf(os.Stderr, "# Generating %d telemetry records...\n", count)
			fmt.Fprintf(os.Stderr, "# Engine IDs: %s\n", strings.Join(gen.Fleet().IDs(), ", "))
			fmt.Fprintf(os.Stderr, "# Started at: %s\n", time.Now().UTC().Format(time.RFC3339))
			fmt.Fprintf(os.Stderr, "# Expected anomalies: ~%.0f%% missing fields, ~%.0f%% out-of-range values, ~%.0f%% duplicates, ~%.0f%% critical failures\n",
				rates.MissingFields*100, rates.OutOfRange*100, rates.Duplicate*100, rates.CriticalFailure*100)

			readings, err := gen.Generate(cmd.Context(), count)
			if err != nil {
				return err
			}
			if err := generator.WriteJSONL(os.Stdout, readings); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "# Generated %d records successfully!\n", len(readings))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible output (0 = entropy)")
	return cmd
}
