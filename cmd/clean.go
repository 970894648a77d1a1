package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/plume/internal/adapters/sink"
	"github.com/okian/plume/internal/adapters/stream"
	"github.com/okian/plume/internal/cleaner"
	"github.com/okian/plume/internal/config"
	"github.com/okian/plume/pkg/logger"
)

// cleanCmd ingests a raw record stream, cleans and deduplicates it, and
// writes the CSV artifact.
func cleanCmd(cfg *config.Config) *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean and validate raw telemetry records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.Get().Named("clean")

			src, err := stream.Open(inputPath)
			if err != nil {
				return err
			}
			defer src.Close()

			proc := cleaner.New(cleaner.WithLogger(log))
			result, err := proc.Run(ctx, src)
			if err != nil {
				return err
			}

			out := sink.NewCSVSink(sink.WithPath(outputPath))
			rows, err := out.Write(ctx, result.Records)
			if err != nil {
				return err
			}

			result.Stats.LogSummary(ctx, log)
			log.Info(ctx, "wrote clean artifact",
				logger.String("path", out.Path()), logger.Int("rows", rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input JSON Lines file (default: stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", cfg.OutputPath, "Output CSV file")
	return cmd
}
