// Command plume is the synthetic rocket-engine telemetry pipeline CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/plume/internal/config"
	"github.com/okian/plume/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	var logOpts []logger.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithRotatingFile(cfg.LogFile))
	}
	if err := logger.Init(logOpts...); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	rootCmd := &cobra.Command{
		Use:   "plume",
		Short: "Synthetic rocket-engine telemetry pipeline",
		Long: `plume simulates rocket-engine sensor streams with injected data-quality
defects and cleans them back into a canonical table with audit statistics.

Records flow as JSON lines on stdout; diagnostics stay on stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(generateCmd(cfg))
	rootCmd.AddCommand(cleanCmd(cfg))
	rootCmd.AddCommand(runCmd(cfg))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
