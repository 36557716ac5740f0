package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"distsim/internal"
	"distsim/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "distsim",
		Short: "Compare test measurement distributions between an input and a reference lot",
		Long: `distsim labels every test of an input measurement table as Similar distribution,
Moderately similar or Completely different relative to a reference table.

Configuration is read from the environment (an optional .env file is loaded first):
- MODEL_DIR, MODEL_VERSION
- SAMPLE_SIZE, ANALYSIS_WORKERS, SAMPLING_SEED, DEFAULT_SENSITIVITY
- RESULTS_PATH
- MIN_FEEDBACK_FOR_RETRAIN, ERROR_RATE_THRESHOLD, FEEDBACK_WINDOW
- LOG_LEVEL`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newLabelCmd(),
		newInspectModelCmd(),
		newCalibrateCmd(),
		newFeedbackCheckCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadEnvironment loads .env, the validated configuration and a logger at
// the configured level
func loadEnvironment() (*config.Config, *internal.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
	return cfg, logger, nil
}
