package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"storage-init/core/bootstrap"
	"storage-init/core/config"
	"storage-init/core/logger"
	"storage-init/core/readiness"
	"storage-init/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var signalFileFlag string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bootstrap once and exit",
	Long: `Waits for the storage server to accept connections (bounded retry with
exponential backoff), creates the configured bucket if it is absent, and
applies the anonymous-read policy when enabled. Exits 0 on success and
non-zero on any unrecoverable error, so a compose or init-container
dependency can gate the application on the exit code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		if signalFileFlag != "" {
			cfg.Bootstrap.SignalFile = signalFileFlag
		}

		if err := cfg.Storage.Validate(); err != nil {
			return err
		}

		// Bound the whole run so a misconfigured storage server cannot
		// block the deployment forever.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, cfg.Bootstrap.Timeout())
		defer cancel()

		backend, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage backend: %w", err)
		}
		defer backend.Close()

		waiter := readiness.NewWaiter(backend, cfg.Bootstrap.MaxAttempts, cfg.Bootstrap.BaseDelay(), cfg.Bootstrap.MaxDelay(), logg)
		orch := bootstrap.New(cfg.Storage, backend, waiter, logg)

		logg.Info("starting bootstrap",
			zap.String("app", cfg.App.Name),
			zap.String("backend", cfg.Storage.Provider),
			zap.String("bucket", cfg.Storage.Bucket),
			zap.Bool("public_read", cfg.Storage.PublicRead),
		)

		result := orch.Run(ctx)
		if result.Outcome != bootstrap.OutcomeSuccess {
			return fmt.Errorf("bootstrap failed: %s: %w", result.Reason, result.Err)
		}

		if cfg.Bootstrap.SignalFile != "" {
			if err := result.WriteSignal(cfg.Bootstrap.SignalFile); err != nil {
				return fmt.Errorf("bootstrap succeeded but signal file could not be written: %w", err)
			}
			logg.Info("completion signal written", zap.String("file", cfg.Bootstrap.SignalFile))
		}

		logg.Info("bootstrap complete",
			zap.String("bucket", result.Bucket),
			zap.Int("attempts", result.Attempts),
			zap.Duration("duration", result.Duration),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&signalFileFlag, "signal-file", "", "Write a completion flag file on success (overrides BOOTSTRAP_SIGNAL_FILE)")
}
