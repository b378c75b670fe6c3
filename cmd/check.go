package cmd

import (
	"fmt"

	"storage-init/core/config"
	"storage-init/core/logger"
	"storage-init/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the storage backend without changing anything",
	Long: `Validates the configuration, probes connectivity once, and reports
whether the bucket exists. Nothing is created or modified.`,
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

		if err := cfg.Storage.Validate(); err != nil {
			return err
		}
		logg.Info("configuration is valid",
			zap.String("backend", cfg.Storage.Provider),
			zap.String("bucket", cfg.Storage.Bucket),
		)

		backend, err := storage.New(cmd.Context(), cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage backend: %w", err)
		}
		defer backend.Close()

		if err := backend.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("storage server probe failed: %w", err)
		}
		logg.Info("storage server is reachable")

		exists, err := backend.BucketExists(cmd.Context(), cfg.Storage.Bucket)
		if err != nil {
			return fmt.Errorf("bucket check failed: %w", err)
		}
		if exists {
			logg.Info("bucket exists", zap.String("bucket", cfg.Storage.Bucket))
		} else {
			logg.Warn("bucket is missing; 'run' would create it", zap.String("bucket", cfg.Storage.Bucket))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
