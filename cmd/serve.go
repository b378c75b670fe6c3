package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storage-init/core/bootstrap"
	"storage-init/core/config"
	"storage-init/core/logger"
	"storage-init/core/readiness"
	"storage-init/core/server"
	"storage-init/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bootstrap and serve its status over HTTP",
	Long: `Runs the same bootstrap as 'run' but stays up afterwards, exposing
/healthz (503 until the bootstrap is done, 200 after) and an API-key
protected /status endpoint. Use this when the launcher gates on a
health check instead of an exit code.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Storage Backend
		backend, err := storage.New(cmd.Context(), cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage backend", zap.Error(err))
		}
		defer backend.Close()

		waiter := readiness.NewWaiter(backend, cfg.Bootstrap.MaxAttempts, cfg.Bootstrap.BaseDelay(), cfg.Bootstrap.MaxDelay(), logg)
		orch := bootstrap.New(cfg.Storage, backend, waiter, logg)

		// 4. Run the bootstrap in the background; the status server reports
		// its progress while the launcher polls /healthz.
		go func() {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Bootstrap.Timeout())
			defer cancel()

			result := orch.Run(ctx)
			if result.Outcome == bootstrap.OutcomeSuccess && cfg.Bootstrap.SignalFile != "" {
				if err := result.WriteSignal(cfg.Bootstrap.SignalFile); err != nil {
					logg.Error("Failed to write completion signal", zap.Error(err))
				}
			}
		}()

		// 5. Start Status Server
		app := server.New(cfg.Server, cfg.App.APIKey, orch, logg)
		go func() {
			logg.Info("Starting status server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Status server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down status server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
