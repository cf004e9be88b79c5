package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"finflow/internal/backend"
	"finflow/internal/bank/simulator"
	"finflow/internal/cli"
	apphttp "finflow/internal/http"
	applog "finflow/internal/log"
	"finflow/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}

	// A nil publisher disables ledger export; sync still works.
	var publisher services.ExportPublisher
	if result.AMQP != nil {
		publisher = result.AMQP
	}

	provider := simulator.New()
	importer := services.NewImportService(result.Store, result.Store, provider, publisher)
	reports := services.NewReportService(result.Store, result.Store, result.Store)
	bills := services.NewBillService(result.Store)

	srv := apphttp.NewServer(":"+cfg.Port, result.Store, importer, reports, bills, provider)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting finflow server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp_enabled", result.AMQP != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
