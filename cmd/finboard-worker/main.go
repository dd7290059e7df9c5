package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finboard/internal/backend"
	"finboard/internal/config"
	"finboard/internal/log"
	"finboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: log.ComponentWorker, Output: os.Stdout})
	log.SetDefault(logger)

	logger.Info("Starting finboard-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.NewFields().
			WithError(err).
			WithErrorType(log.ErrorTypeConfiguration).
			WithOperation(log.OpValidate).
			ToSlice()...)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker",
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	backendCfg.AMQPRequired = true

	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to release backend", log.FieldError, err.Error())
		}
	}()

	exporter, err := factory.CreateExporter(ctx, backendCfg)
	if err != nil {
		return err
	}

	w := worker.NewAlertWorker(res.Store, exporter, cfg.AlertBatchSize, logger)

	// Alerts recorded before a crash are exported before new messages arrive.
	logger.Info("Performing startup export check...", log.FieldOperation, log.OpStartup)
	if err := w.StartupCheck(ctx); err != nil {
		logger.Error("Failed startup export check", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return res.AMQP.ConsumeBudgetAlerts(gctx, w.HandleAlertMessage)
	})
	g.Go(func() error {
		return w.RunPeriodic(gctx, cfg.AlertSyncInterval)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		return nil
	}
	return err
}
