package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finboard/internal/backend"
	"finboard/internal/cache"
	"finboard/internal/config"
	"finboard/internal/core"
	apphttp "finboard/internal/http"
	"finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/upstream"
)

const shutdownTimeout = 30 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp, Output: os.Stdout})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.NewFields().
			WithError(err).
			WithErrorType(log.ErrorTypeConfiguration).
			WithOperation(log.OpValidate).
			ToSlice()...)
		os.Exit(1)
	}

	logger.Info("Starting finboard",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"upstream", cfg.UpstreamBaseURL,
		"currency", cfg.Currency)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to release backend", log.FieldError, err.Error())
		}
	}()

	client, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.UpstreamBaseURL,
		Timeout: cfg.UpstreamTimeout,
		Retries: cfg.UpstreamRetries,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	payloads := services.NewPayloadCache(cfg.CacheSize, cfg.CacheTTL, logger)
	categories := services.NewCategoryService(client, payloads, res.Publisher(), logger)

	caches := cache.NewManager(logger)
	caches.Register(payloads)
	caches.Register(categories)
	caches.StartCleanup(cfg.CacheTTL + time.Minute)
	defer caches.Stop()

	svc := apphttp.Services{
		Dashboard:    services.NewDashboardService(client, payloads, logger),
		Analytics:    services.NewAnalyticsService(client, payloads, logger),
		Categories:   categories,
		Transactions: services.NewTransactionService(client, payloads, logger),
		Templates:    services.NewTemplateService(res.Store, client, payloads, logger),
		Preferences:  services.NewPreferenceService(res.Store, logger),
		Profile: services.NewProfileService(client, payloads,
			core.Profile{Currency: core.Currency(cfg.Currency), DateFormat: core.DateISO}, logger),
	}

	opts := apphttp.Options{
		Addr:               ":" + cfg.Port,
		Currency:           core.Currency(cfg.Currency),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}
	if p, ok := res.Store.(pinger); ok {
		opts.Ready = p.Ping
	}
	srv := apphttp.NewServer(svc, opts)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...", log.FieldOperation, log.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
