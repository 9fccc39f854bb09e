package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinichq/portal-api/internal/api/router"
	"github.com/clinichq/portal-api/internal/auth"
	"github.com/clinichq/portal-api/internal/booking"
	"github.com/clinichq/portal-api/internal/catalog"
	appconfig "github.com/clinichq/portal-api/internal/config"
	"github.com/clinichq/portal-api/internal/directory"
	"github.com/clinichq/portal-api/internal/notify"
	"github.com/clinichq/portal-api/internal/observability/metrics"
	"github.com/clinichq/portal-api/pkg/logging"
)

func main() {
	// Load .env in development; ignored when the file is absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting doctors portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.AccessTokenSecret == "" {
		logger.Error("ACCESS_TOKEN_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := pool.Ping(pingCtx); err != nil {
		cancelPing()
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	cancelPing()

	issuer := auth.NewTokenIssuer(cfg.AccessTokenSecret, cfg.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Repositories
	bookingRepo := booking.NewPostgresRepository(pool)
	directoryRepo := directory.NewPostgresRepository(pool)

	var catalogRepo catalog.Repository = catalog.NewPostgresRepository(pool)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()
		catalogRepo = catalog.NewCachedRepository(catalogRepo, redisClient, cfg.CatalogCacheTTL, logger)
		logger.Info("catalog cache enabled", "addr", cfg.RedisAddr)
	}

	// Confirmation email delivery
	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else {
		logger.Info("no SendGrid API key configured, logging emails instead")
		sender = notify.NewStubEmailSender(logger)
	}
	dispatcher := notify.NewDispatcher(sender, bookingMetrics, logger, notify.DispatcherOptions{
		Workers:     cfg.NotifyWorkerCount,
		QueueSize:   cfg.NotifyQueueSize,
		MaxAttempts: cfg.NotifyMaxAttempts,
		BaseDelay:   cfg.NotifyBaseDelay,
	})

	// Handlers
	bookingHandler := booking.NewHandler(bookingRepo, router.NewEmailNotifier(dispatcher), bookingMetrics, logger)
	catalogHandler := catalog.NewHandler(catalogRepo, bookingRepo, logger)
	directoryHandler := directory.NewHandler(directoryRepo, issuer, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		TokenIssuer:        issuer,
		BookingHandler:     bookingHandler,
		CatalogHandler:     catalogHandler,
		DirectoryHandler:   directoryHandler,
		Roles:              directory.NewRoleResolver(directoryRepo),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.AllowedOrigins,
		BookingRateLimit:   cfg.BookingRateLimit,
		BookingRateBurst:   cfg.BookingRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Drain queued confirmation emails before the pool closes.
	dispatcher.Close()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
