package main

import (
	"context"
	"crypto/tls"
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

	"github.com/oakwell-health/clinic-booking/internal/api/router"
	"github.com/oakwell-health/clinic-booking/internal/appointments"
	"github.com/oakwell-health/clinic-booking/internal/auth"
	appconfig "github.com/oakwell-health/clinic-booking/internal/config"
	"github.com/oakwell-health/clinic-booking/internal/notify"
	"github.com/oakwell-health/clinic-booking/internal/observability/metrics"
	"github.com/oakwell-health/clinic-booking/internal/qr"
	"github.com/oakwell-health/clinic-booking/pkg/logging"
)

func main() {
	// Load .env in local development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Appointment storage: Postgres when configured, otherwise an
	// in-memory repository so the server runs locally without a database.
	var repo appointments.Repository
	var userStore auth.UserStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		repo = appointments.NewPostgresRepository(pool)
		userStore = auth.NewPostgresUserStore(pool)
		logger.Info("using postgres appointment repository")
	} else {
		repo = appointments.NewInMemoryRepository()
		userStore = auth.NewInMemoryUserStore()
		logger.Warn("DATABASE_URL not set, using in-memory repository")
	}

	// Metrics registry with process/Go collectors plus booking counters.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Booking notifications: SendGrid when configured, stub otherwise.
	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
		logger.Info("email notifications enabled", "from", cfg.SendGridFromEmail)
	} else {
		sender = notify.NewStubEmailSender(logger)
		logger.Warn("SENDGRID_API_KEY not set, email notifications are stubbed")
	}
	notifier := notify.NewBookingNotifier(sender, cfg.ClinicInboxEmail, logger)

	// Admin sessions are backed by Redis so sign-out revokes tokens.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable at startup, admin login will fail until it recovers", "error", err)
	}

	authService := auth.NewService(userStore, auth.NewSessionStore(redisClient), cfg.AdminJWTSecret, cfg.SessionTTL, logger)
	authHandler := auth.NewHandler(authService, cfg.SessionTTL, cfg.Env == "production", logger)

	apptHandler := appointments.NewHandler(repo, bookingMetrics, notifier, cfg.DashboardRecent, logger)
	qrHandler := qr.NewHandler(qr.NewGenerator(cfg.PublicBaseURL), logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: apptHandler,
		AuthHandler:         authHandler,
		AuthService:         authService,
		QRHandler:           qrHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		BookingRateLimit:    cfg.BookingRateLimit,
		BookingRateBurst:    cfg.BookingRateBurst,
	}
	r := router.New(routerCfg)

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

	logger.Info("server stopped")
}
