package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/fatura/internal"
	"github.com/dukerupert/fatura/internal/document"
	"github.com/dukerupert/fatura/internal/email"
	"github.com/dukerupert/fatura/internal/events"
	"github.com/dukerupert/fatura/internal/handler/api"
	"github.com/dukerupert/fatura/internal/middleware"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/dukerupert/fatura/internal/router"
	"github.com/dukerupert/fatura/internal/routes"
	"github.com/dukerupert/fatura/internal/service"
	"github.com/dukerupert/fatura/internal/storage"
	"github.com/dukerupert/fatura/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 30 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return err
	}
	defer flushSentry()

	// Migrations run over database/sql; the application uses a pgx pool.
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}
	err = internal.RunMigrations(sqlDB, logger)
	sqlDB.Close()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("storage initialized", "provider", cfg.Storage.Provider)

	mail, err := email.NewService(newSender(cfg, logger), cfg.Email.From, cfg.Email.FromName, cfg.Invoice.Currency)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Drain()
		publisher = events.NewNATSPublisher(nc, logger)
		logger.Info("lifecycle events enabled", "url", cfg.NATSURL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	invoiceMetrics := telemetry.NewInvoiceMetrics(registry, "fatura")
	httpMetrics := middleware.NewMetrics(registry, "fatura")

	renderer := document.NewRenderer(document.RendererOptions{
		Currency: cfg.Invoice.Currency,
		Logo:     loadLogo(cfg.Invoice.LogoPath, logger),
	})
	generator := document.NewGenerator(document.NewAssembler(repo, logger), renderer, store, repo, invoiceMetrics)
	dispatcher := service.NewDispatcher(repo, mail, invoiceMetrics, cfg.BaseURL, logger)

	invoiceService := service.NewInvoiceService(repo, generator, store, dispatcher, publisher, invoiceMetrics, logger,
		service.InvoiceConfig{
			DueDays:     cfg.Invoice.DueDays,
			TailTimeout: cfg.Invoice.TailTimeout,
		})

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		telemetry.SentryMiddleware(),
		httpMetrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.Env == "prod")),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	deps := routes.APIDeps{
		Invoices: api.NewInvoiceHandler(invoiceService, logger),
		DB:       pool,
		Metrics:  httpMetrics.Handler(),
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		deps.BlobDir = local.BasePath()
	}
	routes.RegisterAPIRoutes(r, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newSender picks Postmark when a token is configured and SMTP otherwise.
func newSender(cfg *internal.Config, logger *slog.Logger) email.Sender {
	if cfg.Email.PostmarkToken != "" {
		logger.Info("email transport: postmark")
		return email.NewPostmarkSender(cfg.Email.PostmarkToken, cfg.Email.From)
	}
	logger.Info("email transport: smtp", "host", cfg.Email.Host, "port", cfg.Email.Port)
	return email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
		Timeout:  30 * time.Second,
	}, logger)
}

func loadLogo(path string, logger *slog.Logger) []byte {
	if path == "" {
		return nil
	}
	logo, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("company logo not loaded, rendering without it", "path", path, "error", err)
		return nil
	}
	return logo
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
