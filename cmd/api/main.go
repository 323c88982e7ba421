package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companyapi/docs"
	"companyapi/internal/broker"
	"companyapi/internal/config"
	"companyapi/internal/database"
	"companyapi/internal/database/migration"
	handlers "companyapi/internal/http/handler"
	"companyapi/internal/http/middleware"
	"companyapi/internal/logger"
	tracing "companyapi/internal/otel"
	"companyapi/internal/repository/postgres"
	"companyapi/internal/service"
	"companyapi/internal/storage"
)

// @title Company API
// @version 1.0
// @description CRUD API for companies with logical (soft) delete and audit fields.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Output: os.Stderr})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		Location: cfg.Location(),
	}).With().Str("app", cfg.AppName).Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.AppName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// PostgreSQL connection (database/sql pool on pgx, traced with otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("db_host", cfg.Database.Host).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
	}

	opts := service.Options{
		Principal:     cfg.AuditPrincipal,
		PresignExpiry: cfg.MinIO.PresignExpiry,
		Logger:        log,
	}

	// Optional S3-compatible archive for snapshots and exports
	if cfg.MinIO.Enabled() {
		archive, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", cfg.MinIO.Endpoint).Msg("failed to initialize object storage")
		}
		opts.Archive = archive
	} else {
		log.Info().Str("event", "archive_disabled").Msg("MINIO_ENDPOINT not set, snapshots and exports disabled")
	}

	// Optional lifecycle event publisher
	if cfg.Rabbit.Enabled() {
		pub, err := broker.NewPublisher(cfg.Rabbit.URI, cfg.Rabbit.Queue)
		if err != nil {
			log.Fatal().Err(err).Str("queue", cfg.Rabbit.Queue).Msg("failed to initialize event publisher")
		}
		defer pub.Close()
		opts.Events = pub
	} else {
		log.Info().Str("event", "events_disabled").Msg("RABBIT_URI not set, lifecycle events disabled")
	}

	companyRepo := postgres.NewCompanyPostgres(db)
	companySvc := service.NewCompanyService(companyRepo, opts)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// RequestID first so every later middleware and handler sees it
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, db, companySvc, handlers.Config{NotFoundStatus: cfg.NotFoundStatus})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("event", "server_start").Str("addr", addr).Send()
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Str("event", "server_shutdown").Dur("timeout", cfg.ShutdownTimeout).Send()

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
}
