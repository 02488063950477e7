package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/vivla-tech/vivla-middleware/internal/adapters/primary/http"
	mw "github.com/vivla-tech/vivla-middleware/internal/adapters/primary/http/middleware"
	"github.com/vivla-tech/vivla-middleware/internal/adapters/secondary/postgres"
	"github.com/vivla-tech/vivla-middleware/internal/adapters/secondary/zendesk"
	"github.com/vivla-tech/vivla-middleware/internal/config"
	"github.com/vivla-tech/vivla-middleware/internal/core/services"
	"github.com/vivla-tech/vivla-middleware/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	// Apply database configuration
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize Rate Limiter
	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Helpdesk client (Secondary Adapter). One client serves the search,
	// field-metadata, user and group ports.
	helpdesk := zendesk.NewClient(zendesk.Config{
		BaseURL:           cfg.Helpdesk.BaseURL,
		Email:             cfg.Helpdesk.Email,
		APIToken:          cfg.Helpdesk.APIToken,
		Timeout:           cfg.Helpdesk.Timeout,
		RequestsPerMinute: cfg.Helpdesk.RequestsPerMinute,
	}, logger)

	// House repository (Secondary Adapter)
	houseRepo := postgres.NewHouseRepository(pool)

	// Services (Core)
	refCache := services.NewReferenceCacheService(helpdesk, helpdesk, helpdesk, logger)
	if err := refCache.WarmFields(ctx); err != nil {
		logger.Warn("field definition preload failed, falling back to lazy loads", "error", err)
	}
	formatter := services.NewTicketFormatter(refCache, services.TrackedFields{
		Home:       cfg.Helpdesk.Fields.Home,
		Team:       cfg.Helpdesk.Fields.Team,
		Area:       cfg.Helpdesk.Fields.Area,
		Category:   cfg.Helpdesk.Fields.Category,
		FixStatus:  cfg.Helpdesk.Fields.FixStatus,
		Payer:      cfg.Helpdesk.Fields.Payer,
		Approvals:  cfg.Helpdesk.Fields.Approvals,
		CausalCode: cfg.Helpdesk.Fields.CausalCode,
	})

	pagination := services.PaginationConfig{
		HomeFieldID: cfg.Helpdesk.Fields.Home,
		PerPage:     cfg.Helpdesk.PerPage,
		MaxPages:    cfg.Helpdesk.MaxPages,
		PageDelay:   cfg.Helpdesk.PageDelay,
	}

	statsService := services.NewHomeStatsService(helpdesk, refCache, formatter, pagination, logger)
	requesterService := services.NewRequesterService(helpdesk, refCache, formatter, pagination, logger)
	houseService := services.NewHouseService(houseRepo, refCache, cfg.Helpdesk.Fields.Home, logger)
	ticketService := services.NewTicketService(helpdesk, refCache, formatter, cfg.Helpdesk.PerPage, logger)
	calendarService := services.NewCalendarService()

	// Handlers (Primary Adapters)
	statsHandler := httpAdapter.NewStatsHandler(statsService, requesterService, errorHandler, logger)
	houseHandler := httpAdapter.NewHouseHandler(houseService, errorHandler, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, errorHandler, logger)
	calendarHandler := httpAdapter.NewCalendarHandler(calendarService)
	healthHandler := httpAdapter.NewHealthHandler(pool, helpdesk, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// All dashboard routes sit behind the static API token when one is
		// configured.
		if cfg.Auth.APIToken != "" {
			r.Use(mw.StaticBearerAuth(cfg.Auth.APIToken))
		}

		r.Route("/homes", statsHandler.RegisterRoutes)
		r.Route("/houses", houseHandler.RegisterRoutes)
		r.Route("/tickets", ticketHandler.RegisterRoutes)
		r.Route("/calendar", calendarHandler.RegisterRoutes)
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
