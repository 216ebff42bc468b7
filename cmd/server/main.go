package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/festo/gala/api/internal/config"
	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/handler"
	"github.com/festo/gala/api/internal/jobs"
	"github.com/festo/gala/api/internal/middleware"
	"github.com/festo/gala/api/internal/repository"
	"github.com/festo/gala/api/internal/service"
	"github.com/festo/gala/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	standingRepo := repository.NewStandingRepository(db)
	reportRepo := repository.NewReportRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	appealRepo := repository.NewAppealRepository(db)
	rankingRepo := repository.NewRankingRepository(db, cfg.Ranking.WindowSize, cfg.Ranking.MinReviews)

	// Initialize event hub for real-time updates
	eventHub := service.NewEventHub()
	defer eventHub.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	notifier := service.NewLogNotifier(logger)
	standingService := service.NewStandingService(standingRepo, supplierRepo, rankingRepo, notifier, eventHub, cfg.Policy)
	tierService := service.NewTierService(standingRepo, supplierRepo, cfg.Policy.Tiers)
	reportService := service.NewReportService(reportRepo, standingService, eventHub)
	appealService := service.NewAppealService(appealRepo, standingService, eventHub)
	onboardingService := service.NewOnboardingService(supplierRepo, standingService)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store. Upstream services retry metric ingestion,
	// so replays must not double-count bookings.
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize suspension sweeper
	if cfg.Jobs.SuspensionSweepEnabled {
		sweeper := jobs.NewSuspensionSweeper(standingService, cfg.Jobs.SuspensionSweepInterval)
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	standingHandler := handler.NewStandingHandler(standingService, appealService, tierService)
	supplierHandler := handler.NewSupplierHandler(onboardingService, tierService)
	appealHandler := handler.NewAppealHandler(appealService)
	eventsHandler := handler.NewEventsHandler(eventHub)

	// Create router and register routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	authHandler.RegisterRoutes(mux)
	reportHandler.RegisterRoutes(mux)
	standingHandler.RegisterRoutes(mux)
	supplierHandler.RegisterRoutes(mux)
	appealHandler.RegisterRoutes(mux)
	eventsHandler.RegisterRoutes(mux)

	// Apply global middleware. Token validation runs for every request and
	// populates the claims context; handlers enforce presence and role.
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.OptionalAuth(jwtService),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
