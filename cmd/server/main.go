package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/musemap/trip-service/config"
	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/database"
	"github.com/musemap/trip-service/internal/handlers"
	"github.com/musemap/trip-service/internal/middleware"
	"github.com/musemap/trip-service/internal/planner"
	"github.com/musemap/trip-service/internal/telemetry"
	"github.com/musemap/trip-service/internal/visits"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting trip service")

	ctx := context.Background()

	telemetryCleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryCleanup(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	// Database is optional: without one, visits live in process memory.
	var repo visits.Repository
	if dbURL := config.GetDatabaseURL(); dbURL != "" {
		if err := database.Connect(
			ctx,
			dbURL,
			cfg.Database.MaxConnections,
			cfg.Database.MinConnections,
			cfg.Database.MaxConnLifetime,
			cfg.Database.MaxConnIdleTime,
		); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()
		repo = visits.NewPostgresRepository(database.Pool())
		logger.Info().Msg("Database connected")
	} else {
		repo = visits.NewMemoryRepository()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory visit storage")
	}

	var inner catalog.Source
	if cfg.Catalog.MuseumsURL != "" && cfg.Catalog.RulesURL != "" {
		inner = catalog.NewHTTPSource(cfg.Catalog.MuseumsURL, cfg.Catalog.RulesURL)
		logger.Info().Str("museums", cfg.Catalog.MuseumsURL).Str("rules", cfg.Catalog.RulesURL).Msg("Using remote catalog")
	} else {
		inner = catalog.NewFileSource(cfg.Catalog.MuseumsPath, cfg.Catalog.RulesPath)
		logger.Info().Str("museums", cfg.Catalog.MuseumsPath).Str("rules", cfg.Catalog.RulesPath).Msg("Using local catalog")
	}
	source := catalog.NewCachedSource(inner, cfg.Catalog.RefreshTTL)
	if err := source.Warmup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load museum catalog")
	}
	logger.Info().Msg("Catalog loaded")

	builder := planner.NewBuilder(&planner.Config{
		DefaultRadiusKm:  cfg.Planner.DefaultRadiusKm,
		DailyBudgetHours: cfg.Planner.DailyBudgetHours,
		DurationFullHrs:  3,
		DurationStdHrs:   1.5,
		MaxDays:          cfg.Planner.MaxDays,
	})

	handlers.Init(visits.NewService(repo, source, builder), source)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.ServiceRateLimitMiddleware(
		float64(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst))
	{
		internal.GET("/health", handlers.HealthCheck)

		visitRoutes := internal.Group("/visits")
		{
			visitRoutes.POST("", handlers.CreateVisit)
			visitRoutes.GET("", handlers.ListVisits)
			visitRoutes.GET("/:visitId", handlers.GetVisit)
			visitRoutes.PUT("/:visitId", handlers.UpdateVisit)
			visitRoutes.DELETE("/:visitId", handlers.DeleteVisit)
			visitRoutes.POST("/:visitId/generate", handlers.GenerateVisit)
			visitRoutes.POST("/:visitId/duplicate", handlers.DuplicateVisit)
		}

		plan := internal.Group("/plan")
		{
			plan.POST("/preview", handlers.PreviewPlan)
		}

		discounts := internal.Group("/discounts")
		{
			discounts.POST("/evaluate", handlers.EvaluateDiscounts)
		}

		eligibility := internal.Group("/eligibility")
		{
			eligibility.GET("/catalog", handlers.EligibilityCatalog)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "trip-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
