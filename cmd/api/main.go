package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"scambait-lab/internal/api"
	"scambait-lab/internal/api/handlers"
	"scambait-lab/internal/config"
	"scambait-lab/internal/domain/services"
	"scambait-lab/internal/infrastructure/cache"
	"scambait-lab/internal/infrastructure/database"
	"scambait-lab/internal/infrastructure/database/repository"
	"scambait-lab/internal/streaming"
	"scambait-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Scambait Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is the optional durable mirror for session intelligence.
	// The honeypot runs memory-only without it.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, running memory-only")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	// Postgres archives finalized session reports. Optional.
	var reports *repository.SessionReportRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, report archive disabled")
		} else {
			defer db.Close()
			reports = repository.NewSessionReportRepository(db.Pool())
			if err := reports.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure report schema, report archive disabled")
				reports = nil
			} else {
				log.Info().Msg("session report archive initialized")
			}
		}
	}

	// NATS streams capture events to downstream reporting. Optional.
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without event streaming")
		} else {
			defer natsPublisher.Close()
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}
	eventPublisher := streaming.NewServicePublisher(natsPublisher)

	// Build the engagement core
	patterns := services.NewPatternLibrary(log)
	validator := services.NewCandidateValidator(log)
	extractor := services.NewExtractor(patterns, validator, log)

	var sessionStore services.SessionStore
	if redisCache != nil {
		sessionStore = redisCache
	}
	accumulator := services.NewAccumulator(sessionStore, log)

	policy := services.NewEngagementPolicy(cfg.Engagement, log)
	personas := services.NewPersonaEngine(cfg.Persona, nil, log)
	identities := services.NewIdentityGenerator(log)

	var reportRepo services.ReportRepository
	if reports != nil {
		reportRepo = reports
	}
	engagement := services.NewEngagementService(
		extractor, accumulator, policy, personas, identities,
		reportRepo, eventPublisher, log,
	)
	log.Info().Msg("engagement core initialized")

	// Initialize handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		Engagement: engagement,
		Reports:    reports,
		Cache:      redisCache,
		Logger:     log,
	})
	router := api.NewRouter(*cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
