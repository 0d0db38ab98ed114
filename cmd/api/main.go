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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/adapters/cache"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/adapters/pipeline"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/routes"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/config"
)

func main() {
	// Load .env if present; real deployments configure the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Logging.Env, cfg.Logging.Level)

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Logging.Env).
		Str("pipeline_provider", cfg.Pipeline.Provider).
		Msg("Starting analysis server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Load rule tables. A service without valid rules must not come up.
	ruleSet, err := rules.Load(cfg.Rules.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rule tables")
	}
	log.Info().
		Int("target_rules", len(ruleSet.TargetRules)).
		Int("lab_rules", len(ruleSet.LabRules)).
		Int("code_entries", len(ruleSet.CodeMap)).
		Msg("Rule tables loaded")

	// Initialize the clinical pipeline. Same story: no pipeline, no service.
	clinicalPipeline, err := pipeline.New(pipeline.Config{
		Provider: cfg.Pipeline.Provider,
		Model:    cfg.Pipeline.Model,
		URL:      cfg.Pipeline.URL,
		Rules:    ruleSet,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize clinical pipeline")
	}
	if closer, ok := clinicalPipeline.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info().Str("provider", cfg.Pipeline.Provider).Msg("Clinical pipeline initialized successfully")

	// Initialize Redis for shared rate-limit state when enabled
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client; rate limiting falls back to in-process state")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			log.Info().Msg("Redis client initialized successfully")
		}
	}

	// Initialize services
	detector := services.NewContextDetector(ruleSet.Cues)
	labExtractor, err := services.NewLabExtractor(ruleSet.LabRules, detector)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compile lab rules")
	}
	codeMapper := services.NewCodeMapper(ruleSet.CodeMap)
	normalizer := services.NewEntityNormalizer(codeMapper, detector)
	analysisService := services.NewAnalysisService(clinicalPipeline, normalizer, labExtractor)

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analysisService, cacheProvider, cfg.RateLimit.PerMinute)

	// Set up router
	router := routes.NewRouter(analyzeHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
