package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/sporttery-odds-service/internal/cache"
	"github.com/cypherlabdev/sporttery-odds-service/internal/config"
	httpHandler "github.com/cypherlabdev/sporttery-odds-service/internal/handler/http"
	"github.com/cypherlabdev/sporttery-odds-service/internal/messaging"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/provider"
	"github.com/cypherlabdev/sporttery-odds-service/internal/report"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
	"github.com/cypherlabdev/sporttery-odds-service/internal/storage"
	"github.com/cypherlabdev/sporttery-odds-service/pkg/alignment"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Str("provider", cfg.Provider.Name).Msg("starting sporttery-odds-service")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Odds provider
	oddsProvider, err := provider.New(cfg.Provider, m, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create odds provider")
	}
	logger.Info().Str("provider", oddsProvider.Name()).Msg("odds provider initialized")

	// Cache
	var oddsCache service.Cache = cache.NopCache{}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(
			cache.RedisCacheConfig{
				Addr:       cfg.Redis.Addr,
				Password:   cfg.Redis.Password,
				DB:         cfg.Redis.DB,
				TTL:        cfg.Redis.TTL,
				HistoryTTL: cfg.Redis.HistoryTTL,
			},
			logger,
		)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		oddsCache = redisCache
	} else {
		logger.Info().Msg("Redis disabled, caching turned off")
	}
	defer oddsCache.Close()

	// Optional history archive
	var archive service.HistoryArchive
	if cfg.Postgres.DSN != "" {
		pgArchive, err := storage.NewPostgresArchive(ctx, storage.PostgresArchiveConfig{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Postgres")
		}
		defer pgArchive.Close()
		if err := pgArchive.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to create archive schema")
		}
		archive = pgArchive
		logger.Info().Msg("odds history archive enabled")
	}

	// Services
	matchService := service.NewMatchService(oddsProvider, oddsCache, archive, m, cfg.Export.Concurrency, logger)
	exportService := service.NewExportService(
		matchService,
		alignment.NewAligner(cfg.Alignment.ToParams(), logger),
		report.NewAssembler(report.Config{
			OutputDir:      cfg.Export.OutputDir,
			FilenamePrefix: cfg.Export.FilenamePrefix,
		}, logger),
		m,
		logger,
	)
	logger.Info().Msg("services initialized")

	// Kafka consumer warms the history cache with crawler batches
	if cfg.Kafka.Enabled {
		consumer := messaging.NewKafkaConsumer(
			messaging.KafkaConsumerConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			},
			oddsCache,
			logger,
		)
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("Kafka consumer failed")
			}
		}()
	}

	// HTTP
	oddsHandler := httpHandler.NewOddsHandler(matchService, exportService, cfg.Export.OutputDir, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpHandler.NewRouter(oddsHandler, registry, cfg.Server.CORSOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down gracefully...")

	// Cancel context to stop consumer
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "sporttery-odds").Logger()
}
