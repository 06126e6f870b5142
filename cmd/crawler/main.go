package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/sporttery-odds-service/internal/config"
	"github.com/cypherlabdev/sporttery-odds-service/internal/crawler"
	"github.com/cypherlabdev/sporttery-odds-service/internal/messaging"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/provider"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
	"github.com/cypherlabdev/sporttery-odds-service/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	date := flag.String("date", time.Now().Format("2006-01-02"), "match day to crawl (YYYY-MM-DD)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if _, err := time.Parse("2006-01-02", *date); err != nil {
		log.Fatal().Str("date", *date).Msg("date must be YYYY-MM-DD")
	}

	logger := setupLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	oddsProvider, err := provider.New(cfg.Provider, metrics.New(prometheus.NewRegistry()), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create odds provider")
	}

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
	}

	var publisher crawler.Publisher
	if cfg.Kafka.Enabled {
		producer := messaging.NewHistoryProducer(messaging.HistoryProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, logger)
		defer producer.Close()
		publisher = producer
	}

	c := crawler.New(oddsProvider, archive, publisher, crawler.Config{
		Concurrency: cfg.Crawler.Concurrency,
		OutputDir:   cfg.Crawler.OutputDir,
	}, logger)

	result, err := c.Run(ctx, *date)
	if err != nil {
		logger.Error().Err(err).Str("date", *date).Msg("crawl failed")
		os.Exit(1)
	}

	logger.Info().
		Str("date", result.Date).
		Int("match_count", result.MatchCount).
		Int("history_count", result.HistoryCount).
		Str("output_file", result.OutputFile).
		Msg("odds histories saved")
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

	return log.Logger.With().Str("service", "sporttery-odds-crawler").Logger()
}
