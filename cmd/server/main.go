package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sheikh-saqib/balance-alerts/internal/alerts"
	"github.com/sheikh-saqib/balance-alerts/internal/api"
	"github.com/sheikh-saqib/balance-alerts/internal/config"
	"github.com/sheikh-saqib/balance-alerts/internal/events/kafka"
	"github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/logger"
	"github.com/sheikh-saqib/balance-alerts/internal/pipeline"
	"github.com/sheikh-saqib/balance-alerts/internal/storage/cache"
	"github.com/sheikh-saqib/balance-alerts/internal/storage/memory"
	"github.com/sheikh-saqib/balance-alerts/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Settings come from Postgres when configured, otherwise from memory.
	var (
		customers interfaces.CustomerLookup
		settings  interfaces.SettingsStore
		writer    interfaces.SettingsWriter
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		store := postgres.NewPostgresSettingsStore(db)
		customers, settings, writer = store, store, store
	} else {
		log.Warn().Msg("DATABASE_URL not set, keeping alert settings in memory")
		store := memory.NewMemorySettingsStore()
		customers, settings, writer = store, store, store
	}

	var invalidator api.Invalidator
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable, settings cache will fall back to the store")
		}
		cached := cache.NewCachedSettingsStore(redisClient, settings, cfg.SettingsCacheTTL)
		settings, invalidator = cached, cached
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, kafka.Topics{
		Email: cfg.EmailTopic,
		SMS:   cfg.SMSTopic,
		Push:  cfg.PushTopic,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka publisher")
	}
	defer publisher.Close()

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.AccountEntryTopic, cfg.ConsumerGroupID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}
	defer consumer.Close()

	generator := alerts.NewGenerator()
	processor := pipeline.NewProcessor(customers, settings, publisher, generator)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Dependencies{
			Generator: generator,
			Entries:   processor,
			Settings:  writer,
			Cache:     invalidator,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	if err := processor.Run(ctx, consumer); err != nil {
		log.Error().Err(err).Msg("entry processing failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("balance alerts service stopped")
}
