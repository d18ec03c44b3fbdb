package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/bot"
	"grantify/internal/bot/scheduler"
	"grantify/internal/config"
	"grantify/internal/logger"
	"grantify/internal/lookup"
	"grantify/internal/search"
	"grantify/internal/server"
	"grantify/internal/storage/postgres"
	"grantify/internal/storage/redis"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting grantify",
		zap.String("log_level", cfg.LogLevel),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("bot_enabled", cfg.BotEnabled()),
	)

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.Migrate(migrateCtx)
	cancelMigrate()
	if err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	grantsClient := grants.New(cfg.GrantsAPIURL, cfg.GrantsAPIKey, cfg.GrantsAPITimeout, log)

	// the api_sources table wins; the backend listing covers an empty table
	sources := lookup.NewSources(lookup.CachedLoader{
		Loader: lookup.Fallback{store, grantsClient},
		Cache:  cache,
		Key:    redis.DataSourcesKey(),
		TTL:    redis.DataSourcesCacheTTL,
		Logger: log,
	}, log)

	searchService := search.New(grantsClient, cache, sources, cfg.SearchCacheTTL, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	go func() {
		initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
		defer initCancel()

		if err := sources.Init(initCtx); err != nil {
			log.Warn("data sources not loaded, will retry on first use", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup

	if cfg.BotEnabled() {
		log.Info("initializing Telegram bot...")
		tgBot, err := bot.New(cfg, store, cache, searchService, log)
		if err != nil {
			log.Fatal("failed to create bot", zap.Error(err))
		}

		checker := scheduler.New(
			store,
			searchService,
			scheduler.NewTelegramNotifier(tgBot.GetBot(), log),
			scheduler.Options{
				Interval:  cfg.CheckInterval,
				MaxGrants: cfg.MaxGrantsPerCheck,
				UserDelay: 2 * time.Second,
			},
			log,
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			checker.Start(ctx)
		}()
		go func() {
			defer wg.Done()
			if err := tgBot.Start(ctx); err != nil {
				log.Error("bot stopped with error", zap.Error(err))
			}
		}()
	}

	srv := server.New(server.Deps{
		Searcher: searchService,
		Sessions: cache,
		Limiter:  cache,
		Health: map[string]server.Pinger{
			"postgres": store,
			"redis":    cache,
		},
		RequestLimit: cfg.RateLimitPerMinute,
		Logger:       log,
	})

	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		log.Error("HTTP server failed", zap.Error(err))
		cancel()
	}

	log.Info("shutting down gracefully...")
	wg.Wait()

	log.Info("grantify stopped")
}
