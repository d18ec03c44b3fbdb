package bot

import (
	"context"
	"fmt"
	"time"

	"grantify/internal/bot/handlers"
	"grantify/internal/bot/middleware"
	"grantify/internal/config"
	"grantify/internal/search"
	"grantify/internal/storage/postgres"
	"grantify/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot represents Telegram bot
type Bot struct {
	bot    *tele.Bot
	store  *postgres.Store
	cache  *redis.Cache
	search *search.Service
	config *config.Config
	logger *zap.Logger
}

func New(
	cfg *config.Config,
	store *postgres.Store,
	cache *redis.Cache,
	searchService *search.Service,
	logger *zap.Logger,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		store:  store,
		cache:  cache,
		search: searchService,
		config: cfg,
		logger: logger,
	}

	bot.setupMiddleware()

	bot.registerHandlers()

	logger.Info("bot initialized successfully")

	return bot, nil
}

func (b *Bot) setupMiddleware() {
	b.bot.Use(middleware.Recovery(b.logger))

	b.bot.Use(middleware.Logger(b.logger))

	b.bot.Use(middleware.RateLimit(b.cache, b.config.RateLimitPerMinute, b.logger))
}

func (b *Bot) registerHandlers() {
	ctx := &handlers.Context{
		Store:  b.store,
		Cache:  b.cache,
		Search: b.search,
		Config: b.config,
		Logger: b.logger,
	}

	b.bot.Handle("/start", handlers.HandleStart(ctx))
	b.bot.Handle("/help", handlers.HandleHelp(ctx))
	b.bot.Handle("/filter", handlers.HandleFilter(ctx))
	b.bot.Handle("/presets", handlers.HandlePresets(ctx))
	b.bot.Handle("/grants", handlers.HandleGrants(ctx))
	b.bot.Handle("/alerts", handlers.HandleAlerts(ctx))
	b.bot.Handle("/stats", handlers.HandleStats(ctx))
	b.bot.Handle("/save", handlers.HandleSave(ctx))
	b.bot.Handle("/load", handlers.HandleLoad(ctx))
	b.bot.Handle("/saved", handlers.HandleSaved(ctx))

	b.bot.Handle(tele.OnText, handlers.HandleText(ctx))

	b.bot.Handle(tele.OnCallback, handlers.HandleCallback(ctx))

	b.logger.Info("handlers registered")
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting bot...")

	go b.bot.Start()

	<-ctx.Done()

	b.logger.Info("stopping bot...")
	b.bot.Stop()

	return nil
}

func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
