package handlers

import (
	"context"
	"errors"
	"time"

	"grantify/internal/bot/utils"
	"grantify/internal/storage/postgres"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /alerts command
func HandleAlerts(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := ctx.Store.GetUser(dbCtx, userID)
		if err != nil || user == nil {
			ctx.Logger.Error("failed to get user",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return c.Send("😔 Failed to load your settings. Try /start first.")
		}

		return c.Send(
			utils.FormatSettingsMessage(user),
			utils.SettingsKeyboard(user.CheckEnabled),
			tele.ModeMarkdownV2,
		)
	}
}

func setAlerts(ctx *Context, c tele.Context, enabled bool) error {
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// alerts run the default saved filter, so make sure it exists
	if enabled {
		if _, err := loadUserFilter(dbCtx, ctx, userID); err != nil {
			ctx.Logger.Error("failed to ensure filter", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 Failed to enable alerts")
		}
	}

	user, err := ctx.Store.SetAlertsEnabled(dbCtx, userID, enabled)
	if errors.Is(err, postgres.ErrUserNotFound) {
		return c.Send("😔 Failed to load your settings. Try /start first.")
	}
	if err != nil {
		ctx.Logger.Error("failed to set alerts",
			zap.Int64("user_id", userID),
			zap.Bool("enabled", enabled),
			zap.Error(err),
		)
		return c.Send("😔 Failed to save your settings")
	}

	prefix := "🔕 Alerts turned off\n\n"
	if enabled {
		prefix = "✅ Alerts turned on\\!\n\n"
	}

	return c.Send(
		prefix+utils.FormatSettingsMessage(user),
		utils.SettingsKeyboard(user.CheckEnabled),
		tele.ModeMarkdownV2,
	)
}

// /stats
func HandleStats(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := ctx.Store.GetUserStats(dbCtx, c.Sender().ID)
		if err != nil {
			ctx.Logger.Error("failed to get user stats", zap.Error(err))
			return c.Send("😔 Failed to load statistics")
		}

		return c.Send(utils.FormatStats(stats), tele.ModeMarkdownV2)
	}
}
