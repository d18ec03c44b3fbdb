package scheduler

import (
	"context"
	"fmt"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/bot/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// TelegramNotifier sends a digest followed by one card per grant.
type TelegramNotifier struct {
	bot    *tele.Bot
	pace   *rate.Limiter
	logger *zap.Logger
}

func NewTelegramNotifier(bot *tele.Bot, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		pace:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger: logger,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, userID int64, items []grants.GrantItem) error {
	recipient := &tele.User{ID: userID}

	digest := "🔔 *New grants\\!*\n\n" + utils.FormatGrantList(items, len(items))

	if _, err := n.bot.Send(recipient, digest, tele.ModeMarkdownV2); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	now := time.Now()
	for i := range items {
		if err := n.pace.Wait(ctx); err != nil {
			return fmt.Errorf("wait to send: %w", err)
		}

		message := utils.FormatGrant(&items[i], now)
		keyboard := utils.InlineGrantKeyboard(items[i].URL)

		if _, err := n.bot.Send(recipient, message, keyboard, tele.ModeMarkdownV2); err != nil {
			n.logger.Error("failed to send grant notification",
				zap.Int64("user_id", userID),
				zap.String("grant_id", items[i].ID),
				zap.Error(err),
			)
		}
	}

	return nil
}
