package handlers

import (
	"context"
	"time"

	"grantify/internal/bot/utils"
	"grantify/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// alerts start switched off with an hourly interval
const defaultNotifyInterval = 60

// /start command
func HandleStart(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		userName := c.Sender().Username
		firstName := c.Sender().FirstName
		lastName := c.Sender().LastName

		ctx.Logger.Info("user started bot",
			zap.Int64("user_id", userID),
			zap.String("username", userName),
		)

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		created, err := ctx.Store.RegisterUser(dbCtx, &models.User{
			ID:             userID,
			Username:       stringPtr(userName),
			FirstName:      stringPtr(firstName),
			LastName:       stringPtr(lastName),
			CheckEnabled:   false,
			NotifyInterval: defaultNotifyInterval,
		})
		if err != nil {
			ctx.Logger.Error("failed to register user", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 Registration failed. Please try again later.")
		}
		if created {
			ctx.Logger.Info("new user created", zap.Int64("user_id", userID))
		}

		// every user gets a default saved filter the alerts can run
		if _, err := loadUserFilter(dbCtx, ctx, userID); err != nil {
			ctx.Logger.Warn("failed to ensure default filter", zap.Int64("user_id", userID), zap.Error(err))
		}

		return c.Send(
			utils.FormatWelcomeMessage(firstName),
			utils.MainMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
