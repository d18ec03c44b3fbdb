package middleware

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Counter counts updates per user in a fixed window.
type Counter interface {
	IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error)
}

// RateLimit drops updates from users above limit per window. Counter
// failures let the update through.
func RateLimit(counter Counter, limit int, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			count, err := counter.IncrementUserRateLimit(ctx, user.ID)
			if err != nil {
				logger.Error("failed to check rate limit",
					zap.Int64("user_id", user.ID),
					zap.Error(err),
				)
				return next(c)
			}

			if count > int64(limit) {
				logger.Warn("rate limit exceeded",
					zap.Int64("user_id", user.ID),
					zap.Int64("count", count),
				)

				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: "⚠️ Too many requests"})
				}

				return c.Reply(fmt.Sprintf(
					"⚠️ Too many requests, please wait a minute.\n"+
						"Limit: %d requests per minute.",
					limit,
				))
			}

			return next(c)
		}
	}
}
