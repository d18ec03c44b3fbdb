package handlers

import (
	"context"
	"fmt"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/bot/utils"
	"grantify/internal/filter"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /grants
func HandleGrants(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return sendGrantsPage(ctx, c, filter.DefaultPage)
	}
}

func sendGrantsPage(ctx *Context, c tele.Context, page int) error {
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f, err := loadUserFilter(dbCtx, ctx, userID)
	if err != nil {
		ctx.Logger.Error("failed to load filter", zap.Int64("user_id", userID), zap.Error(err))
		return c.Reply("😔 Failed to load your filter")
	}

	f.Page = page
	f.Limit = ctx.Config.MaxGrantsPerCheck

	searchMsg, _ := c.Bot().Send(c.Recipient(), "🔍 Searching grants...")

	result, err := ctx.Search.Search(dbCtx, f)
	if err != nil {
		ctx.Logger.Error("failed to search grants",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		if searchMsg != nil {
			c.Bot().Edit(searchMsg, "😔 Grant search failed. Please try again later.")
		}
		return nil
	}

	if searchMsg != nil {
		c.Bot().Delete(searchMsg)
	}

	if len(result.Grants) == 0 {
		return c.Send(utils.FormatNoGrantsMessage(), tele.ModeMarkdownV2)
	}

	summary := fmt.Sprintf("📋 *Grants found:* %d", result.Total)
	if err := c.Send(summary, tele.ModeMarkdownV2); err != nil {
		ctx.Logger.Error("failed to send summary", zap.Error(err))
		return c.Reply("😔 Failed to send grants")
	}

	now := time.Now()
	for i := range result.Grants {
		g := &result.Grants[i]
		if err := c.Send(utils.FormatGrant(g, now), utils.InlineGrantKeyboard(g.URL), tele.ModeMarkdownV2); err != nil {
			ctx.Logger.Error("failed to send grant",
				zap.Int64("user_id", userID),
				zap.String("grant_id", g.ID),
				zap.Error(err),
			)
		}
	}

	go rememberGrants(ctx, userID, result.Grants)

	current := result.Page
	if current < 1 {
		current = f.Page
	}
	sendPaginationControls(ctx, c, current, result.TotalPages)

	return nil
}

func sendPaginationControls(ctx *Context, c tele.Context, page, totalPages int) {
	if totalPages <= 1 {
		return
	}

	text := fmt.Sprintf("📄 Page %d of %d", page, totalPages)
	if err := c.Send(text, utils.InlinePaginationKeyboard(page, totalPages, "grants_page")); err != nil {
		ctx.Logger.Warn("failed to send pagination controls", zap.Error(err))
	}
}

// rememberGrants caches the shown grants and marks them as seen so alerts skip them.
func rememberGrants(ctx *Context, userID int64, items []grants.GrantItem) {
	dbCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := range items {
		if err := ctx.Store.CacheGrant(dbCtx, items[i].Model()); err != nil {
			ctx.Logger.Error("failed to cache grant",
				zap.String("grant_id", items[i].ID),
				zap.Error(err),
			)
		}

		if err := ctx.Store.MarkGrantAsSeen(dbCtx, userID, items[i].ID); err != nil {
			ctx.Logger.Error("failed to mark grant as seen",
				zap.Int64("user_id", userID),
				zap.String("grant_id", items[i].ID),
				zap.Error(err),
			)
		}
	}

	ctx.Logger.Info("marked grants as seen",
		zap.Int64("user_id", userID),
		zap.Int("count", len(items)),
	)
}
