package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"grantify/internal/bot/utils"
	"grantify/internal/filter"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// HandleCallback processes all callback queries from inline buttons
func HandleCallback(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			ctx.Logger.Warn("callback is nil")
			return nil
		}

		action, parts := parseCallbackData(cb.Data)

		ctx.Logger.Debug("routing callback",
			zap.String("action", action),
			zap.Strings("parts", parts),
			zap.Int64("user_id", c.Sender().ID),
		)

		switch action {
		case "preset":
			return handlePreset(ctx, c, parts)
		case "status_toggle":
			return handleStatusToggle(ctx, c, parts)
		case "status_any":
			return handleStatusAny(ctx, c)
		case "sort":
			return handleSort(ctx, c, parts)
		case "grants_page":
			return handleGrantsPage(ctx, c, parts)
		case "filter_delete":
			return handleFilterDelete(ctx, c, parts)
		case "settings_toggle":
			return handleSettingsToggle(ctx, c)
		case "settings_interval":
			return handleSettingsInterval(ctx, c, parts)
		case "confirm_yes":
			return handleConfirmYes(ctx, c, parts)
		case "confirm_no":
			return handleConfirmNo(ctx, c)
		case "noop":
			return c.Respond()
		default:
			ctx.Logger.Warn("unknown callback action",
				zap.String("action", action),
				zap.String("data", cb.Data),
			)
			return c.Respond(&tele.CallbackResponse{Text: "❓ Unknown action"})
		}
	}
}

// parseCallbackData strips the \f prefix telebot adds and splits "action:param".
func parseCallbackData(data string) (string, []string) {
	data = strings.TrimPrefix(data, "\f")
	parts := strings.Split(data, ":")
	return parts[0], parts
}

// ==================== Filter ====================

func handlePreset(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid format"})
	}

	key, ok := filter.ParsePresetKey(parts[1])
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❓ Unknown preset"})
	}

	f, err := applyPreset(ctx, c.Sender().ID, key)
	if err != nil {
		ctx.Logger.Error("failed to apply preset", zap.String("preset", string(key)), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Failed to apply preset"})
	}

	if err := c.Edit(utils.FormatFilterSummary(f), tele.ModeMarkdownV2); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "✅ " + presetLabel(key)})
}

func handleStatusToggle(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 || !filter.IsValidStatus(parts[1]) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid format"})
	}

	return updateStatuses(ctx, c, func(f filter.Filter) filter.Filter {
		return toggleStatus(f, parts[1])
	})
}

func handleStatusAny(ctx *Context, c tele.Context) error {
	return updateStatuses(ctx, c, func(f filter.Filter) filter.Filter {
		f.Statuses = nil
		f.Page = filter.DefaultPage
		return f
	})
}

func updateStatuses(ctx *Context, c tele.Context, fn func(filter.Filter) filter.Filter) error {
	f, err := updateUserFilter(ctx, c.Sender().ID, func(f filter.Filter) (filter.Filter, error) {
		return fn(f), nil
	})
	if err != nil {
		ctx.Logger.Error("failed to update statuses", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Failed to save"})
	}

	if err := c.Edit("📌 Pick the statuses to include:", utils.StatusKeyboard(f.Statuses)); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond()
}

func handleSort(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 || !filter.IsValidSortKey(filter.SortKey(parts[1])) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid format"})
	}

	key := filter.SortKey(parts[1])
	f, err := updateUserFilter(ctx, c.Sender().ID, func(f filter.Filter) (filter.Filter, error) {
		f.SortBy = key
		f.Page = filter.DefaultPage
		return f, nil
	})
	if err != nil {
		ctx.Logger.Error("failed to update sort", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Failed to save"})
	}

	if err := c.Edit("↕️ Sort grants by:", utils.SortKeyboard(f.SortBy)); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "✅ " + filter.SortLabel(key)})
}

func resetFilter(ctx *Context, c tele.Context) error {
	_, err := updateUserFilter(ctx, c.Sender().ID, func(filter.Filter) (filter.Filter, error) {
		return filter.Default(), nil
	})
	if err != nil {
		ctx.Logger.Error("failed to reset filter", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Failed to reset"})
	}

	if err := c.Edit("✅ Filter reset to the defaults"); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "✅ Reset"})
}

// ==================== Grants ====================

func handleGrantsPage(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid format"})
	}

	page, err := strconv.Atoi(parts[1])
	if err != nil || page < 1 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid page"})
	}

	if err := c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("📄 Page %d", page)}); err != nil {
		ctx.Logger.Warn("failed to respond to callback", zap.Error(err))
	}

	return sendGrantsPage(ctx, c, page)
}

// ==================== Settings ====================

func handleSettingsToggle(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ctx.Store.ToggleAlerts(dbCtx, userID)
	if err != nil {
		ctx.Logger.Error("failed to toggle alerts", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Failed to save"})
	}

	responseText := "✅ Alerts on"
	if !user.CheckEnabled {
		responseText = "🔕 Alerts off"
	}

	return c.Respond(&tele.CallbackResponse{Text: responseText})
}

func handleSettingsInterval(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Edit("⏰ How often should I check for new grants?", utils.IntervalKeyboard())
	}

	minutes, ok := parseInterval(parts[1])
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid interval"})
	}

	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ctx.Store.SetAlertInterval(dbCtx, userID, minutes)
	if err != nil {
		ctx.Logger.Error("failed to set notify interval", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Failed to save"})
	}

	if err := c.Edit("✅ Interval updated\n\n"+utils.FormatSettingsMessage(user), tele.ModeMarkdownV2); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "✅ Every " + utils.FormatInterval(minutes)})
}

// ==================== Confirmation ====================

func handleConfirmYes(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid format"})
	}

	switch parts[1] {
	case "filter_reset":
		return resetFilter(ctx, c)
	default:
		return c.Respond(&tele.CallbackResponse{Text: "❓ Unknown action"})
	}
}

func handleConfirmNo(ctx *Context, c tele.Context) error {
	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	if err := c.Edit("❌ Cancelled"); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "❌ Cancelled"})
}
