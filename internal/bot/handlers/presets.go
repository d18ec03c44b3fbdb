package handlers

import (
	"strings"

	"grantify/internal/bot/utils"
	"grantify/internal/filter"
	"grantify/internal/search"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /presets [key]
func HandlePresets(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if args := c.Args(); len(args) > 0 {
			key, ok := filter.ParsePresetKey(args[0])
			if !ok {
				return c.Send("❓ Unknown preset\\. Pick one below:", utils.PresetsKeyboard(), tele.ModeMarkdownV2)
			}
			if _, err := applyPreset(ctx, c.Sender().ID, key); err != nil {
				ctx.Logger.Error("failed to apply preset", zap.String("preset", string(key)), zap.Error(err))
				return c.Send("😔 Failed to apply the preset")
			}
			return showFilter(ctx, c, utils.FilterMenuKeyboard())
		}

		return c.Send(
			"⭐ *Presets*\n\nPick one to apply to your filter:",
			utils.PresetsKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

// applyPreset merges the preset into the user's current filter and
// starts over from the first page.
func applyPreset(ctx *Context, userID int64, key filter.PresetKey) (filter.Filter, error) {
	return updateUserFilter(ctx, userID, func(f filter.Filter) (filter.Filter, error) {
		_, merged := search.ApplyPreset(f, key)
		merged.Page = filter.DefaultPage
		return merged, nil
	})
}

func presetLabel(key filter.PresetKey) string {
	for _, p := range filter.Presets() {
		if p.Key == key {
			return p.Label
		}
	}
	return strings.ToLower(string(key))
}
