package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"grantify/internal/bot/utils"
	"grantify/internal/models"
	"grantify/internal/storage/postgres"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const MaxSavedFilters = 10

var filterNameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// /save <name> stores a copy of the current filter under name.
func HandleSave(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		name, ok := filterNameArg(c)
		if !ok {
			return c.Send("Usage: /save name (letters, digits, _ and -)")
		}

		userID := c.Sender().ID

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		existing, err := ctx.Store.GetSavedFilter(dbCtx, userID, name)
		if err != nil {
			ctx.Logger.Error("failed to get saved filter", zap.Error(err))
			return c.Send("😔 Failed to save the filter")
		}

		if existing == nil {
			count, err := ctx.Store.CountSavedFilters(dbCtx, userID)
			if err != nil {
				ctx.Logger.Error("failed to count saved filters", zap.Error(err))
				return c.Send("😔 Failed to save the filter")
			}
			// the default filter does not count towards the limit
			if count-1 >= MaxSavedFilters {
				return c.Send(fmt.Sprintf("⚠️ You can keep at most %d saved filters. Delete one with /saved first.", MaxSavedFilters))
			}
		}

		current, err := loadUserFilter(dbCtx, ctx, userID)
		if err != nil {
			ctx.Logger.Error("failed to load filter", zap.Error(err))
			return c.Send("😔 Failed to save the filter")
		}

		if _, err := saveUserFilter(dbCtx, ctx, userID, name, current); err != nil {
			ctx.Logger.Error("failed to save named filter", zap.String("name", name), zap.Error(err))
			return c.Send("😔 Failed to save the filter")
		}

		return c.Send(fmt.Sprintf("✅ Saved as *%s*", utils.EscapeMarkdown(name)), tele.ModeMarkdownV2)
	}
}

// /load <name> makes a saved filter the current one.
func HandleLoad(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		name, ok := filterNameArg(c)
		if !ok {
			return c.Send("Usage: /load name")
		}

		userID := c.Sender().ID

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		f, err := loadNamedFilter(dbCtx, ctx, userID, name, false)
		if errors.Is(err, errFilterNotSaved) {
			return c.Send(fmt.Sprintf("❓ No saved filter called *%s*\\. See /saved", utils.EscapeMarkdown(name)), tele.ModeMarkdownV2)
		}
		if err != nil {
			ctx.Logger.Error("failed to load named filter", zap.String("name", name), zap.Error(err))
			return c.Send("😔 Failed to load the filter")
		}

		if _, err := saveUserFilter(dbCtx, ctx, userID, models.DefaultSavedFilterName, f); err != nil {
			ctx.Logger.Error("failed to replace current filter", zap.Error(err))
			return c.Send("😔 Failed to load the filter")
		}

		return showFilter(ctx, c, utils.FilterMenuKeyboard())
	}
}

// /saved lists the named filters with delete buttons.
func HandleSaved(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		saved, err := ctx.Store.ListSavedFilters(dbCtx, c.Sender().ID)
		if err != nil {
			ctx.Logger.Error("failed to list saved filters", zap.Error(err))
			return c.Send("😔 Failed to list your filters")
		}

		menu := &tele.ReplyMarkup{}
		var rows []tele.Row
		var names []string
		for _, s := range saved {
			if s.Name == models.DefaultSavedFilterName {
				continue
			}
			names = append(names, "• "+utils.EscapeMarkdown(s.Name))
			rows = append(rows, menu.Row(menu.Data("🗑 "+s.Name, "filter_delete:"+s.Name)))
		}

		if len(names) == 0 {
			return c.Send("You have no saved filters yet\\. Use /save name", tele.ModeMarkdownV2)
		}

		menu.Inline(rows...)
		return c.Send("*Saved filters:*\n\n"+strings.Join(names, "\n")+"\n\nLoad one with /load name", menu, tele.ModeMarkdownV2)
	}
}

func handleFilterDelete(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 || parts[1] == models.DefaultSavedFilterName {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid format"})
	}

	name := parts[1]

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := ctx.Store.DeleteSavedFilter(dbCtx, c.Sender().ID, name)
	if err != nil && !errors.Is(err, postgres.ErrFilterNotFound) {
		ctx.Logger.Error("failed to delete filter", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Delete failed"})
	}

	text := fmt.Sprintf("✅ Filter *%s* deleted", utils.EscapeMarkdown(name))
	if err := c.Edit(text, tele.ModeMarkdownV2); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
		_ = c.Send(text, tele.ModeMarkdownV2)
	}

	return c.Respond(&tele.CallbackResponse{Text: "✅ Deleted"})
}

func filterNameArg(c tele.Context) (string, bool) {
	args := c.Args()
	if len(args) != 1 {
		return "", false
	}
	name := strings.ToLower(args[0])
	if !filterNameRegexp.MatchString(name) || name == models.DefaultSavedFilterName {
		return "", false
	}
	return name, true
}
