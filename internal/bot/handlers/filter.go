package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grantify/internal/bot/utils"
	"grantify/internal/filter"
	"grantify/internal/models"
	"grantify/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// User states for conversation flow
const (
	StateIdle             = ""
	StateAwaitingSearch   = "awaiting_search"
	StateAwaitingFunding  = "awaiting_funding"
	StateAwaitingDeadline = "awaiting_deadline"
)

// /filter command
func HandleFilter(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		return showFilter(ctx, c, utils.FilterMenuKeyboard())
	}
}

// HandleText processes all text messages
func HandleText(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		userID := c.Sender().ID

		if text == utils.BtnCancel {
			return cancelConversation(ctx, c)
		}

		state, err := getUserState(ctx, userID)
		if err != nil {
			state = StateIdle
		}

		if state != StateIdle {
			return handleStateInput(ctx, c, state)
		}

		switch text {
		// Main menu
		case utils.BtnFilter:
			return HandleFilter(ctx)(c)
		case utils.BtnGrants:
			return HandleGrants(ctx)(c)
		case utils.BtnPresets:
			return HandlePresets(ctx)(c)
		case utils.BtnAlerts:
			return HandleAlerts(ctx)(c)
		case utils.BtnHelp:
			return HandleHelp(ctx)(c)

		// Filter menu
		case utils.BtnSearch:
			return startInput(ctx, c, StateAwaitingSearch,
				"🔍 Send the text to search for, or \\- to clear it:")
		case utils.BtnFunding:
			return startInput(ctx, c, StateAwaitingFunding,
				"💰 Send a funding range, for example 10k\\-500k, 1m\\+ or \\-50000\\.\n"+
					"Send *any* for no limit or *none* for grants without funding info\\.")
		case utils.BtnDeadline:
			return startInput(ctx, c, StateAwaitingDeadline,
				"📅 Send a deadline window in days from today, for example `0 30` or `-30 0`\\.\n"+
					"Use \\* for an open side, *any* for the default, *none* for grants without a deadline\\.")
		case utils.BtnStatus:
			return showStatusPicker(ctx, c)
		case utils.BtnSort:
			return showSortPicker(ctx, c)
		case utils.BtnShow:
			return showFilter(ctx, c, utils.FilterMenuKeyboard())
		case utils.BtnReset:
			return c.Send("🗑 Reset your filter to the defaults?", utils.ConfirmKeyboard("filter_reset"))
		case utils.BtnBack:
			return c.Send("Main menu", utils.MainMenuKeyboard())

		// Alerts menu
		case utils.BtnToggleOn:
			return setAlerts(ctx, c, true)
		case utils.BtnToggleOff:
			return setAlerts(ctx, c, false)
		case utils.BtnInterval:
			return c.Send("⏰ How often should I check for new grants?", utils.IntervalKeyboard())

		default:
			return c.Reply("Use the menu buttons or commands")
		}
	}
}

func startInput(ctx *Context, c tele.Context, state, prompt string) error {
	if err := setUserState(ctx, c.Sender().ID, state); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	return c.Send(prompt, utils.CancelKeyboard(), tele.ModeMarkdownV2)
}

func handleStateInput(ctx *Context, c tele.Context, state string) error {
	var apply func(filter.Filter, string) (filter.Filter, error)

	switch state {
	case StateAwaitingSearch:
		apply = applySearchInput
	case StateAwaitingFunding:
		apply = applyFundingInput
	case StateAwaitingDeadline:
		apply = applyDeadlineInput
	default:
		_ = clearUserState(ctx, c.Sender().ID)
		return c.Reply("Use the menu buttons or commands")
	}

	_, err := updateUserFilter(ctx, c.Sender().ID, func(f filter.Filter) (filter.Filter, error) {
		return apply(f, c.Text())
	})
	if err != nil {
		var inputErr *inputError
		if errors.As(err, &inputErr) {
			return c.Send(fmt.Sprintf("⚠️ %s\\. Try again or press Cancel\\.", utils.EscapeMarkdown(capitalize(inputErr.Error()))),
				utils.CancelKeyboard(), tele.ModeMarkdownV2)
		}
		ctx.Logger.Error("failed to update filter", zap.String("state", state), zap.Error(err))
		return c.Send("😔 Failed to save the filter")
	}

	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	return showFilter(ctx, c, utils.FilterMenuKeyboard())
}

// showFilter sends the filter summary together with the backend query it maps to.
func showFilter(ctx *Context, c tele.Context, markup *tele.ReplyMarkup) error {
	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f, err := loadUserFilter(dbCtx, ctx, c.Sender().ID)
	if err != nil {
		ctx.Logger.Error("failed to load filter", zap.Error(err))
		return c.Send("😔 Failed to load your filter")
	}

	message := utils.FormatFilterSummary(f) + "\n*Query:*\n" + utils.FormatQuery(ctx.Search.Preview(dbCtx, f))

	return c.Send(message, markup, tele.ModeMarkdownV2)
}

func showStatusPicker(ctx *Context, c tele.Context) error {
	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f, err := loadUserFilter(dbCtx, ctx, c.Sender().ID)
	if err != nil {
		ctx.Logger.Error("failed to load filter", zap.Error(err))
		return c.Send("😔 Failed to load your filter")
	}

	return c.Send("📌 Pick the statuses to include:", utils.StatusKeyboard(f.Statuses))
}

func showSortPicker(ctx *Context, c tele.Context) error {
	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f, err := loadUserFilter(dbCtx, ctx, c.Sender().ID)
	if err != nil {
		ctx.Logger.Error("failed to load filter", zap.Error(err))
		return c.Send("😔 Failed to load your filter")
	}

	return c.Send("↕️ Sort grants by:", utils.SortKeyboard(f.SortBy))
}

// inputError marks a filter update rejected because of what the user typed.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// updateUserFilter loads the default saved filter, applies fn and stores
// the normalized result.
func updateUserFilter(ctx *Context, userID int64, fn func(filter.Filter) (filter.Filter, error)) (filter.Filter, error) {
	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	current, err := loadUserFilter(dbCtx, ctx, userID)
	if err != nil {
		return filter.Filter{}, err
	}

	next, err := fn(current)
	if err != nil {
		return filter.Filter{}, &inputError{err: err}
	}

	return saveUserFilter(dbCtx, ctx, userID, models.DefaultSavedFilterName, next)
}

// loadUserFilter returns the user's default saved filter, creating it on first use.
func loadUserFilter(dbCtx context.Context, ctx *Context, userID int64) (filter.Filter, error) {
	return loadNamedFilter(dbCtx, ctx, userID, models.DefaultSavedFilterName, true)
}

func loadNamedFilter(dbCtx context.Context, ctx *Context, userID int64, name string, create bool) (filter.Filter, error) {
	saved, err := ctx.Store.GetSavedFilter(dbCtx, userID, name)
	if err != nil {
		return filter.Filter{}, fmt.Errorf("get saved filter: %w", err)
	}
	if saved != nil {
		return saved.Body.Filter(), nil
	}
	if !create {
		return filter.Filter{}, fmt.Errorf("%w: %s", errFilterNotSaved, name)
	}

	return saveUserFilter(dbCtx, ctx, userID, name, filter.Default())
}

var errFilterNotSaved = errors.New("no saved filter")

func saveUserFilter(dbCtx context.Context, ctx *Context, userID int64, name string, f filter.Filter) (filter.Filter, error) {
	f = filter.Normalize(f)

	saved := &models.SavedFilter{
		UserID: userID,
		Name:   name,
		Body:   models.FilterBody(f),
	}
	if err := ctx.Store.SaveFilter(dbCtx, saved); err != nil {
		return filter.Filter{}, fmt.Errorf("save filter: %w", err)
	}

	return f, nil
}

func setUserState(ctx *Context, userID int64, state string) error {
	return ctx.Cache.SetUserState(context.Background(), userID, state)
}

func getUserState(ctx *Context, userID int64) (string, error) {
	state, err := ctx.Cache.GetUserState(context.Background(), userID)
	if errors.Is(err, redis.ErrCacheMiss) {
		return StateIdle, nil
	}
	return state, err
}

func clearUserState(ctx *Context, userID int64) error {
	return ctx.Cache.DeleteUserState(context.Background(), userID)
}

func cancelConversation(ctx *Context, c tele.Context) error {
	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	return c.Send("❌ Cancelled", utils.FilterMenuKeyboard())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
