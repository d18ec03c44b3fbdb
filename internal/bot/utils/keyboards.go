package utils

import (
	"strconv"

	"grantify/internal/filter"

	tele "gopkg.in/telebot.v3"
)

// Reply keyboard labels, matched by the text handler.
const (
	BtnFilter    = "🔧 Filter"
	BtnGrants    = "📋 Grants"
	BtnPresets   = "⭐ Presets"
	BtnAlerts    = "⚙️ Alerts"
	BtnHelp      = "❓ Help"
	BtnSearch    = "🔍 Search text"
	BtnFunding   = "💰 Funding"
	BtnDeadline  = "📅 Deadline"
	BtnStatus    = "📌 Status"
	BtnSort      = "↕️ Sort"
	BtnShow      = "📊 Show filter"
	BtnReset     = "🗑 Reset filter"
	BtnBack      = "◀️ Back"
	BtnCancel    = "❌ Cancel"
	BtnToggleOn  = "🔔 Turn alerts on"
	BtnToggleOff = "🔕 Turn alerts off"
	BtnInterval  = "⏰ Change interval"
)

func MainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	menu.Reply(
		menu.Row(menu.Text(BtnFilter), menu.Text(BtnGrants)),
		menu.Row(menu.Text(BtnPresets), menu.Text(BtnAlerts)),
		menu.Row(menu.Text(BtnHelp)),
	)

	return menu
}

func FilterMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	menu.Reply(
		menu.Row(menu.Text(BtnSearch), menu.Text(BtnFunding)),
		menu.Row(menu.Text(BtnDeadline), menu.Text(BtnStatus)),
		menu.Row(menu.Text(BtnSort), menu.Text(BtnPresets)),
		menu.Row(menu.Text(BtnShow), menu.Text(BtnReset)),
		menu.Row(menu.Text(BtnBack)),
	)

	return menu
}

func CancelKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnCancel)))
	return menu
}

func SettingsKeyboard(checkEnabled bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	toggle := menu.Text(BtnToggleOn)
	if checkEnabled {
		toggle = menu.Text(BtnToggleOff)
	}

	menu.Reply(
		menu.Row(toggle),
		menu.Row(menu.Text(BtnInterval)),
		menu.Row(menu.Text(BtnBack)),
	)

	return menu
}

// IntervalMinutes are the alert intervals a user can pick.
var IntervalMinutes = []int{15, 30, 60, 120, 360, 720}

func IntervalKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	var row []tele.Btn
	for _, m := range IntervalMinutes {
		row = append(row, menu.Data(FormatInterval(m), "settings_interval:"+strconv.Itoa(m)))
		if len(row) == 2 {
			rows = append(rows, menu.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, menu.Row(row...))
	}

	menu.Inline(rows...)
	return menu
}

func PresetsKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, p := range filter.Presets() {
		rows = append(rows, menu.Row(menu.Data(p.Label, "preset:"+string(p.Key))))
	}

	menu.Inline(rows...)
	return menu
}

// StatusKeyboard toggles statuses; selected is the filter's current set.
func StatusKeyboard(selected []string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	var rows []tele.Row
	for _, s := range filter.StatusOptions() {
		label := filter.GetStatusDisplayName(s)
		if chosen[s] {
			label = "✅ " + label
		}
		rows = append(rows, menu.Row(menu.Data(label, "status_toggle:"+s)))
	}
	rows = append(rows, menu.Row(menu.Data("Any status", "status_any")))

	menu.Inline(rows...)
	return menu
}

func SortKeyboard(current filter.SortKey) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, key := range filter.SortKeys() {
		label := filter.SortLabel(key)
		if key == current {
			label = "✅ " + label
		}
		rows = append(rows, menu.Row(menu.Data(label, "sort:"+string(key))))
	}

	menu.Inline(rows...)
	return menu
}

func InlineGrantKeyboard(grantURL string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	if grantURL == "" {
		return menu
	}

	menu.Inline(menu.Row(menu.URL("🔗 Open grant", grantURL)))
	return menu
}

// InlinePaginationKeyboard uses 1-based pages.
func InlinePaginationKeyboard(page, totalPages int, callbackPrefix string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	if totalPages <= 1 {
		return menu
	}

	var buttons []tele.Btn

	if page > 1 {
		buttons = append(buttons, menu.Data("⬅️ Prev", callbackPrefix+":"+strconv.Itoa(page-1)))
	}

	buttons = append(buttons, menu.Data(strconv.Itoa(page)+"/"+strconv.Itoa(totalPages), "noop"))

	if page < totalPages {
		buttons = append(buttons, menu.Data("Next ➡️", callbackPrefix+":"+strconv.Itoa(page+1)))
	}

	menu.Inline(menu.Row(buttons...))
	return menu
}

func ConfirmKeyboard(action string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	menu.Inline(menu.Row(
		menu.Data("✅ Yes", "confirm_yes:"+action),
		menu.Data("❌ No", "confirm_no"),
	))

	return menu
}
