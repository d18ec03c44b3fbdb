package utils

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/filter"
	"grantify/internal/models"
)

// FormatGrant renders a grant card for Telegram MarkdownV2
func FormatGrant(grant *grants.GrantItem, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*%s*\n\n", EscapeMarkdown(grant.Title)))

	if grant.AgencyName != "" {
		sb.WriteString(fmt.Sprintf("🏛 *Agency:* %s\n", EscapeMarkdown(grant.AgencyName)))
	}

	sb.WriteString(fmt.Sprintf("💰 *Award:* %s\n", EscapeMarkdown(FormatAward(grant.AwardFloor, grant.AwardCeiling, grant.Currency))))
	sb.WriteString(fmt.Sprintf("📅 *Deadline:* %s\n", EscapeMarkdown(FormatDeadline(grant.CloseDate, now))))

	if grant.Status != "" {
		sb.WriteString(fmt.Sprintf("📌 *Status:* %s\n", EscapeMarkdown(filter.GetStatusDisplayName(grant.Status))))
	}

	if grant.GrantType != "" {
		sb.WriteString(fmt.Sprintf("📋 *Type:* %s\n", EscapeMarkdown(grant.GrantType)))
	}

	if len(grant.EligibleApplicantTypes) > 0 {
		sb.WriteString(fmt.Sprintf("👥 *Eligible:* %s\n", EscapeMarkdown(strings.Join(grant.EligibleApplicantTypes, ", "))))
	}

	if grant.URL != "" {
		sb.WriteString(fmt.Sprintf("\n🔗 [Open grant](%s)", escapeLinkURL(grant.URL)))
	}

	return sb.String()
}

func FormatAward(floor, ceiling *float64, currency string) string {
	symbol := currencySymbol(currency)

	switch {
	case floor != nil && ceiling != nil && *floor > 0:
		return fmt.Sprintf("%s%s - %s%s", symbol, FormatAmount(*floor), symbol, FormatAmount(*ceiling))
	case ceiling != nil:
		return fmt.Sprintf("up to %s%s", symbol, FormatAmount(*ceiling))
	case floor != nil:
		return fmt.Sprintf("from %s%s", symbol, FormatAmount(*floor))
	default:
		return "not specified"
	}
}

// FormatAmount groups thousands: 1250000 -> 1,250,000
func FormatAmount(v float64) string {
	s := strconv.FormatInt(int64(math.Round(v)), 10)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func currencySymbol(code string) string {
	switch code {
	case "USD", "CAD", "AUD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return ""
	}
}

// FormatDeadline describes a close date relative to now.
func FormatDeadline(closeDate *time.Time, now time.Time) string {
	if closeDate == nil {
		return "no deadline"
	}

	date := closeDate.UTC().Format("Jan 2, 2006")
	days := int(math.Floor(closeDate.Sub(now).Hours() / 24))

	switch {
	case days < 0:
		return fmt.Sprintf("%s (closed %s ago)", date, FormatDays(-days))
	case days == 0:
		return fmt.Sprintf("%s (today)", date)
	default:
		return fmt.Sprintf("%s (in %s)", date, FormatDays(days))
	}
}

func FormatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func FormatGrantList(items []grants.GrantItem, total int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📋 *Grants found:* %d\n", total))
	sb.WriteString(fmt.Sprintf("*Shown:* %d\n\n", len(items)))

	for i, g := range items {
		sb.WriteString(fmt.Sprintf("*%d\\. %s*\n", i+1, EscapeMarkdown(g.Title)))
		if g.AgencyName != "" {
			sb.WriteString(fmt.Sprintf("   🏛 %s\n", EscapeMarkdown(g.AgencyName)))
		}
		sb.WriteString(fmt.Sprintf("   💰 %s\n\n", EscapeMarkdown(FormatAward(g.AwardFloor, g.AwardCeiling, g.Currency))))
	}

	return sb.String()
}

// FormatFilterSummary lists the non-default parts of a filter.
func FormatFilterSummary(f filter.Filter) string {
	var sb strings.Builder

	sb.WriteString("*Your filter:*\n\n")

	if f.SearchTerm != "" {
		sb.WriteString(fmt.Sprintf("🔍 *Search:* %s\n", EscapeMarkdown(f.SearchTerm)))
	}

	sb.WriteString(fmt.Sprintf("💰 *Funding:* %s\n", EscapeMarkdown(describeFunding(f))))
	sb.WriteString(fmt.Sprintf("📅 *Deadline:* %s\n", EscapeMarkdown(describeDeadline(f))))

	if f.Statuses != nil {
		sb.WriteString(fmt.Sprintf("📌 *Status:* %s\n", EscapeMarkdown(describeSet(f.Statuses, filter.GetStatusDisplayName))))
	}
	if f.Currencies != nil {
		sb.WriteString(fmt.Sprintf("💱 *Currency:* %s\n", EscapeMarkdown(describeSet(f.Currencies, nil))))
	}
	if f.DataSourceIDs != nil {
		sb.WriteString(fmt.Sprintf("🗂 *Sources:* %s\n", EscapeMarkdown(describeSet(f.DataSourceIDs, nil))))
	}

	sb.WriteString(fmt.Sprintf("↕️ *Sort:* %s\n", EscapeMarkdown(filter.SortLabel(f.SortBy))))

	return sb.String()
}

func describeFunding(f filter.Filter) string {
	switch c := f.Criteria().Funding.(type) {
	case filter.FundingOnlyNull:
		return "only grants without funding info"
	case filter.FundingRange:
		var s string
		switch {
		case c.Min != nil && c.Max != nil && *c.Max >= filter.MaxFundingValue:
			s = fmt.Sprintf("$%s or more", FormatAmount(*c.Min))
		case c.Min != nil && c.Max != nil:
			s = fmt.Sprintf("$%s - $%s", FormatAmount(*c.Min), FormatAmount(*c.Max))
		case c.Min != nil:
			s = fmt.Sprintf("from $%s", FormatAmount(*c.Min))
		case c.Max != nil:
			s = fmt.Sprintf("up to $%s", FormatAmount(*c.Max))
		}
		if c.IncludeNull {
			s += ", plus unspecified"
		}
		return s
	default:
		return "any"
	}
}

func describeDeadline(f filter.Filter) string {
	switch c := f.Criteria().Deadline.(type) {
	case filter.DeadlineOnlyNull:
		return "only grants without a deadline"
	case filter.DeadlineWindow:
		var parts []string
		if c.MinDays != nil {
			parts = append(parts, fmt.Sprintf("from %s", describeOffset(*c.MinDays)))
		}
		if c.MaxDays != nil {
			parts = append(parts, fmt.Sprintf("until %s", describeOffset(*c.MaxDays)))
		}
		s := strings.Join(parts, " ")
		if s == "" {
			s = "any"
		}
		if c.ShowOverdue {
			s += ", overdue included"
		}
		if c.IncludeNull {
			s += ", plus no deadline"
		}
		return s
	default:
		return "any"
	}
}

func describeOffset(days int) string {
	switch {
	case days == 0:
		return "today"
	case days < 0:
		return FormatDays(-days) + " ago"
	default:
		return "in " + FormatDays(days)
	}
}

func describeSet(values []string, label func(string) string) string {
	if len(values) == 0 {
		return "none (matches nothing)"
	}
	out := make([]string, len(values))
	for i, v := range values {
		if label != nil {
			v = label(v)
		}
		out[i] = v
	}
	return strings.Join(out, ", ")
}

// FormatQuery prints backend parameters one per line, sorted by name.
func FormatQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("```\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s=%s\n", k, escapeCode(strings.Join(params[k], ","))))
	}
	sb.WriteString("```")
	return sb.String()
}

func FormatWelcomeMessage(firstName string) string {
	name := firstName
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(`👋 Hi, *%s*\!

I help you find grants and tell you when new ones match your filter\.

*What I can do:*
• Search grants with your saved filter
• Apply presets like "High funding" or "Closing soon"
• Notify you about new matching grants

*Commands:*
/filter \- show and edit your filter
/presets \- apply a preset
/grants \- search now
/alerts \- notification settings
/help \- help

Start with /presets for a quick setup`, EscapeMarkdown(name))
}

func FormatHelpMessage() string {
	return `*📖 Help*

*Commands:*

/start \- start the bot
/filter \- show your filter and the query it produces
/presets \- apply a preset to your filter
/grants \- search grants with your filter
/alerts \- turn notifications on or off
/save name \- keep a copy of your filter
/load name \- switch to a saved filter
/saved \- list saved filters
/stats \- your statistics
/help \- this message

*How it works:*

1️⃣ Set up your filter with /presets or the buttons under /filter
2️⃣ Run /grants to see matching grants
3️⃣ Turn on /alerts to get new grants as they appear`
}

func FormatNoGrantsMessage() string {
	return `😔 *No grants found*

Try widening your filter with /filter or /presets`
}

func FormatSettingsMessage(user *models.User) string {
	var sb strings.Builder

	sb.WriteString("*⚙️ Alert settings*\n\n")

	status := "❌ Off"
	if user.CheckEnabled {
		status = "✅ On"
	}
	sb.WriteString(fmt.Sprintf("*Status:* %s\n", status))
	sb.WriteString(fmt.Sprintf("*Interval:* every %s\n", EscapeMarkdown(FormatInterval(user.NotifyInterval))))

	return sb.String()
}

func FormatStats(stats models.UserStats) string {
	var sb strings.Builder

	sb.WriteString("*📊 Statistics*\n\n")
	sb.WriteString(fmt.Sprintf("Saved filters: %d\n", stats.SavedFilters))
	sb.WriteString(fmt.Sprintf("Grants seen: %d", stats.SeenGrants))
	if stats.LastSeenAt != nil {
		sb.WriteString("\nLast new grant: " + EscapeMarkdown(stats.LastSeenAt.UTC().Format("Jan 2, 2006")))
	}

	return sb.String()
}

func FormatInterval(minutes int) string {
	switch {
	case minutes%60 == 0 && minutes >= 120:
		return fmt.Sprintf("%d hours", minutes/60)
	case minutes == 60:
		return "hour"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

// EscapeMarkdown escapes special characters for Telegram MarkdownV2
func EscapeMarkdown(text string) string {
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)

	return replacer.Replace(text)
}

func escapeLinkURL(u string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(u)
}

func escapeCode(s string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(s)
}

func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
