package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"grantify/internal/bot/utils"
	"grantify/internal/filter"
)

const maxSearchTermLength = 200

var (
	errEmptyInput = errors.New("empty input")
	errBadRange   = errors.New("minimum is greater than maximum")
)

// applySearchInput sets the search term; "-" clears it.
func applySearchInput(f filter.Filter, text string) (filter.Filter, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return f, errEmptyInput
	}
	if text == "-" {
		text = ""
	}
	if utf8.RuneCountInString(text) > maxSearchTermLength {
		return f, fmt.Errorf("search text is longer than %d characters", maxSearchTermLength)
	}

	f.SearchTerm = text
	f.Page = filter.DefaultPage
	return f, nil
}

// applyFundingInput understands "any", "none", "10000-50000", "10000+"
// and "-50000". Amounts may use k/m suffixes and thousands separators.
func applyFundingInput(f filter.Filter, text string) (filter.Filter, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	f.Page = filter.DefaultPage

	switch text {
	case "":
		return f, errEmptyInput
	case "any":
		d := filter.Default()
		f.FundingMin, f.FundingMax = d.FundingMin, d.FundingMax
		f.IncludeFundingNull, f.OnlyNoFunding = d.IncludeFundingNull, d.OnlyNoFunding
		return f, nil
	case "none":
		f.OnlyNoFunding = true
		f.IncludeFundingNull = true
		return f, nil
	}

	var lo, hi string
	switch {
	case strings.HasSuffix(text, "+"):
		lo = strings.TrimSuffix(text, "+")
	case strings.Contains(text, "-"):
		lo, hi, _ = strings.Cut(text, "-")
	default:
		lo = text
	}

	minimum, err := parseOptionalAmount(lo)
	if err != nil {
		return f, err
	}
	maximum, err := parseOptionalAmount(hi)
	if err != nil {
		return f, err
	}
	if minimum == nil && maximum == nil {
		return f, errEmptyInput
	}
	if minimum != nil && maximum != nil && *minimum > *maximum {
		return f, errBadRange
	}
	if maximum != nil && *maximum > filter.MaxFundingSentinel {
		v := float64(filter.MaxFundingSentinel)
		maximum = &v
	}

	f.FundingMin = minimum
	f.FundingMax = maximum
	f.OnlyNoFunding = false
	return f, nil
}

func parseOptionalAmount(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := parseAmount(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseAmount accepts 50000, 50,000, $50k and 1.5m.
func parseAmount(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		multiplier, s = 1_000, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		multiplier, s = 1_000_000, strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	v *= multiplier
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return v, nil
}

// applyDeadlineInput understands "any", "none" and a day window like
// "0 30", "-30 0" or "7 *", where * leaves that side open. Offsets are
// clamped to the supported range; a negative minimum includes overdue grants.
func applyDeadlineInput(f filter.Filter, text string) (filter.Filter, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	f.Page = filter.DefaultPage

	switch text {
	case "":
		return f, errEmptyInput
	case "any":
		d := filter.Default()
		f.DeadlineMinDays, f.DeadlineMaxDays = d.DeadlineMinDays, d.DeadlineMaxDays
		f.IncludeNoDeadline, f.OnlyNoDeadline, f.ShowOverdue = d.IncludeNoDeadline, d.OnlyNoDeadline, d.ShowOverdue
		return f, nil
	case "none":
		f.OnlyNoDeadline = true
		f.IncludeNoDeadline = true
		f.ShowOverdue = false
		return f, nil
	}

	fields := strings.Fields(text)
	if len(fields) > 2 {
		return f, fmt.Errorf("expected at most two numbers, got %d", len(fields))
	}

	minDays, err := parseOptionalDays(fields[0])
	if err != nil {
		return f, err
	}
	var maxDays *int
	if len(fields) == 2 {
		if maxDays, err = parseOptionalDays(fields[1]); err != nil {
			return f, err
		}
	}
	if minDays == nil && maxDays == nil {
		return f, errEmptyInput
	}
	if minDays != nil && maxDays != nil && *minDays > *maxDays {
		return f, errBadRange
	}

	f.DeadlineMinDays = minDays
	f.DeadlineMaxDays = maxDays
	f.OnlyNoDeadline = false
	f.ShowOverdue = minDays != nil && *minDays < 0
	return f, nil
}

func parseOptionalDays(s string) (*int, error) {
	if s == "*" {
		return nil, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number of days %q", s)
	}
	days = max(filter.MinDeadlineDays, min(days, filter.MaxDeadlineDays))
	return &days, nil
}

// toggleStatus adds or removes status. Removing the last one leaves an
// empty set, which matches no grants.
func toggleStatus(f filter.Filter, status string) filter.Filter {
	f.Page = filter.DefaultPage

	next := make([]string, 0, len(f.Statuses)+1)
	found := false
	for _, s := range f.Statuses {
		if s == status {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, status)
	}

	f.Statuses = next
	return f
}

// parseInterval reads the minutes from a settings_interval callback.
func parseInterval(s string) (int, bool) {
	minutes, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	for _, m := range utils.IntervalMinutes {
		if m == minutes {
			return minutes, true
		}
	}
	return 0, false
}
