package filter

import "strings"

// PresetKey names a pre-built filter bundle.
type PresetKey string

const (
	PresetHighFunding   PresetKey = "HIGH_FUNDING"
	PresetSmallGrants   PresetKey = "SMALL_GRANTS"
	PresetClosingSoon   PresetKey = "CLOSING_SOON"
	PresetOverdue       PresetKey = "OVERDUE"
	PresetNoDeadline    PresetKey = "NO_DEADLINE"
	PresetNoFundingInfo PresetKey = "NO_FUNDING_INFO"
	PresetOpenOnly      PresetKey = "OPEN_ONLY"
)

const (
	highFundingFloor = 1_000_000
	smallGrantsCap   = 50_000
	closingSoonDays  = 30
)

// PresetInfo describes a preset for menus.
type PresetInfo struct {
	Key   PresetKey `json:"key"`
	Label string    `json:"label"`
}

var presetLabels = map[PresetKey]string{
	PresetHighFunding:   "High funding ($1M+)",
	PresetSmallGrants:   "Small grants (up to $50K)",
	PresetClosingSoon:   "Closing in 30 days",
	PresetOverdue:       "Overdue",
	PresetNoDeadline:    "No deadline",
	PresetNoFundingInfo: "Funding not specified",
	PresetOpenOnly:      "Open only",
}

// Presets lists every preset in menu order.
func Presets() []PresetInfo {
	keys := []PresetKey{
		PresetHighFunding,
		PresetSmallGrants,
		PresetClosingSoon,
		PresetOverdue,
		PresetNoDeadline,
		PresetNoFundingInfo,
		PresetOpenOnly,
	}

	infos := make([]PresetInfo, len(keys))
	for i, key := range keys {
		infos[i] = PresetInfo{Key: key, Label: presetLabels[key]}
	}
	return infos
}

// ParsePresetKey accepts keys in any case, with dashes or underscores.
func ParsePresetKey(s string) (PresetKey, bool) {
	key := PresetKey(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	_, ok := presetLabels[key]
	return key, ok
}

// Preset returns the patch for key, already passed through Validate.
// Unknown keys yield an empty patch. The current filter is ignored.
func Preset(_ Filter, key PresetKey) Patch {
	return Validate(presetTemplate(key))
}

func presetTemplate(key PresetKey) Patch {
	switch key {
	case PresetHighFunding:
		return Patch{
			FundingMin:         ptr(float64(highFundingFloor)),
			FundingMax:         ptr(float64(MaxFundingSentinel)),
			IncludeFundingNull: ptr(false),
			OnlyNoFunding:      ptr(false),
		}
	case PresetSmallGrants:
		return Patch{
			FundingMin:         ptr(0.0),
			FundingMax:         ptr(float64(smallGrantsCap)),
			IncludeFundingNull: ptr(false),
			OnlyNoFunding:      ptr(false),
		}
	case PresetClosingSoon:
		return Patch{
			DeadlineMinDays:   ptr(0),
			DeadlineMaxDays:   ptr(closingSoonDays),
			IncludeNoDeadline: ptr(false),
			OnlyNoDeadline:    ptr(false),
			ShowOverdue:       ptr(false),
			SortBy:            ptr(SortDeadline),
		}
	case PresetOverdue:
		return Patch{
			ShowOverdue:       ptr(true),
			DeadlineMinDays:   ptr(MinDeadlineDays),
			DeadlineMaxDays:   ptr(-1),
			IncludeNoDeadline: ptr(false),
			OnlyNoDeadline:    ptr(false),
		}
	case PresetNoDeadline:
		return Patch{
			OnlyNoDeadline: ptr(true),
		}
	case PresetNoFundingInfo:
		return Patch{
			OnlyNoFunding: ptr(true),
		}
	case PresetOpenOnly:
		return Patch{
			Statuses: []string{"open"},
		}
	default:
		return Patch{}
	}
}
