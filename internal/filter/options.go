package filter

// SortKey is the sort option the UI offers.
type SortKey string

const (
	SortRelevance    SortKey = "relevance"
	SortRecent       SortKey = "recent"
	SortDeadline     SortKey = "deadline"
	SortDeadlineLate SortKey = "deadline_desc"
	SortAmount       SortKey = "amount"
	SortAmountLow    SortKey = "amount_asc"
	SortTitle        SortKey = "title"
)

const (
	SortDirectionAsc  = "asc"
	SortDirectionDesc = "desc"
)

type sortSpec struct {
	Column    string
	Direction string
	Label     string
}

var sortTable = map[SortKey]sortSpec{
	SortRelevance:    {Column: "relevance", Direction: SortDirectionDesc, Label: "Most relevant"},
	SortRecent:       {Column: "created_at", Direction: SortDirectionDesc, Label: "Recently added"},
	SortDeadline:     {Column: "close_date", Direction: SortDirectionAsc, Label: "Deadline (soonest)"},
	SortDeadlineLate: {Column: "close_date", Direction: SortDirectionDesc, Label: "Deadline (latest)"},
	SortAmount:       {Column: "award_ceiling", Direction: SortDirectionDesc, Label: "Funding (highest)"},
	SortAmountLow:    {Column: "award_ceiling", Direction: SortDirectionAsc, Label: "Funding (lowest)"},
	SortTitle:        {Column: "title", Direction: SortDirectionAsc, Label: "Title (A-Z)"},
}

// SortKeys returns the known sort keys in display order.
func SortKeys() []SortKey {
	return []SortKey{
		SortRelevance,
		SortRecent,
		SortDeadline,
		SortDeadlineLate,
		SortAmount,
		SortAmountLow,
		SortTitle,
	}
}

// SortColumn resolves a sort key to the backend column and direction.
// Unknown keys are passed through as a column name, sorted descending.
func SortColumn(key SortKey) (column, direction string) {
	if entry, ok := sortTable[key]; ok {
		return entry.Column, entry.Direction
	}
	return string(key), SortDirectionDesc
}

func SortLabel(key SortKey) string {
	if entry, ok := sortTable[key]; ok {
		return entry.Label
	}
	return string(key)
}

func IsValidSortKey(key SortKey) bool {
	_, ok := sortTable[key]
	return ok
}

var StatusDisplayNames = map[string]string{
	"active":     "Active",
	"open":       "Open",
	"forecasted": "Forecasted",
	"closed":     "Closed",
	"archived":   "Archived",
}

var CurrencyDisplayNames = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "Pound Sterling",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
}

func StatusOptions() []string {
	return []string{"active", "open", "forecasted", "closed", "archived"}
}

func CurrencyOptions() []string {
	return []string{"USD", "EUR", "GBP", "CAD", "AUD"}
}

func IsValidStatus(status string) bool {
	_, ok := StatusDisplayNames[status]
	return ok
}

func IsValidCurrency(code string) bool {
	_, ok := CurrencyDisplayNames[code]
	return ok
}

func GetStatusDisplayName(status string) string {
	if name, ok := StatusDisplayNames[status]; ok {
		return name
	}
	return status
}
