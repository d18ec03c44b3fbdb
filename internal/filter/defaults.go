package filter

// Default returns the filter every fresh session starts from and every
// reset returns to: any amount, upcoming or undated deadlines, no set
// restrictions, first page.
func Default() Filter {
	return Filter{
		SearchTerm: "",

		FundingMin:         ptr(0.0),
		FundingMax:         nil,
		IncludeFundingNull: true,
		OnlyNoFunding:      false,

		DeadlineMinDays:   ptr(0),
		DeadlineMaxDays:   nil,
		IncludeNoDeadline: true,
		OnlyNoDeadline:    false,
		ShowOverdue:       false,

		SortBy: SortRelevance,
		Page:   DefaultPage,
		Limit:  DefaultPageSize,
	}
}
