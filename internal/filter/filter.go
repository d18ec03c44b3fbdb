package filter

import "time"

// Filter is the UI-facing description of the grants a user wants to see.
//
// Pointer fields are optional: nil means "no bound". Set fields distinguish
// nil (no restriction) from an empty slice (match nothing), so they are
// serialized without omitempty.
type Filter struct {
	SearchTerm string `json:"searchTerm"`

	FundingMin         *float64 `json:"fundingMin,omitempty"`
	FundingMax         *float64 `json:"fundingMax,omitempty"`
	IncludeFundingNull bool     `json:"includeFundingNull"`
	OnlyNoFunding      bool     `json:"onlyNoFunding"`

	// Deadline offsets are days relative to the moment the query is built.
	DeadlineMinDays   *int `json:"deadlineMinDays,omitempty"`
	DeadlineMaxDays   *int `json:"deadlineMaxDays,omitempty"`
	IncludeNoDeadline bool `json:"includeNoDeadline"`
	OnlyNoDeadline    bool `json:"onlyNoDeadline"`
	ShowOverdue       bool `json:"showOverdue"`

	Statuses               []string `json:"statuses"`
	Currencies             []string `json:"currencies"`
	Organizations          []string `json:"organizations"`
	GrantTypes             []string `json:"grant_types"`
	EligibleApplicantTypes []string `json:"eligible_applicant_types"`
	DataSourceIDs          []string `json:"data_source_ids"`
	Geography              []string `json:"geography"`

	SortBy SortKey `json:"sortBy"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`

	PostedFrom    *time.Time `json:"postedFrom,omitempty"`
	PostedTo      *time.Time `json:"postedTo,omitempty"`
	MinMatchScore *float64   `json:"minMatchScore,omitempty"`
	TrackedOnly   *bool      `json:"trackedOnly,omitempty"`
	UserID        string     `json:"userId,omitempty"`
}

// Patch is a partial Filter. A nil field is not part of the patch.
// For set fields a nil slice leaves the field alone and an empty
// slice sets it to "match nothing".
type Patch struct {
	SearchTerm *string `json:"searchTerm,omitempty"`

	FundingMin         *float64 `json:"fundingMin,omitempty"`
	FundingMax         *float64 `json:"fundingMax,omitempty"`
	IncludeFundingNull *bool    `json:"includeFundingNull,omitempty"`
	OnlyNoFunding      *bool    `json:"onlyNoFunding,omitempty"`

	DeadlineMinDays   *int  `json:"deadlineMinDays,omitempty"`
	DeadlineMaxDays   *int  `json:"deadlineMaxDays,omitempty"`
	IncludeNoDeadline *bool `json:"includeNoDeadline,omitempty"`
	OnlyNoDeadline    *bool `json:"onlyNoDeadline,omitempty"`
	ShowOverdue       *bool `json:"showOverdue,omitempty"`

	Statuses               []string `json:"statuses"`
	Currencies             []string `json:"currencies"`
	Organizations          []string `json:"organizations"`
	GrantTypes             []string `json:"grant_types"`
	EligibleApplicantTypes []string `json:"eligible_applicant_types"`
	DataSourceIDs          []string `json:"data_source_ids"`
	Geography              []string `json:"geography"`

	SortBy *SortKey `json:"sortBy,omitempty"`
	Page   *int     `json:"page,omitempty"`
	Limit  *int     `json:"limit,omitempty"`

	PostedFrom    *time.Time `json:"postedFrom,omitempty"`
	PostedTo      *time.Time `json:"postedTo,omitempty"`
	MinMatchScore *float64   `json:"minMatchScore,omitempty"`
	TrackedOnly   *bool      `json:"trackedOnly,omitempty"`
	UserID        *string    `json:"userId,omitempty"`
}

// Apply returns a copy of f with every field present in p overwritten.
func (f Filter) Apply(p Patch) Filter {
	out := f.Clone()

	if p.SearchTerm != nil {
		out.SearchTerm = *p.SearchTerm
	}

	if p.FundingMin != nil {
		out.FundingMin = clonePtr(p.FundingMin)
	}
	if p.FundingMax != nil {
		out.FundingMax = clonePtr(p.FundingMax)
	}
	if p.IncludeFundingNull != nil {
		out.IncludeFundingNull = *p.IncludeFundingNull
	}
	if p.OnlyNoFunding != nil {
		out.OnlyNoFunding = *p.OnlyNoFunding
	}

	if p.DeadlineMinDays != nil {
		out.DeadlineMinDays = clonePtr(p.DeadlineMinDays)
	}
	if p.DeadlineMaxDays != nil {
		out.DeadlineMaxDays = clonePtr(p.DeadlineMaxDays)
	}
	if p.IncludeNoDeadline != nil {
		out.IncludeNoDeadline = *p.IncludeNoDeadline
	}
	if p.OnlyNoDeadline != nil {
		out.OnlyNoDeadline = *p.OnlyNoDeadline
	}
	if p.ShowOverdue != nil {
		out.ShowOverdue = *p.ShowOverdue
	}

	if p.Statuses != nil {
		out.Statuses = cloneStrings(p.Statuses)
	}
	if p.Currencies != nil {
		out.Currencies = cloneStrings(p.Currencies)
	}
	if p.Organizations != nil {
		out.Organizations = cloneStrings(p.Organizations)
	}
	if p.GrantTypes != nil {
		out.GrantTypes = cloneStrings(p.GrantTypes)
	}
	if p.EligibleApplicantTypes != nil {
		out.EligibleApplicantTypes = cloneStrings(p.EligibleApplicantTypes)
	}
	if p.DataSourceIDs != nil {
		out.DataSourceIDs = cloneStrings(p.DataSourceIDs)
	}
	if p.Geography != nil {
		out.Geography = cloneStrings(p.Geography)
	}

	if p.SortBy != nil {
		out.SortBy = *p.SortBy
	}
	if p.Page != nil {
		out.Page = *p.Page
	}
	if p.Limit != nil {
		out.Limit = *p.Limit
	}

	if p.PostedFrom != nil {
		out.PostedFrom = clonePtr(p.PostedFrom)
	}
	if p.PostedTo != nil {
		out.PostedTo = clonePtr(p.PostedTo)
	}
	if p.MinMatchScore != nil {
		out.MinMatchScore = clonePtr(p.MinMatchScore)
	}
	if p.TrackedOnly != nil {
		out.TrackedOnly = clonePtr(p.TrackedOnly)
	}
	if p.UserID != nil {
		out.UserID = *p.UserID
	}

	return out
}

// AsPatch lifts f into a patch that sets every field f defines.
// Nil bounds and nil sets stay absent.
func (f Filter) AsPatch() Patch {
	return Patch{
		SearchTerm: ptr(f.SearchTerm),

		FundingMin:         clonePtr(f.FundingMin),
		FundingMax:         clonePtr(f.FundingMax),
		IncludeFundingNull: ptr(f.IncludeFundingNull),
		OnlyNoFunding:      ptr(f.OnlyNoFunding),

		DeadlineMinDays:   clonePtr(f.DeadlineMinDays),
		DeadlineMaxDays:   clonePtr(f.DeadlineMaxDays),
		IncludeNoDeadline: ptr(f.IncludeNoDeadline),
		OnlyNoDeadline:    ptr(f.OnlyNoDeadline),
		ShowOverdue:       ptr(f.ShowOverdue),

		Statuses:               cloneStrings(f.Statuses),
		Currencies:             cloneStrings(f.Currencies),
		Organizations:          cloneStrings(f.Organizations),
		GrantTypes:             cloneStrings(f.GrantTypes),
		EligibleApplicantTypes: cloneStrings(f.EligibleApplicantTypes),
		DataSourceIDs:          cloneStrings(f.DataSourceIDs),
		Geography:              cloneStrings(f.Geography),

		SortBy: ptr(f.SortBy),
		Page:   ptr(f.Page),
		Limit:  ptr(f.Limit),

		PostedFrom:    clonePtr(f.PostedFrom),
		PostedTo:      clonePtr(f.PostedTo),
		MinMatchScore: clonePtr(f.MinMatchScore),
		TrackedOnly:   clonePtr(f.TrackedOnly),
		UserID:        ptr(f.UserID),
	}
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	out := f

	out.FundingMin = clonePtr(f.FundingMin)
	out.FundingMax = clonePtr(f.FundingMax)
	out.DeadlineMinDays = clonePtr(f.DeadlineMinDays)
	out.DeadlineMaxDays = clonePtr(f.DeadlineMaxDays)

	out.Statuses = cloneStrings(f.Statuses)
	out.Currencies = cloneStrings(f.Currencies)
	out.Organizations = cloneStrings(f.Organizations)
	out.GrantTypes = cloneStrings(f.GrantTypes)
	out.EligibleApplicantTypes = cloneStrings(f.EligibleApplicantTypes)
	out.DataSourceIDs = cloneStrings(f.DataSourceIDs)
	out.Geography = cloneStrings(f.Geography)

	out.PostedFrom = clonePtr(f.PostedFrom)
	out.PostedTo = clonePtr(f.PostedTo)
	out.MinMatchScore = clonePtr(f.MinMatchScore)
	out.TrackedOnly = clonePtr(f.TrackedOnly)

	return out
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneStrings keeps the nil/empty distinction.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
