package filter

import (
	"strings"
	"time"
)

// Funding is one of FundingUnrestricted, FundingRange or FundingOnlyNull.
type Funding interface {
	isFunding()
}

// FundingUnrestricted applies no funding condition.
type FundingUnrestricted struct{}

// FundingRange matches grants whose funding lies within the bounds that
// are set; IncludeNull also admits grants without funding data.
type FundingRange struct {
	Min         *float64
	Max         *float64
	IncludeNull bool
}

// FundingOnlyNull matches only grants without funding data.
type FundingOnlyNull struct{}

func (FundingUnrestricted) isFunding() {}
func (FundingRange) isFunding()        {}
func (FundingOnlyNull) isFunding()     {}

// Deadline is one of DeadlineUnrestricted, DeadlineWindow or DeadlineOnlyNull.
type Deadline interface {
	isDeadline()
}

type DeadlineUnrestricted struct{}

// DeadlineWindow bounds are day offsets from the time the query is built.
type DeadlineWindow struct {
	MinDays     *int
	MaxDays     *int
	IncludeNull bool
	ShowOverdue bool
}

type DeadlineOnlyNull struct{}

func (DeadlineUnrestricted) isDeadline() {}
func (DeadlineWindow) isDeadline()       {}
func (DeadlineOnlyNull) isDeadline()     {}

// Membership is a set-membership condition. An unrestricted membership
// matches everything; a restricted one with no values matches nothing.
type Membership struct {
	Restricted bool
	Values     []string
}

func Unrestricted() Membership {
	return Membership{}
}

func AnyOf(values ...string) Membership {
	out := make([]string, len(values))
	copy(out, values)
	return Membership{Restricted: true, Values: out}
}

func (m Membership) MatchesNone() bool {
	return m.Restricted && len(m.Values) == 0
}

func membershipOf(values []string) Membership {
	if values == nil {
		return Unrestricted()
	}
	return AnyOf(values...)
}

// Criteria is a Filter with each dimension resolved to exactly one shape.
type Criteria struct {
	Search   string
	Funding  Funding
	Deadline Deadline

	Statuses               Membership
	Currencies             Membership
	Organizations          Membership
	GrantTypes             Membership
	EligibleApplicantTypes Membership
	DataSources            Membership
	Geography              Membership

	SortColumn    string
	SortDirection string
	Page          int
	Limit         int

	PostedFrom    *time.Time
	PostedTo      *time.Time
	MinMatchScore *float64
	TrackedOnly   *bool
	UserID        string
}

// Criteria resolves f. Override flags win over bounds, so an only-null
// dimension never carries a range.
func (f Filter) Criteria() Criteria {
	column, direction := SortColumn(f.SortBy)

	return Criteria{
		Search:   strings.TrimSpace(f.SearchTerm),
		Funding:  fundingOf(f),
		Deadline: deadlineOf(f),

		Statuses:               membershipOf(f.Statuses),
		Currencies:             membershipOf(f.Currencies),
		Organizations:          membershipOf(f.Organizations),
		GrantTypes:             membershipOf(f.GrantTypes),
		EligibleApplicantTypes: membershipOf(f.EligibleApplicantTypes),
		DataSources:            membershipOf(f.DataSourceIDs),
		Geography:              membershipOf(f.Geography),

		SortColumn:    column,
		SortDirection: direction,
		Page:          pageOf(f.Page),
		Limit:         limitOf(f.Limit),

		PostedFrom:    clonePtr(f.PostedFrom),
		PostedTo:      clonePtr(f.PostedTo),
		MinMatchScore: clonePtr(f.MinMatchScore),
		TrackedOnly:   clonePtr(f.TrackedOnly),
		UserID:        strings.TrimSpace(f.UserID),
	}
}

func fundingOf(f Filter) Funding {
	if f.OnlyNoFunding {
		return FundingOnlyNull{}
	}

	// "Any amount": a zero floor with no ceiling sends no funding condition.
	anyAmount := f.FundingMin != nil && *f.FundingMin == 0 && f.FundingMax == nil
	if anyAmount || (f.FundingMin == nil && f.FundingMax == nil) {
		return FundingUnrestricted{}
	}

	ceiling := clonePtr(f.FundingMax)
	if ceiling != nil && *ceiling >= MaxFundingSentinel {
		ceiling = ptr(MaxFundingValue)
	}

	return FundingRange{
		Min:         clonePtr(f.FundingMin),
		Max:         ceiling,
		IncludeNull: f.IncludeFundingNull,
	}
}

func deadlineOf(f Filter) Deadline {
	if f.OnlyNoDeadline {
		return DeadlineOnlyNull{}
	}

	if f.DeadlineMinDays == nil && f.DeadlineMaxDays == nil && !f.ShowOverdue {
		return DeadlineUnrestricted{}
	}

	return DeadlineWindow{
		MinDays:     clonePtr(f.DeadlineMinDays),
		MaxDays:     clonePtr(f.DeadlineMaxDays),
		IncludeNull: f.IncludeNoDeadline,
		ShowOverdue: f.ShowOverdue,
	}
}

func pageOf(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

func limitOf(limit int) int {
	if limit < 1 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
