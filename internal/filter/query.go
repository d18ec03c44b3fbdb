package filter

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query parameter names understood by the grants backend.
const (
	ParamSearch                 = "search"
	ParamPage                   = "page"
	ParamLimit                  = "limit"
	ParamSortBy                 = "sort_by"
	ParamSortDirection          = "sort_direction"
	ParamFundingMin             = "funding_min"
	ParamFundingMax             = "funding_max"
	ParamFundingNull            = "funding_null"
	ParamIncludeNoFunding       = "include_no_funding"
	ParamDeadlineStart          = "deadline_start"
	ParamDeadlineEnd            = "deadline_end"
	ParamDeadlineNull           = "deadline_null"
	ParamIncludeNoDeadline      = "include_no_deadline"
	ParamShowOverdue            = "show_overdue"
	ParamStatus                 = "status"
	ParamCurrency               = "currency"
	ParamOrganizations          = "organizations"
	ParamGrantTypes             = "grant_types"
	ParamEligibleApplicantTypes = "eligible_applicant_types"
	ParamDataSources            = "data_sources"
	ParamGeography              = "geography"
	ParamPostedFrom             = "posted_from"
	ParamPostedTo               = "posted_to"
	ParamMinMatchScore          = "min_match_score"
	ParamTrackedOnly            = "tracked_only"
	ParamUserID                 = "user_id"
)

const postedDateLayout = "2006-01-02"

// ToQuery translates f into backend query parameters. Deadline offsets are
// resolved against now, so the same filter maps to different absolute
// bounds at different times.
func ToQuery(f Filter, now time.Time) url.Values {
	return f.Criteria().Query(now)
}

// Query builds the parameters for c. Every criteria value maps to some
// parameter set; absence of a parameter always means "no restriction".
func (c Criteria) Query(now time.Time) url.Values {
	params := url.Values{}

	if c.Search != "" {
		params.Set(ParamSearch, c.Search)
	}

	params.Set(ParamPage, strconv.Itoa(pageOf(c.Page)))
	params.Set(ParamLimit, strconv.Itoa(limitOf(c.Limit)))

	if c.SortColumn != "" {
		params.Set(ParamSortBy, c.SortColumn)
		direction := c.SortDirection
		if direction == "" {
			direction = SortDirectionDesc
		}
		params.Set(ParamSortDirection, direction)
	}

	setMembership(params, ParamStatus, c.Statuses)
	setMembership(params, ParamCurrency, c.Currencies)
	setMembership(params, ParamOrganizations, c.Organizations)
	setMembership(params, ParamGrantTypes, c.GrantTypes)
	setMembership(params, ParamEligibleApplicantTypes, c.EligibleApplicantTypes)
	setMembership(params, ParamDataSources, c.DataSources)
	setMembership(params, ParamGeography, c.Geography)

	setDeadline(params, c.Deadline, now)
	setFunding(params, c.Funding)

	if c.PostedFrom != nil {
		params.Set(ParamPostedFrom, c.PostedFrom.UTC().Format(postedDateLayout))
	}
	if c.PostedTo != nil {
		params.Set(ParamPostedTo, c.PostedTo.UTC().Format(postedDateLayout))
	}
	if c.MinMatchScore != nil {
		params.Set(ParamMinMatchScore, formatNumber(*c.MinMatchScore))
	}
	if c.TrackedOnly != nil {
		params.Set(ParamTrackedOnly, strconv.FormatBool(*c.TrackedOnly))
	}
	if c.UserID != "" {
		params.Set(ParamUserID, c.UserID)
	}

	return params
}

func setMembership(params url.Values, name string, m Membership) {
	if !m.Restricted {
		return
	}
	if len(m.Values) == 0 {
		params.Set(name, NoneSentinel)
		return
	}
	params.Set(name, strings.Join(m.Values, ","))
}

func setDeadline(params url.Values, d Deadline, now time.Time) {
	switch d := d.(type) {
	case DeadlineOnlyNull:
		params.Set(ParamDeadlineNull, "true")
	case DeadlineWindow:
		sent := false
		if d.MinDays != nil {
			params.Set(ParamDeadlineStart, deadlineAt(now, *d.MinDays))
			sent = true
		}
		if d.MaxDays != nil {
			params.Set(ParamDeadlineEnd, deadlineAt(now, *d.MaxDays))
			sent = true
		}
		// The inclusion flag only qualifies a range.
		if sent {
			params.Set(ParamIncludeNoDeadline, strconv.FormatBool(d.IncludeNull))
		}
		if d.ShowOverdue {
			params.Set(ParamShowOverdue, "true")
		}
	}
}

func setFunding(params url.Values, f Funding) {
	switch f := f.(type) {
	case FundingOnlyNull:
		params.Set(ParamFundingNull, "true")
	case FundingRange:
		sent := false
		if f.Min != nil {
			params.Set(ParamFundingMin, formatNumber(*f.Min))
			sent = true
		}
		if f.Max != nil {
			params.Set(ParamFundingMax, formatNumber(*f.Max))
			sent = true
		}
		if sent {
			params.Set(ParamIncludeNoFunding, strconv.FormatBool(f.IncludeNull))
		}
	}
}

func deadlineAt(now time.Time, days int) string {
	return now.UTC().AddDate(0, 0, days).Truncate(time.Second).Format(time.RFC3339)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
