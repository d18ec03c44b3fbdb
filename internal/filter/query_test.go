package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, time.March, 15, 12, 30, 45, 0, time.UTC)

func TestToQuery_Default(t *testing.T) {
	got := ToQuery(Default(), testNow)

	want := url.Values{
		ParamPage:              {"1"},
		ParamLimit:             {"20"},
		ParamSortBy:            {"relevance"},
		ParamSortDirection:     {"desc"},
		ParamDeadlineStart:     {"2025-03-15T12:30:45Z"},
		ParamIncludeNoDeadline: {"true"},
	}
	assert.Equal(t, want, got)
}

func TestToQuery_ZeroFilterIsPaginated(t *testing.T) {
	got := ToQuery(Filter{}, testNow)

	assert.Equal(t, "1", got.Get(ParamPage))
	assert.Equal(t, "20", got.Get(ParamLimit))
	assert.NotContains(t, got, ParamFundingMin)
	assert.NotContains(t, got, ParamDeadlineStart)
	assert.NotContains(t, got, ParamIncludeNoFunding)
	assert.NotContains(t, got, ParamIncludeNoDeadline)
}

func TestToQuery_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  string
		wantLimit string
	}{
		{"explicit", 3, 50, "3", "50"},
		{"negative page", -2, 10, "1", "10"},
		{"zero limit", 1, 0, "1", "20"},
		{"limit above max", 1, 500, "1", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			f.Page = tt.page
			f.Limit = tt.limit

			got := ToQuery(f, testNow)
			assert.Equal(t, tt.wantPage, got.Get(ParamPage))
			assert.Equal(t, tt.wantLimit, got.Get(ParamLimit))
		})
	}
}

func TestToQuery_Search(t *testing.T) {
	f := Default()
	f.SearchTerm = "  rural broadband  "
	assert.Equal(t, "rural broadband", ToQuery(f, testNow).Get(ParamSearch))

	f.SearchTerm = "   "
	assert.NotContains(t, ToQuery(f, testNow), ParamSearch)
}

func TestToQuery_SetMembership(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*Filter, []string)
		param string
	}{
		{"statuses", func(f *Filter, v []string) { f.Statuses = v }, ParamStatus},
		{"currencies", func(f *Filter, v []string) { f.Currencies = v }, ParamCurrency},
		{"organizations", func(f *Filter, v []string) { f.Organizations = v }, ParamOrganizations},
		{"grant types", func(f *Filter, v []string) { f.GrantTypes = v }, ParamGrantTypes},
		{"eligible applicant types", func(f *Filter, v []string) { f.EligibleApplicantTypes = v }, ParamEligibleApplicantTypes},
		{"data sources", func(f *Filter, v []string) { f.DataSourceIDs = v }, ParamDataSources},
		{"geography", func(f *Filter, v []string) { f.Geography = v }, ParamGeography},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			tt.set(&f, nil)
			assert.NotContains(t, ToQuery(f, testNow), tt.param, "nil must mean no restriction")

			f = Default()
			tt.set(&f, []string{})
			assert.Equal(t, []string{NoneSentinel}, ToQuery(f, testNow)[tt.param], "empty must match nothing")

			f = Default()
			tt.set(&f, []string{"b", "a", "c"})
			assert.Equal(t, []string{"b,a,c"}, ToQuery(f, testNow)[tt.param], "values keep their order")
		})
	}
}

func TestToQuery_StatusAndFundingScenario(t *testing.T) {
	f := Default()
	f.Statuses = []string{"active", "open"}
	f.FundingMin = ptr(50000.0)
	f.FundingMax = ptr(500000.0)

	got := ToQuery(f, testNow)

	assert.Equal(t, "active,open", got.Get(ParamStatus))
	assert.Equal(t, "50000", got.Get(ParamFundingMin))
	assert.Equal(t, "500000", got.Get(ParamFundingMax))
	assert.Equal(t, "true", got.Get(ParamIncludeNoFunding))

	f.IncludeFundingNull = false
	assert.Equal(t, "false", ToQuery(f, testNow).Get(ParamIncludeNoFunding))
}

func TestToQuery_Funding(t *testing.T) {
	tests := []struct {
		name string
		min  *float64
		max  *float64
		want url.Values
	}{
		{
			name: "any amount sends nothing",
			min:  ptr(0.0),
			want: url.Values{},
		},
		{
			name: "no bounds sends nothing",
			want: url.Values{},
		},
		{
			name: "zero floor with ceiling is a range",
			min:  ptr(0.0),
			max:  ptr(25000.0),
			want: url.Values{
				ParamFundingMin:       {"0"},
				ParamFundingMax:       {"25000"},
				ParamIncludeNoFunding: {"true"},
			},
		},
		{
			name: "floor only",
			min:  ptr(1500.5),
			want: url.Values{
				ParamFundingMin:       {"1500.5"},
				ParamIncludeNoFunding: {"true"},
			},
		},
		{
			name: "ceiling above sentinel becomes true maximum",
			max:  ptr(150000000.0),
			want: url.Values{
				ParamFundingMax:       {"9007199254740991"},
				ParamIncludeNoFunding: {"true"},
			},
		},
		{
			name: "ceiling at sentinel becomes true maximum",
			min:  ptr(10.0),
			max:  ptr(float64(MaxFundingSentinel)),
			want: url.Values{
				ParamFundingMin:       {"10"},
				ParamFundingMax:       {"9007199254740991"},
				ParamIncludeNoFunding: {"true"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{FundingMin: tt.min, FundingMax: tt.max, IncludeFundingNull: true}

			assert.Equal(t, tt.want, fundingParams(ToQuery(f, testNow)))
		})
	}
}

func TestToQuery_OnlyNoFunding(t *testing.T) {
	bounds := []struct{ min, max *float64 }{
		{nil, nil},
		{ptr(0.0), nil},
		{ptr(100.0), ptr(5000.0)},
		{nil, ptr(200000000.0)},
	}

	for _, b := range bounds {
		for _, include := range []bool{true, false} {
			f := Default()
			f.OnlyNoFunding = true
			f.IncludeFundingNull = include
			f.FundingMin = b.min
			f.FundingMax = b.max

			got := fundingParams(ToQuery(f, testNow))
			assert.Equal(t, url.Values{ParamFundingNull: {"true"}}, got)
		}
	}
}

func TestToQuery_OnlyNoDeadline(t *testing.T) {
	for _, minDays := range []*int{nil, ptr(-30), ptr(0), ptr(10)} {
		for _, overdue := range []bool{true, false} {
			f := Default()
			f.OnlyNoDeadline = true
			f.DeadlineMinDays = minDays
			f.DeadlineMaxDays = ptr(60)
			f.ShowOverdue = overdue

			got := deadlineParams(ToQuery(f, testNow))
			assert.Equal(t, url.Values{ParamDeadlineNull: {"true"}}, got)
		}
	}
}

func TestToQuery_DeadlineOffsets(t *testing.T) {
	now := testNow.Add(789 * time.Millisecond)

	f := Default()
	f.DeadlineMinDays = ptr(-90)
	f.DeadlineMaxDays = ptr(-1)
	f.ShowOverdue = true
	f.IncludeNoDeadline = false

	got := ToQuery(f, now)

	wantStart := testNow.Add(-90 * 24 * time.Hour)
	wantEnd := testNow.Add(-24 * time.Hour)

	start, err := time.Parse(time.RFC3339, got.Get(ParamDeadlineStart))
	assert.NoError(t, err)
	end, err := time.Parse(time.RFC3339, got.Get(ParamDeadlineEnd))
	assert.NoError(t, err)

	assert.True(t, wantStart.Equal(start), "start = %s, want %s", start, wantStart)
	assert.True(t, wantEnd.Equal(end), "end = %s, want %s", end, wantEnd)
	assert.Equal(t, "2024-12-15T12:30:45Z", got.Get(ParamDeadlineStart))
	assert.Equal(t, "false", got.Get(ParamIncludeNoDeadline))
	assert.Equal(t, "true", got.Get(ParamShowOverdue))
}

func TestToQuery_DeadlineResolvedPerCall(t *testing.T) {
	f := Default()
	f.DeadlineMaxDays = ptr(30)

	first := ToQuery(f, testNow)
	second := ToQuery(f, testNow.Add(time.Hour))

	assert.NotEqual(t, first.Get(ParamDeadlineStart), second.Get(ParamDeadlineStart))
	assert.NotEqual(t, first.Get(ParamDeadlineEnd), second.Get(ParamDeadlineEnd))
	assert.Equal(t, "2025-04-14T12:30:45Z", first.Get(ParamDeadlineEnd))
}

func TestToQuery_DeadlineIncludeFlagNeedsBound(t *testing.T) {
	f := Filter{IncludeNoDeadline: true, ShowOverdue: true}

	got := ToQuery(f, testNow)

	assert.NotContains(t, got, ParamIncludeNoDeadline)
	assert.NotContains(t, got, ParamDeadlineStart)
	assert.NotContains(t, got, ParamDeadlineEnd)
	assert.Equal(t, "true", got.Get(ParamShowOverdue))
}

func TestToQuery_DeadlineNonUTCNow(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, time.March, 15, 7, 30, 45, 0, loc)

	f := Filter{DeadlineMinDays: ptr(0)}

	assert.Equal(t, "2025-03-15T12:30:45Z", ToQuery(f, now).Get(ParamDeadlineStart))
}

func TestToQuery_Sort(t *testing.T) {
	tests := []struct {
		key           SortKey
		wantColumn    string
		wantDirection string
	}{
		{SortRelevance, "relevance", "desc"},
		{SortDeadline, "close_date", "asc"},
		{SortDeadlineLate, "close_date", "desc"},
		{SortAmount, "award_ceiling", "desc"},
		{SortAmountLow, "award_ceiling", "asc"},
		{SortRecent, "created_at", "desc"},
		{SortTitle, "title", "asc"},
		{SortKey("agency_name"), "agency_name", "desc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			f := Default()
			f.SortBy = tt.key

			got := ToQuery(f, testNow)
			assert.Equal(t, tt.wantColumn, got.Get(ParamSortBy))
			assert.Equal(t, tt.wantDirection, got.Get(ParamSortDirection))
		})
	}
}

func TestToQuery_OptionalFields(t *testing.T) {
	f := Default()
	assert.NotContains(t, ToQuery(f, testNow), ParamPostedFrom)
	assert.NotContains(t, ToQuery(f, testNow), ParamTrackedOnly)
	assert.NotContains(t, ToQuery(f, testNow), ParamMinMatchScore)
	assert.NotContains(t, ToQuery(f, testNow), ParamUserID)

	from := time.Date(2025, time.January, 2, 23, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	f.PostedFrom = &from
	f.PostedTo = &to
	f.MinMatchScore = ptr(0.75)
	f.TrackedOnly = ptr(false)
	f.UserID = "user-42"

	got := ToQuery(f, testNow)
	assert.Equal(t, "2025-01-02", got.Get(ParamPostedFrom))
	assert.Equal(t, "2025-02-01", got.Get(ParamPostedTo))
	assert.Equal(t, "0.75", got.Get(ParamMinMatchScore))
	assert.Equal(t, "false", got.Get(ParamTrackedOnly))
	assert.Equal(t, "user-42", got.Get(ParamUserID))
}

func TestCriteria_QueryClampsDirectConstruction(t *testing.T) {
	c := Criteria{
		Funding:  FundingRange{Max: ptr(MaxFundingValue)},
		Deadline: DeadlineUnrestricted{},
		Statuses: AnyOf(),
	}

	got := c.Query(testNow)

	assert.Equal(t, "9007199254740991", got.Get(ParamFundingMax))
	assert.Equal(t, "false", got.Get(ParamIncludeNoFunding))
	assert.Equal(t, NoneSentinel, got.Get(ParamStatus))
	assert.Equal(t, "1", got.Get(ParamPage))
	assert.Equal(t, "20", got.Get(ParamLimit))
	assert.NotContains(t, got, ParamSortBy)
}

func TestCriteria_SentinelCeilingBecomesTrueMaximum(t *testing.T) {
	f := Default()
	f.FundingMin = ptr(250000.0)
	f.FundingMax = ptr(float64(MaxFundingSentinel))

	funding, ok := f.Criteria().Funding.(FundingRange)
	if assert.True(t, ok) {
		assert.Equal(t, ptr(MaxFundingValue), funding.Max)
	}

	// a range built by hand is already in backend terms
	got := Criteria{Funding: FundingRange{Max: ptr(5e8)}}.Query(testNow)
	assert.Equal(t, "500000000", got.Get(ParamFundingMax))
}

func fundingParams(q url.Values) url.Values {
	return pick(q, ParamFundingMin, ParamFundingMax, ParamFundingNull, ParamIncludeNoFunding)
}

func deadlineParams(q url.Values) url.Values {
	return pick(q, ParamDeadlineStart, ParamDeadlineEnd, ParamDeadlineNull, ParamIncludeNoDeadline, ParamShowOverdue)
}

func pick(q url.Values, names ...string) url.Values {
	out := url.Values{}
	for _, name := range names {
		if v, ok := q[name]; ok {
			out[name] = v
		}
	}
	return out
}
