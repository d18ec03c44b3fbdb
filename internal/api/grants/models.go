package grants

import "time"

type SearchResponse struct {
	Grants     []GrantItem `json:"grants"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

type GrantItem struct {
	ID                     string     `json:"id"`
	Title                  string     `json:"title"`
	AgencyName             string     `json:"agency_name"`
	Description            string     `json:"description,omitempty"`
	Status                 string     `json:"status"`
	AwardFloor             *float64   `json:"award_floor"`
	AwardCeiling           *float64   `json:"award_ceiling"`
	Currency               string     `json:"currency"`
	OpenDate               *time.Time `json:"open_date"`
	CloseDate              *time.Time `json:"close_date"`
	GrantType              string     `json:"grant_type"`
	DataSource             string     `json:"data_source"`
	Geography              []string   `json:"geography,omitempty"`
	EligibleApplicantTypes []string   `json:"eligible_applicant_types"`
	URL                    string     `json:"url"`
	CreatedAt              time.Time  `json:"created_at"`
	MatchScore             *float64   `json:"match_score,omitempty"`
	Tracked                bool       `json:"tracked,omitempty"`
}

type DataSourceItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Description picks the most specific message the backend sent.
func (e ErrorResponse) Description() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Details != "":
		return e.Details
	default:
		return e.Error
	}
}
