package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type Grant struct {
	ID                     string         `db:"id"`
	Title                  string         `db:"title"`
	Agency                 *string        `db:"agency_name"`
	Status                 string         `db:"status"`
	AwardFloor             *float64       `db:"award_floor"`
	AwardCeiling           *float64       `db:"award_ceiling"`
	Currency               *string        `db:"currency"`
	OpenDate               *time.Time     `db:"open_date"`
	CloseDate              *time.Time     `db:"close_date"`
	GrantType              *string        `db:"grant_type"`
	DataSource             string         `db:"data_source"`
	EligibleApplicantTypes pq.StringArray `db:"eligible_applicant_types"`
	URL                    string         `db:"url"`
	RawData                RawJSON        `db:"raw_data"`
	CachedAt               time.Time      `db:"cached_at"`
}

// DataSource is a row of the external api_sources mapping table.
type DataSource struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

type RawJSON json.RawMessage

func (r RawJSON) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return string(r), nil
}

func (r *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	*r = RawJSON(bytes)
	return nil
}
