package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"grantify/internal/filter"
)

type User struct {
	ID             int64      `db:"id"`
	Username       *string    `db:"username"`
	FirstName      *string    `db:"first_name"`
	LastName       *string    `db:"last_name"`
	CreatedAt      time.Time  `db:"created_at"`
	LastCheck      *time.Time `db:"last_check"`
	CheckEnabled   bool       `db:"check_enabled"`
	NotifyInterval int        `db:"notify_interval"` // in min
}

// SavedFilter is a named filter a user keeps for alerts and quick access.
type SavedFilter struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Name      string     `db:"name"`
	Body      FilterBody `db:"body"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

const DefaultSavedFilterName = "default"

// Alert is a user whose alert check is due, with the filter it runs.
type Alert struct {
	UserID         int64      `db:"user_id"`
	NotifyInterval int        `db:"notify_interval"`
	LastCheck      *time.Time `db:"last_check"`
	Filter         FilterBody `db:"body"`
}

type UserStats struct {
	SavedFilters int        `db:"saved_filters"`
	SeenGrants   int        `db:"seen_grants"`
	LastSeenAt   *time.Time `db:"last_seen_at"`
}

// FilterBody stores a filter.Filter in a jsonb column.
type FilterBody filter.Filter

func (b FilterBody) Filter() filter.Filter {
	return filter.Filter(b)
}

func (b FilterBody) Value() (driver.Value, error) {
	data, err := json.Marshal(filter.Filter(b))
	if err != nil {
		return nil, fmt.Errorf("marshal filter body: %w", err)
	}
	return string(data), nil
}

func (b *FilterBody) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*b = FilterBody(filter.Default())
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported filter body type %T", value)
	}

	// Fields missing from older rows keep their defaults.
	f := filter.Default()
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("unmarshal filter body: %w", err)
	}

	*b = FilterBody(f)
	return nil
}
