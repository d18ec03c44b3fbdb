package models

import (
	"testing"

	"grantify/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBody_RoundTrip(t *testing.T) {
	f := filter.Default()
	f.Statuses = []string{}
	f.SearchTerm = "arts"

	value, err := FilterBody(f).Value()
	require.NoError(t, err)

	var body FilterBody
	require.NoError(t, body.Scan(value))

	got := body.Filter()
	assert.Equal(t, "arts", got.SearchTerm)
	assert.NotNil(t, got.Statuses)
	assert.Empty(t, got.Statuses)
	assert.Nil(t, got.Currencies)
}

func TestFilterBody_ScanKeepsDefaults(t *testing.T) {
	var body FilterBody
	require.NoError(t, body.Scan(`{"searchTerm":"health"}`))

	got := body.Filter()
	assert.Equal(t, "health", got.SearchTerm)
	assert.True(t, got.IncludeFundingNull)
	assert.Equal(t, filter.DefaultPageSize, got.Limit)
}

func TestFilterBody_ScanRejectsUnknownType(t *testing.T) {
	var body FilterBody
	assert.Error(t, body.Scan(42))
}
