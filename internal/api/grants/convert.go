package grants

import (
	"context"
	"encoding/json"

	"grantify/internal/models"
)

// Model converts an API item into the grants_cache row.
func (g *GrantItem) Model() *models.Grant {
	grant := &models.Grant{
		ID:                     g.ID,
		Title:                  g.Title,
		Status:                 g.Status,
		AwardFloor:             g.AwardFloor,
		AwardCeiling:           g.AwardCeiling,
		OpenDate:               g.OpenDate,
		CloseDate:              g.CloseDate,
		DataSource:             g.DataSource,
		EligibleApplicantTypes: g.EligibleApplicantTypes,
		URL:                    g.URL,
	}

	if g.AgencyName != "" {
		grant.Agency = &g.AgencyName
	}
	if g.Currency != "" {
		grant.Currency = &g.Currency
	}
	if g.GrantType != "" {
		grant.GrantType = &g.GrantType
	}

	if raw, err := json.Marshal(g); err == nil {
		grant.RawData = models.RawJSON(raw)
	}

	return grant
}

// LoadDataSources lists the backend's data sources as lookup rows.
func (c *Client) LoadDataSources(ctx context.Context) ([]models.DataSource, error) {
	items, err := c.ListDataSources(ctx)
	if err != nil {
		return nil, err
	}

	sources := make([]models.DataSource, len(items))
	for i, item := range items {
		sources[i] = models.DataSource{ID: item.ID, Name: item.Name, Active: item.Active}
	}
	return sources, nil
}
