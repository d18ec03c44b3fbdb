package grants

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// SearchGrants runs a search with parameters already produced by the filter mapper.
func (c *Client) SearchGrants(ctx context.Context, params url.Values) (*SearchResponse, error) {
	data, err := c.get(ctx, "/grants", params)
	if err != nil {
		c.logger.Error("failed to search grants",
			zap.String("query", params.Encode()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("search grants: %w", err)
	}

	var response SearchResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse search response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("grants found",
		zap.Int("total", response.Total),
		zap.Int("returned", len(response.Grants)),
		zap.Int("page", response.Page),
	)

	return &response, nil
}

func (c *Client) GetGrant(ctx context.Context, grantID string) (*GrantItem, error) {
	path := fmt.Sprintf("/grants/%s", url.PathEscape(grantID))

	data, err := c.get(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to get grant",
			zap.String("grant_id", grantID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get grant: %w", err)
	}

	var grant GrantItem
	if err := c.parseResponse(data, &grant); err != nil {
		c.logger.Error("failed to parse grant detail", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("grant retrieved",
		zap.String("grant_id", grantID),
		zap.String("title", grant.Title),
	)

	return &grant, nil
}

// ListDataSources returns every data source known to the backend.
func (c *Client) ListDataSources(ctx context.Context) ([]DataSourceItem, error) {
	data, err := c.get(ctx, "/api_sources", nil)
	if err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}

	var sources []DataSourceItem
	if err := c.parseResponse(data, &sources); err != nil {
		return nil, err
	}

	return sources, nil
}

func ExtractGrantIDs(items []GrantItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
