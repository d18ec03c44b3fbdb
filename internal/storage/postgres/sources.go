package postgres

import (
	"context"
	"fmt"

	"grantify/internal/models"

	"go.uber.org/zap"
)

// LoadDataSources reads the api_sources table used to resolve data-source names.
func (s *Store) LoadDataSources(ctx context.Context) ([]models.DataSource, error) {
	var sources []models.DataSource

	_, err := s.sess.
		Select("id", "name", "active").
		From("api_sources").
		OrderBy("name").
		LoadContext(ctx, &sources)

	if err != nil {
		s.logger.Error("failed to load data sources", zap.Error(err))
		return nil, fmt.Errorf("load data sources: %w", err)
	}

	s.logger.Debug("data sources loaded", zap.Int("count", len(sources)))

	return sources, nil
}
