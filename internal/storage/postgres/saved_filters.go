package postgres

import (
	"context"
	"fmt"

	"grantify/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

var ErrFilterNotFound = fmt.Errorf("saved filter not found")

// SaveFilter upserts a named filter for the user.
func (s *Store) SaveFilter(ctx context.Context, saved *models.SavedFilter) error {
	query := `
		INSERT INTO saved_filters (user_id, name, body, created_at, updated_at)
		VALUES (?, ?, ?::jsonb, NOW(), NOW())
		ON CONFLICT (user_id, name)
		DO UPDATE SET
			body       = EXCLUDED.body,
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := s.sess.
		SelectBySql(query, saved.UserID, saved.Name, saved.Body).
		LoadOneContext(ctx, &id)
	if err != nil {
		s.logger.Error("failed to save filter",
			zap.Int64("user_id", saved.UserID),
			zap.String("name", saved.Name),
			zap.Error(err),
		)
		return fmt.Errorf("save filter: %w", err)
	}

	saved.ID = id

	s.logger.Info("filter saved",
		zap.Int64("user_id", saved.UserID),
		zap.String("name", saved.Name),
	)

	return nil
}

func (s *Store) ListSavedFilters(ctx context.Context, userID int64) ([]models.SavedFilter, error) {
	var filters []models.SavedFilter

	_, err := s.sess.
		Select("*").
		From("saved_filters").
		Where("user_id = ?", userID).
		OrderBy("name").
		LoadContext(ctx, &filters)

	if err != nil {
		s.logger.Error("failed to list saved filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list saved filters: %w", err)
	}

	return filters, nil
}

// GetSavedFilter returns nil without error when the user has no filter by that name.
func (s *Store) GetSavedFilter(ctx context.Context, userID int64, name string) (*models.SavedFilter, error) {
	var saved models.SavedFilter

	err := s.sess.
		Select("*").
		From("saved_filters").
		Where("user_id = ? AND name = ?", userID, name).
		LoadOneContext(ctx, &saved)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get saved filter",
			zap.Int64("user_id", userID),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get saved filter: %w", err)
	}

	return &saved, nil
}

func (s *Store) DeleteSavedFilter(ctx context.Context, userID int64, name string) error {
	result, err := s.sess.
		DeleteFrom("saved_filters").
		Where("user_id = ? AND name = ?", userID, name).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to delete saved filter",
			zap.Int64("user_id", userID),
			zap.String("name", name),
			zap.Error(err),
		)
		return fmt.Errorf("delete saved filter: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFilterNotFound
	}

	s.logger.Info("saved filter deleted",
		zap.Int64("user_id", userID),
		zap.String("name", name),
	)

	return nil
}

func (s *Store) CountSavedFilters(ctx context.Context, userID int64) (int, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("saved_filters").
		Where("user_id = ?", userID).
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to count saved filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("count saved filters: %w", err)
	}

	return count, nil
}
