package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grantify/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = "id, username, first_name, last_name, created_at, last_check, check_enabled, notify_interval"

// RegisterUser inserts the user or refreshes the Telegram profile of an
// existing one. Alert settings of an existing user are left alone.
func (s *Store) RegisterUser(ctx context.Context, user *models.User) (bool, error) {
	query := `
		INSERT INTO users (id, username, first_name, last_name, check_enabled, notify_interval)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := s.sess.
		SelectBySql(query, user.ID, user.Username, user.FirstName, user.LastName, user.CheckEnabled, user.NotifyInterval).
		LoadOneContext(ctx, &created)
	if err != nil {
		s.logger.Error("failed to register user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return false, fmt.Errorf("register user: %w", err)
	}

	if created {
		s.logger.Info("user registered",
			zap.Int64("user_id", user.ID),
			zap.Stringp("username", user.Username),
		)
	}
	return created, nil
}

// GetUser returns nil when the user never ran /start.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	err := s.sess.
		Select(userColumns).
		From("users").
		Where("id = ?", userID).
		LoadOneContext(ctx, &user)
	if errors.Is(err, dbr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to get user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *Store) SetAlertsEnabled(ctx context.Context, userID int64, enabled bool) (*models.User, error) {
	return s.updateAlerts(ctx, userID, "check_enabled = ?", enabled)
}

func (s *Store) ToggleAlerts(ctx context.Context, userID int64) (*models.User, error) {
	return s.updateAlerts(ctx, userID, "check_enabled = NOT check_enabled")
}

func (s *Store) SetAlertInterval(ctx context.Context, userID int64, minutes int) (*models.User, error) {
	return s.updateAlerts(ctx, userID, "notify_interval = ?", minutes)
}

// updateAlerts applies one SET clause and returns the updated row.
func (s *Store) updateAlerts(ctx context.Context, userID int64, set string, args ...interface{}) (*models.User, error) {
	query := "UPDATE users SET " + set + " WHERE id = ? RETURNING " + userColumns

	var user models.User
	err := s.sess.
		SelectBySql(query, append(args, userID)...).
		LoadOneContext(ctx, &user)
	if errors.Is(err, dbr.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("failed to update alert settings",
			zap.Int64("user_id", userID),
			zap.String("set", set),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update alert settings: %w", err)
	}

	s.logger.Info("alert settings updated",
		zap.Int64("user_id", userID),
		zap.Bool("enabled", user.CheckEnabled),
		zap.Int("interval", user.NotifyInterval),
	)
	return &user, nil
}

// GetAlertsDue lists users with alerts on whose interval has passed, together
// with the default saved filter the alert runs. Users without that filter
// are not due.
func (s *Store) GetAlertsDue(ctx context.Context) ([]models.Alert, error) {
	query := `
		SELECT u.id AS user_id, u.notify_interval, u.last_check, f.body
		FROM users u
		JOIN saved_filters f ON f.user_id = u.id AND f.name = ?
		WHERE u.check_enabled
		AND (
			u.last_check IS NULL
			OR NOW() - u.last_check >= make_interval(mins => u.notify_interval)
		)
		ORDER BY u.last_check NULLS FIRST
	`

	var alerts []models.Alert
	if _, err := s.sess.SelectBySql(query, models.DefaultSavedFilterName).LoadContext(ctx, &alerts); err != nil {
		s.logger.Error("failed to get due alerts", zap.Error(err))
		return nil, fmt.Errorf("get due alerts: %w", err)
	}

	s.logger.Debug("alerts due", zap.Int("count", len(alerts)))
	return alerts, nil
}

func (s *Store) MarkChecked(ctx context.Context, userID int64, at time.Time) error {
	_, err := s.sess.
		Update("users").
		Set("last_check", at).
		Where("id = ?", userID).
		ExecContext(ctx)
	if err != nil {
		s.logger.Error("failed to mark alert checked",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("mark checked: %w", err)
	}
	return nil
}

func (s *Store) GetUserStats(ctx context.Context, userID int64) (models.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM saved_filters WHERE user_id = ?) AS saved_filters,
			(SELECT COUNT(*) FROM user_seen_grants WHERE user_id = ?) AS seen_grants,
			(SELECT MAX(seen_at) FROM user_seen_grants WHERE user_id = ?) AS last_seen_at
	`

	var stats models.UserStats
	if err := s.sess.SelectBySql(query, userID, userID, userID).LoadOneContext(ctx, &stats); err != nil {
		s.logger.Error("failed to get user stats",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return models.UserStats{}, fmt.Errorf("get user stats: %w", err)
	}
	return stats, nil
}
