package postgres

import (
	"context"
	"fmt"
	"time"

	"grantify/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

func (s *Store) CacheGrant(ctx context.Context, grant *models.Grant) error {
	query := `
		INSERT INTO grants_cache (
			id, title, agency_name, status, award_floor, award_ceiling,
			currency, open_date, close_date, grant_type, data_source,
			eligible_applicant_types, url, raw_data, cached_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?::jsonb, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			agency_name = EXCLUDED.agency_name,
			status = EXCLUDED.status,
			award_floor = EXCLUDED.award_floor,
			award_ceiling = EXCLUDED.award_ceiling,
			currency = EXCLUDED.currency,
			open_date = EXCLUDED.open_date,
			close_date = EXCLUDED.close_date,
			grant_type = EXCLUDED.grant_type,
			data_source = EXCLUDED.data_source,
			eligible_applicant_types = EXCLUDED.eligible_applicant_types,
			url = EXCLUDED.url,
			raw_data = EXCLUDED.raw_data,
			cached_at = EXCLUDED.cached_at
	`

	_, err := s.sess.
		InsertBySql(query,
			grant.ID,
			grant.Title,
			grant.Agency,
			grant.Status,
			grant.AwardFloor,
			grant.AwardCeiling,
			grant.Currency,
			grant.OpenDate,
			grant.CloseDate,
			grant.GrantType,
			grant.DataSource,
			grant.EligibleApplicantTypes,
			grant.URL,
			grant.RawData,
			time.Now(),
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to cache grant",
			zap.String("grant_id", grant.ID),
			zap.Error(err),
		)
		return fmt.Errorf("cache grant: %w", err)
	}

	return nil
}

func (s *Store) MarkGrantAsSeen(ctx context.Context, userID int64, grantID string) error {
	query := `
		INSERT INTO user_seen_grants (user_id, grant_id, seen_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (user_id, grant_id) DO NOTHING
	`

	_, err := s.sess.
		InsertBySql(query, userID, grantID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to mark grant as seen",
			zap.Int64("user_id", userID),
			zap.String("grant_id", grantID),
			zap.Error(err),
		)
		return fmt.Errorf("mark grant as seen: %w", err)
	}

	return nil
}

// GetUnseenGrants returns the subset of grantIDs the user has not been notified about.
func (s *Store) GetUnseenGrants(ctx context.Context, userID int64, grantIDs []string) ([]string, error) {
	if len(grantIDs) == 0 {
		return []string{}, nil
	}

	query := `
		SELECT unnest(?::text[]) AS id
		EXCEPT
		SELECT grant_id FROM user_seen_grants WHERE user_id = ?
	`

	var unseenIDs []string

	_, err := s.sess.
		SelectBySql(query, pq.Array(grantIDs), userID).
		LoadContext(ctx, &unseenIDs)

	if err != nil {
		s.logger.Error("failed to get unseen grants",
			zap.Int64("user_id", userID),
			zap.Int("total_grants", len(grantIDs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get unseen grants: %w", err)
	}

	s.logger.Debug("unseen grants",
		zap.Int64("user_id", userID),
		zap.Int("total", len(grantIDs)),
		zap.Int("unseen", len(unseenIDs)),
	)

	return unseenIDs, nil
}

func (s *Store) CleanOldGrantsCache(ctx context.Context, daysOld int) (int64, error) {
	result, err := s.sess.
		DeleteFrom("grants_cache").
		Where("cached_at < NOW() - make_interval(days => ?)", daysOld).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clean old grants cache",
			zap.Int("days_old", daysOld),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clean old grants cache: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("old grants cleaned",
		zap.Int("days_old", daysOld),
		zap.Int64("count", rowsAffected),
	)

	return rowsAffected, nil
}

func (s *Store) CleanOldSeenGrants(ctx context.Context, daysOld int) (int64, error) {
	result, err := s.sess.
		DeleteFrom("user_seen_grants").
		Where("seen_at < NOW() - make_interval(days => ?)", daysOld).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clean old seen grants",
			zap.Int("days_old", daysOld),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clean old seen grants: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("old seen grants cleaned",
		zap.Int("days_old", daysOld),
		zap.Int64("count", rowsAffected),
	)

	return rowsAffected, nil
}

