package scheduler

import (
	"context"
	"fmt"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/filter"
	"grantify/internal/models"
	"grantify/internal/search"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	startupDelay    = 30 * time.Second
	cleanupInterval = 24 * time.Hour

	// rows older than this are dropped by the daily cleanup
	grantsCacheRetentionDays = 7
	seenGrantsRetentionDays  = 90
)

type Store interface {
	GetAlertsDue(ctx context.Context) ([]models.Alert, error)
	GetUnseenGrants(ctx context.Context, userID int64, grantIDs []string) ([]string, error)
	CacheGrant(ctx context.Context, grant *models.Grant) error
	MarkGrantAsSeen(ctx context.Context, userID int64, grantID string) error
	MarkChecked(ctx context.Context, userID int64, at time.Time) error
	CleanOldGrantsCache(ctx context.Context, daysOld int) (int64, error)
	CleanOldSeenGrants(ctx context.Context, daysOld int) (int64, error)
}

type Searcher interface {
	Search(ctx context.Context, f filter.Filter) (*search.Result, error)
}

// Notifier delivers new grants to a user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, items []grants.GrantItem) error
}

type Options struct {
	Interval  time.Duration
	MaxGrants int
	// UserDelay paces consecutive user checks; zero means no pacing.
	UserDelay time.Duration
}

// GrantChecker runs every due user's default saved filter and sends the
// grants the user has not seen yet.
type GrantChecker struct {
	store    Store
	searcher Searcher
	notifier Notifier
	opts     Options
	pace     *rate.Limiter
	logger   *zap.Logger

	now         func() time.Time
	lastCleanup time.Time
}

func New(store Store, searcher Searcher, notifier Notifier, opts Options, logger *zap.Logger) *GrantChecker {
	pace := rate.NewLimiter(rate.Inf, 1)
	if opts.UserDelay > 0 {
		pace = rate.NewLimiter(rate.Every(opts.UserDelay), 1)
	}

	return &GrantChecker{
		store:    store,
		searcher: searcher,
		notifier: notifier,
		opts:     opts,
		pace:     pace,
		logger:   logger,
		now:      time.Now,
	}
}

func (gc *GrantChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(gc.opts.Interval)
	defer ticker.Stop()

	gc.logger.Info("grant checker started",
		zap.Duration("interval", gc.opts.Interval),
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(startupDelay):
	}
	gc.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			gc.logger.Info("grant checker stopped")
			return
		case <-ticker.C:
			gc.runOnce(ctx)
		}
	}
}

func (gc *GrantChecker) runOnce(ctx context.Context) {
	gc.checkGrantsForAllUsers(ctx)

	if gc.now().Sub(gc.lastCleanup) >= cleanupInterval {
		gc.cleanup(ctx)
	}
}

func (gc *GrantChecker) checkGrantsForAllUsers(ctx context.Context) {
	gc.logger.Info("starting grant check for all users")

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	alerts, err := gc.store.GetAlertsDue(dbCtx)
	if err != nil {
		gc.logger.Error("failed to get due alerts", zap.Error(err))
		return
	}

	if len(alerts) == 0 {
		gc.logger.Debug("no alerts due")
		return
	}

	gc.logger.Info("checking grants for users", zap.Int("count", len(alerts)))

	for i := range alerts {
		alert := &alerts[i]

		if err := gc.pace.Wait(dbCtx); err != nil {
			gc.logger.Warn("grant check interrupted", zap.Error(err))
			return
		}

		if err := gc.checkGrantsForUser(dbCtx, alert); err != nil {
			gc.logger.Error("failed to check grants for user",
				zap.Int64("user_id", alert.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := gc.store.MarkChecked(dbCtx, alert.UserID, gc.now()); err != nil {
			gc.logger.Error("failed to update last check",
				zap.Int64("user_id", alert.UserID),
				zap.Error(err),
			)
		}
	}

	gc.logger.Info("finished grant check for all users")
}

func (gc *GrantChecker) checkGrantsForUser(ctx context.Context, alert *models.Alert) error {
	f := alert.Filter.Filter()
	f.Page = filter.DefaultPage
	f.Limit = gc.opts.MaxGrants

	result, err := gc.searcher.Search(ctx, f)
	if err != nil {
		return fmt.Errorf("search grants: %w", err)
	}

	if len(result.Grants) == 0 {
		gc.logger.Debug("no grants found", zap.Int64("user_id", alert.UserID))
		return nil
	}

	unseenIDs, err := gc.store.GetUnseenGrants(ctx, alert.UserID, grants.ExtractGrantIDs(result.Grants))
	if err != nil {
		return fmt.Errorf("get unseen grants: %w", err)
	}

	if len(unseenIDs) == 0 {
		gc.logger.Debug("no new grants", zap.Int64("user_id", alert.UserID))
		return nil
	}

	unseen := make(map[string]bool, len(unseenIDs))
	for _, id := range unseenIDs {
		unseen[id] = true
	}

	var newGrants []grants.GrantItem
	for _, g := range result.Grants {
		if unseen[g.ID] {
			newGrants = append(newGrants, g)
		}
	}

	if err := gc.notifier.Notify(ctx, alert.UserID, newGrants); err != nil {
		return fmt.Errorf("send notifications: %w", err)
	}

	for i := range newGrants {
		if err := gc.store.CacheGrant(ctx, newGrants[i].Model()); err != nil {
			gc.logger.Error("failed to cache grant",
				zap.String("grant_id", newGrants[i].ID),
				zap.Error(err),
			)
		}

		if err := gc.store.MarkGrantAsSeen(ctx, alert.UserID, newGrants[i].ID); err != nil {
			gc.logger.Error("failed to mark grant as seen",
				zap.Int64("user_id", alert.UserID),
				zap.String("grant_id", newGrants[i].ID),
				zap.Error(err),
			)
		}
	}

	gc.logger.Info("sent new grants to user",
		zap.Int64("user_id", alert.UserID),
		zap.Int("count", len(newGrants)),
	)

	return nil
}

func (gc *GrantChecker) cleanup(ctx context.Context) {
	dbCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	gc.lastCleanup = gc.now()

	if n, err := gc.store.CleanOldGrantsCache(dbCtx, grantsCacheRetentionDays); err != nil {
		gc.logger.Error("failed to clean grants cache", zap.Error(err))
	} else {
		gc.logger.Info("cleaned grants cache", zap.Int64("deleted", n))
	}

	if n, err := gc.store.CleanOldSeenGrants(dbCtx, seenGrantsRetentionDays); err != nil {
		gc.logger.Error("failed to clean seen grants", zap.Error(err))
	} else {
		gc.logger.Info("cleaned seen grants", zap.Int64("deleted", n))
	}
}
