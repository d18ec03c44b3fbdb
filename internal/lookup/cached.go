package lookup

import (
	"context"
	"errors"
	"time"

	"grantify/internal/models"

	"go.uber.org/zap"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedLoader serves the table from cache and falls back to the wrapped
// loader, storing what it returns.
type CachedLoader struct {
	Loader Loader
	Cache  Cache
	Key    string
	TTL    time.Duration
	Logger *zap.Logger
}

func (l CachedLoader) LoadDataSources(ctx context.Context) ([]models.DataSource, error) {
	var sources []models.DataSource
	if err := l.Cache.Get(ctx, l.Key, &sources); err == nil && len(sources) > 0 {
		return sources, nil
	}

	sources, err := l.Loader.LoadDataSources(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.Cache.Set(ctx, l.Key, sources, l.TTL); err != nil {
		l.Logger.Warn("failed to cache data sources", zap.Error(err))
	}

	return sources, nil
}

// ErrNoDataSources is returned by Fallback when every loader came back empty.
var ErrNoDataSources = errors.New("no data sources loaded")

// Fallback tries each loader in order and returns the first non-empty table.
// When none has rows it returns the last loader error, or ErrNoDataSources,
// so Init stays retryable.
type Fallback []Loader

func (f Fallback) LoadDataSources(ctx context.Context) ([]models.DataSource, error) {
	lastErr := ErrNoDataSources
	for _, l := range f {
		sources, err := l.LoadDataSources(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if len(sources) > 0 {
			return sources, nil
		}
	}
	return nil, lastErr
}
