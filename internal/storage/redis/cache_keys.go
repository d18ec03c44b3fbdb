package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"grantify/internal/filter"
)

const (
	DataSourcesCacheTTL   = 1 * time.Hour
	SearchCacheTTL        = 5 * time.Minute
	RateLimitWindowTTL    = 1 * time.Minute
	UserStateCacheTTL     = 30 * time.Minute
	FilterSessionCacheTTL = 30 * time.Minute
)

func DataSourcesKey() string {
	return "sources:all"
}

// SearchKey identifies a search by its encoded parameters. Encode sorts by
// key, so equal parameter sets share an entry.
func SearchKey(params url.Values) string {
	sum := sha256.Sum256([]byte(params.Encode()))
	return "search:" + hex.EncodeToString(sum[:])
}

func RateLimitKey(userID int64) string {
	return fmt.Sprintf("ratelimit:user:%d", userID)
}

func ClientRateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:client:%s", client)
}

func UserStateKey(userID int64) string {
	return fmt.Sprintf("state:user:%d", userID)
}

func FilterSessionKey(sessionID string) string {
	return fmt.Sprintf("filter:session:%s", sessionID)
}

func (c *Cache) GetSearchResults(ctx context.Context, params url.Values, dest interface{}) error {
	return c.Get(ctx, SearchKey(params), dest)
}

func (c *Cache) SetSearchResults(ctx context.Context, params url.Values, results interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = SearchCacheTTL
	}
	return c.Set(ctx, SearchKey(params), results, ttl)
}

func (c *Cache) IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error) {
	return c.incrWindow(ctx, RateLimitKey(userID), RateLimitWindowTTL)
}

func (c *Cache) IncrementClientRateLimit(ctx context.Context, client string) (int64, error) {
	return c.incrWindow(ctx, ClientRateLimitKey(client), RateLimitWindowTTL)
}

func (c *Cache) SetUserState(ctx context.Context, userID int64, state string) error {
	return c.setString(ctx, UserStateKey(userID), state, UserStateCacheTTL)
}

func (c *Cache) GetUserState(ctx context.Context, userID int64) (string, error) {
	return c.getString(ctx, UserStateKey(userID))
}

func (c *Cache) DeleteUserState(ctx context.Context, userID int64) error {
	return c.Delete(ctx, UserStateKey(userID))
}

// GetFilterSession returns the filter a UI session last stored, or ErrCacheMiss.
func (c *Cache) GetFilterSession(ctx context.Context, sessionID string) (filter.Filter, error) {
	f := filter.Default()
	if err := c.Get(ctx, FilterSessionKey(sessionID), &f); err != nil {
		return filter.Filter{}, err
	}
	return f, nil
}

func (c *Cache) SetFilterSession(ctx context.Context, sessionID string, f filter.Filter) error {
	return c.Set(ctx, FilterSessionKey(sessionID), f, FilterSessionCacheTTL)
}

func (c *Cache) DeleteFilterSession(ctx context.Context, sessionID string) error {
	return c.Delete(ctx, FilterSessionKey(sessionID))
}
