package search

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/filter"

	"go.uber.org/zap"
)

type GrantsAPI interface {
	SearchGrants(ctx context.Context, params url.Values) (*grants.SearchResponse, error)
	GetGrant(ctx context.Context, grantID string) (*grants.GrantItem, error)
}

type ResultCache interface {
	GetSearchResults(ctx context.Context, params url.Values, dest interface{}) error
	SetSearchResults(ctx context.Context, params url.Values, results interface{}, ttl time.Duration) error
}

type SourceResolver interface {
	Init(ctx context.Context) error
	Resolve(names []string) []string
}

type Result struct {
	Filter     filter.Filter      `json:"filter"`
	Query      string             `json:"query"`
	Grants     []grants.GrantItem `json:"grants"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Cached     bool               `json:"cached"`
}

// Service turns UI filters into backend searches.
type Service struct {
	api      GrantsAPI
	cache    ResultCache
	sources  SourceResolver
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a Service. cache and sources may be nil.
func New(api GrantsAPI, cache ResultCache, sources SourceResolver, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		api:      api,
		cache:    cache,
		sources:  sources,
		cacheTTL: cacheTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used to resolve relative deadlines.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Prepare normalizes f, resolves data-source names and maps the result.
func (s *Service) Prepare(ctx context.Context, f filter.Filter) (filter.Filter, url.Values) {
	return s.prepare(ctx, f, s.now())
}

func (s *Service) prepare(ctx context.Context, f filter.Filter, now time.Time) (filter.Filter, url.Values) {
	f = filter.Normalize(f)

	if s.sources != nil && f.DataSourceIDs != nil {
		if err := s.sources.Init(ctx); err != nil {
			s.logger.Warn("data sources unavailable, passing names through", zap.Error(err))
		}
		f.DataSourceIDs = s.sources.Resolve(f.DataSourceIDs)
	}

	return f, filter.ToQuery(f, now)
}

// Preview returns the parameters a search for f would send, without sending it.
func (s *Service) Preview(ctx context.Context, f filter.Filter) url.Values {
	_, params := s.Prepare(ctx, f)
	return params
}

func (s *Service) Search(ctx context.Context, f filter.Filter) (*Result, error) {
	now := s.now()
	f, params := s.prepare(ctx, f, now)

	result := &Result{
		Filter: f,
		Query:  params.Encode(),
	}

	// Deadline bounds move with the clock, so entries are keyed on a
	// clock rounded down to the TTL and never outlive one bucket.
	var cacheKey url.Values
	if s.cache != nil && s.cacheTTL > 0 {
		cacheKey = filter.ToQuery(f, now.Truncate(s.cacheTTL))

		var cached grants.SearchResponse
		if err := s.cache.GetSearchResults(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("search cache hit", zap.String("query", result.Query))
			result.fill(&cached)
			result.Cached = true
			return result, nil
		}
	}

	resp, err := s.api.SearchGrants(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search grants: %w", err)
	}

	if cacheKey != nil {
		if err := s.cache.SetSearchResults(ctx, cacheKey, resp, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache search results", zap.Error(err))
		}
	}

	result.fill(resp)
	return result, nil
}

func (s *Service) Grant(ctx context.Context, grantID string) (*grants.GrantItem, error) {
	return s.api.GetGrant(ctx, grantID)
}

// ApplyPreset returns the preset patch and current with the patch applied.
func ApplyPreset(current filter.Filter, key filter.PresetKey) (filter.Patch, filter.Filter) {
	patch := filter.Preset(current, key)
	return patch, current.Apply(patch)
}

func (r *Result) fill(resp *grants.SearchResponse) {
	r.Grants = resp.Grants
	if r.Grants == nil {
		r.Grants = []grants.GrantItem{}
	}
	r.Total = resp.Total
	r.Page = resp.Page
	r.Limit = resp.Limit
	r.TotalPages = resp.TotalPages
}
