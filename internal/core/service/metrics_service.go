package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/closerhq/agency-dashboard/internal/core/access"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
	"github.com/closerhq/agency-dashboard/internal/metrics"
)

// windowSpans are the trailing spans of the fixed-window entry points.
var windowSpans = map[ports.Window]time.Duration{
	ports.WindowRealtime: 24 * time.Hour,
	ports.WindowWeekly:   7 * 24 * time.Hour,
	ports.WindowMonthly:  30 * 24 * time.Hour,
}

// MetricsService scopes filters, runs aggregations through the cache and
// derives the dashboard ratios.
type MetricsService struct {
	repo   ports.MetricsRepository
	cache  ports.Cache
	logger zerolog.Logger
	now    func() time.Time
}

// MetricsOption customises a MetricsService.
type MetricsOption func(*MetricsService)

// WithClock overrides the time source used for trailing windows.
func WithClock(now func() time.Time) MetricsOption {
	return func(s *MetricsService) { s.now = now }
}

func NewMetricsService(repo ports.MetricsRepository, cache ports.Cache, logger zerolog.Logger, opts ...MetricsOption) *MetricsService {
	s := &MetricsService{repo: repo, cache: cache, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary aggregates the requested window; no dates means all time.
func (s *MetricsService) Summary(ctx context.Context, p domain.Principal, f domain.MetricsFilter) (domain.DerivedMetrics, domain.MetricsFilter, error) {
	scoped, err := scopeFilter(p, f)
	if err != nil {
		return domain.DerivedMetrics{}, f, err
	}
	m, err := s.derived(ctx, scoped)
	return m, scoped, err
}

// Window aggregates a fixed trailing window ending now. Requested dates are ignored.
func (s *MetricsService) Window(ctx context.Context, p domain.Principal, f domain.MetricsFilter, w ports.Window) (domain.DerivedMetrics, domain.MetricsFilter, error) {
	span, ok := windowSpans[w]
	if !ok {
		return domain.DerivedMetrics{}, f, fmt.Errorf("metrics window %q: %w", w, domain.ErrInternal)
	}

	scoped, err := scopeFilter(p, f)
	if err != nil {
		return domain.DerivedMetrics{}, f, err
	}

	// Minute granularity keeps the cache key stable between close requests.
	end := s.now().UTC().Truncate(time.Minute)
	scoped.DateFrom = end.Add(-span)
	scoped.DateTo = end
	scoped.DateToWholeDay = false

	m, err := s.derived(ctx, scoped)
	return m, scoped, err
}

// Comparison aggregates the same scope over two windows and reports the
// per-metric change.
func (s *MetricsService) Comparison(ctx context.Context, p domain.Principal, f domain.ComparisonFilter) (map[string]domain.ComparisonMetric, domain.ComparisonFilter, error) {
	scope, err := access.Scope(p, f.Current.ClientID, f.Current.UserID)
	if err != nil {
		return nil, f, err
	}
	scoped := domain.ComparisonFilter{
		Current:  f.Current.WithScope(scope),
		Previous: f.Previous.WithScope(scope),
	}

	cur, err := s.derived(ctx, scoped.Current)
	if err != nil {
		return nil, scoped, err
	}
	prev, err := s.derived(ctx, scoped.Previous)
	if err != nil {
		return nil, scoped, err
	}
	return domain.Compare(cur, prev), scoped, nil
}

// Trend returns exactly f.Days points, one per UTC calendar day ending today,
// zero-filled where no calls exist.
func (s *MetricsService) Trend(ctx context.Context, p domain.Principal, f domain.TrendFilter) ([]domain.TrendPoint, domain.TrendFilter, error) {
	scoped, err := scopeFilter(p, f.MetricsFilter)
	if err != nil {
		return nil, f, err
	}
	days := f.Days
	if days < 1 {
		days = 1
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	scoped.DateFrom = today.AddDate(0, 0, -(days - 1))
	scoped.DateTo = today
	scoped.DateToWholeDay = true
	out := domain.TrendFilter{MetricsFilter: scoped, Days: days}

	var rows []domain.DailyCounts
	err = s.cached(ctx, cacheKey("trend", scoped), &rows, func() (any, error) {
		defer observe("daily")()
		return s.repo.AggregateDaily(ctx, scoped)
	})
	if err != nil {
		return nil, out, err
	}

	byDay := make(map[string]domain.CallCounts, len(rows))
	for _, r := range rows {
		key := r.Day.UTC().Format("2006-01-02")
		c := byDay[key]
		c.Add(r.Counts)
		byDay[key] = c
	}

	points := make([]domain.TrendPoint, 0, days)
	for d := scoped.DateFrom; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		points = append(points, domain.TrendPoint{Date: key, DerivedMetrics: domain.Derive(byDay[key])})
	}
	return points, out, nil
}

// TrafficSources breaks the window down by acquisition channel.
func (s *MetricsService) TrafficSources(ctx context.Context, p domain.Principal, f domain.MetricsFilter) (map[domain.TrafficSource]domain.DerivedMetrics, domain.MetricsFilter, error) {
	scoped, err := scopeFilter(p, f)
	if err != nil {
		return nil, f, err
	}
	scoped.TrafficSource = domain.TrafficAll

	out := make(map[domain.TrafficSource]domain.DerivedMetrics, 3)
	for _, src := range []domain.TrafficSource{domain.TrafficOrganic, domain.TrafficMeta, domain.TrafficAll} {
		sf := scoped
		sf.TrafficSource = src
		m, err := s.derived(ctx, sf)
		if err != nil {
			return nil, scoped, err
		}
		out[src] = m
	}
	return out, scoped, nil
}

// Leaderboard ranks every salesperson in scope by cash collected, then wins.
func (s *MetricsService) Leaderboard(ctx context.Context, p domain.Principal, f domain.MetricsFilter) ([]domain.LeaderboardEntry, domain.MetricsFilter, error) {
	scoped, err := scopeFilter(p, f)
	if err != nil {
		return nil, f, err
	}

	var rows []domain.UserCounts
	err = s.cached(ctx, cacheKey("leaderboard", scoped), &rows, func() (any, error) {
		defer observe("by_user")()
		return s.repo.AggregateByUser(ctx, scoped)
	})
	if err != nil {
		return nil, scoped, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.LeaderboardEntry{UserID: r.UserID, DerivedMetrics: domain.Derive(r.Counts)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CashCollected != b.CashCollected {
			return a.CashCollected > b.CashCollected
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.UserID < b.UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, scoped, nil
}

// ClearCache drops every cached aggregation. admin and ceo only.
func (s *MetricsService) ClearCache(ctx context.Context, p domain.Principal) error {
	if !access.CanManage(p) {
		return domain.AuthorizationError("only admin or ceo can clear the metrics cache")
	}
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear metrics cache: %w", err)
	}
	metrics.CacheClearsTotal.Inc()
	s.logger.Info().Str("user_id", p.ID).Str("role", string(p.Role)).Msg("metrics cache cleared")
	return nil
}

func (s *MetricsService) derived(ctx context.Context, f domain.MetricsFilter) (domain.DerivedMetrics, error) {
	var counts domain.CallCounts
	err := s.cached(ctx, cacheKey("summary", f), &counts, func() (any, error) {
		defer observe("summary")()
		return s.repo.Aggregate(ctx, f)
	})
	if err != nil {
		return domain.DerivedMetrics{}, err
	}
	return domain.Derive(counts), nil
}

// cached fills dst from the cache, or from compute on a miss. Cache failures
// are logged and bypassed; compute failures are returned as is.
func (s *MetricsService) cached(ctx context.Context, key string, dst any, compute func() (any, error)) error {
	raw, hit, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("metrics cache read failed")
	case hit:
		if jerr := json.Unmarshal(raw, dst); jerr == nil {
			metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
			return nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	default:
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	v, err := compute()
	if err != nil {
		return err
	}
	raw, err = json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode aggregation: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode aggregation: %w", err)
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("metrics cache write failed")
	}
	return nil
}

func scopeFilter(p domain.Principal, f domain.MetricsFilter) (domain.MetricsFilter, error) {
	scope, err := access.Scope(p, f.ClientID, f.UserID)
	if err != nil {
		return f, err
	}
	return f.WithScope(scope), nil
}

// cacheKey covers the full scoped filter tuple.
func cacheKey(kind string, f domain.MetricsFilter) string {
	return fmt.Sprintf("%s|c=%s|u=%s|from=%s|to=%s|src=%s",
		kind, f.ClientID, f.UserID, boundKey(f.DateFrom), boundKey(f.UpperBound()), f.SourceFilter())
}

func boundKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func observe(kind string) func() {
	start := time.Now()
	return func() {
		metrics.AggregationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
