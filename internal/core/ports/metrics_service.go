package ports

import (
	"context"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// Window is a fixed trailing aggregation window.
type Window string

const (
	WindowRealtime Window = "realtime"
	WindowWeekly   Window = "weekly"
	WindowMonthly  Window = "monthly"
)

// MetricsService exposes every aggregation entry point. Each call scopes the
// requested filter to the principal first and returns the narrowed filter
// alongside the result.
type MetricsService interface {
	Summary(ctx context.Context, p domain.Principal, f domain.MetricsFilter) (domain.DerivedMetrics, domain.MetricsFilter, error)
	Window(ctx context.Context, p domain.Principal, f domain.MetricsFilter, w Window) (domain.DerivedMetrics, domain.MetricsFilter, error)
	Comparison(ctx context.Context, p domain.Principal, f domain.ComparisonFilter) (map[string]domain.ComparisonMetric, domain.ComparisonFilter, error)
	Trend(ctx context.Context, p domain.Principal, f domain.TrendFilter) ([]domain.TrendPoint, domain.TrendFilter, error)
	TrafficSources(ctx context.Context, p domain.Principal, f domain.MetricsFilter) (map[domain.TrafficSource]domain.DerivedMetrics, domain.MetricsFilter, error)
	Leaderboard(ctx context.Context, p domain.Principal, f domain.MetricsFilter) ([]domain.LeaderboardEntry, domain.MetricsFilter, error)
	ClearCache(ctx context.Context, p domain.Principal) error
}
