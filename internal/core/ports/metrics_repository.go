package ports

import (
	"context"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// MetricsRepository runs the aggregation queries behind the dashboard.
// Filters reaching it are already scoped and normalized.
type MetricsRepository interface {
	Aggregate(ctx context.Context, filter domain.MetricsFilter) (domain.CallCounts, error)
	// AggregateDaily returns only the days that have data; callers zero-fill.
	AggregateDaily(ctx context.Context, filter domain.MetricsFilter) ([]domain.DailyCounts, error)
	AggregateByUser(ctx context.Context, filter domain.MetricsFilter) ([]domain.UserCounts, error)
}
