package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

// countColumns must stay in the order scanCounts reads them.
const countColumns = `COUNT(*),
	COUNT(*) FILTER (WHERE stage IN ('in_progress', 'completed', 'closed_won', 'lost')),
	COUNT(*) FILTER (WHERE stage IN ('completed', 'closed_won', 'lost')),
	COUNT(*) FILTER (WHERE stage = 'closed_won'),
	COUNT(*) FILTER (WHERE stage = 'lost'),
	COUNT(*) FILTER (WHERE stage = 'no_show'),
	COALESCE(SUM(cash_collected), 0)::float8,
	COALESCE(SUM(revenue), 0)::float8`

// MetricsRepository runs the dashboard aggregations on PostgreSQL.
type MetricsRepository struct {
	pool *pgxpool.Pool
}

func NewMetricsRepository(pool *pgxpool.Pool) ports.MetricsRepository {
	return &MetricsRepository{pool: pool}
}

func (r *MetricsRepository) Aggregate(ctx context.Context, f domain.MetricsFilter) (domain.CallCounts, error) {
	p := callPredicate(f, "")

	var c domain.CallCounts
	row := r.pool.QueryRow(ctx, "SELECT "+countColumns+" FROM calls"+p.where(), p.args...)
	if err := scanCounts(row.Scan, &c); err != nil {
		return domain.CallCounts{}, dbError("aggregate calls", "metrics", err)
	}

	spend, err := r.adSpend(ctx, f)
	if err != nil {
		return domain.CallCounts{}, err
	}
	c.AdSpend = spend
	return c, nil
}

// AggregateDaily buckets calls and ad spend by UTC calendar day. Days with
// neither are omitted.
func (r *MetricsRepository) AggregateDaily(ctx context.Context, f domain.MetricsFilter) ([]domain.DailyCounts, error) {
	p := callPredicate(f, "")
	q := "SELECT date_trunc('day', scheduled_at AT TIME ZONE 'UTC') AS day, " + countColumns +
		" FROM calls" + p.where() + " GROUP BY day ORDER BY day"

	rows, err := r.pool.Query(ctx, q, p.args...)
	if err != nil {
		return nil, dbError("aggregate daily", "metrics", err)
	}
	defer rows.Close()

	byDay := map[time.Time]*domain.DailyCounts{}
	var out []*domain.DailyCounts
	for rows.Next() {
		d := &domain.DailyCounts{}
		err := scanCounts(func(dest ...any) error {
			return rows.Scan(append([]any{&d.Day}, dest...)...)
		}, &d.Counts)
		if err != nil {
			return nil, dbError("scan daily", "metrics", err)
		}
		d.Day = utcDay(d.Day)
		byDay[d.Day] = d
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("aggregate daily", "metrics", err)
	}

	sp := adSpendPredicate(f)
	spendRows, err := r.pool.Query(ctx,
		"SELECT day::timestamp, COALESCE(SUM(amount), 0)::float8 FROM ad_spend"+sp.where()+" GROUP BY day ORDER BY day",
		sp.args...)
	if err != nil {
		return nil, dbError("ad spend daily", "metrics", err)
	}
	defer spendRows.Close()

	for spendRows.Next() {
		var (
			day    time.Time
			amount float64
		)
		if err := spendRows.Scan(&day, &amount); err != nil {
			return nil, dbError("scan ad spend", "metrics", err)
		}
		day = utcDay(day)
		d, ok := byDay[day]
		if !ok {
			d = &domain.DailyCounts{Day: day}
			byDay[day] = d
			out = append(out, d)
		}
		d.Counts.AdSpend += amount
	}
	if err := spendRows.Err(); err != nil {
		return nil, dbError("ad spend daily", "metrics", err)
	}

	result := make([]domain.DailyCounts, 0, len(out))
	for _, d := range out {
		result = append(result, *d)
	}
	return result, nil
}

// AggregateByUser returns one row per salesperson with calls in the window.
// Ad spend is not attributed to individual users.
func (r *MetricsRepository) AggregateByUser(ctx context.Context, f domain.MetricsFilter) ([]domain.UserCounts, error) {
	p := callPredicate(f, "")
	q := "SELECT user_id, " + countColumns + " FROM calls" + p.where() + " GROUP BY user_id"

	rows, err := r.pool.Query(ctx, q, p.args...)
	if err != nil {
		return nil, dbError("aggregate by user", "metrics", err)
	}
	defer rows.Close()

	var out []domain.UserCounts
	for rows.Next() {
		var u domain.UserCounts
		err := scanCounts(func(dest ...any) error {
			return rows.Scan(append([]any{&u.UserID}, dest...)...)
		}, &u.Counts)
		if err != nil {
			return nil, dbError("scan user counts", "metrics", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("aggregate by user", "metrics", err)
	}
	return out, nil
}

func (r *MetricsRepository) adSpend(ctx context.Context, f domain.MetricsFilter) (float64, error) {
	p := adSpendPredicate(f)
	var total float64
	err := r.pool.QueryRow(ctx, "SELECT COALESCE(SUM(amount), 0)::float8 FROM ad_spend"+p.where(), p.args...).Scan(&total)
	if err != nil {
		return 0, dbError("sum ad spend", "metrics", err)
	}
	return total, nil
}

func scanCounts(scan func(dest ...any) error, c *domain.CallCounts) error {
	return scan(&c.Scheduled, &c.Taken, &c.Showed, &c.ClosedWon, &c.Lost, &c.NoShows, &c.CashCollected, &c.Revenue)
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
