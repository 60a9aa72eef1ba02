package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

const callColumns = `id, client_id, user_id, prospect_name, prospect_email, prospect_phone,
	stage, outcome, scheduled_at, cash_collected::float8, revenue::float8, traffic_source,
	notes, COALESCE(idempotency_key, ''), created_at, updated_at`

// CallRepository implements ports.CallRepository on PostgreSQL.
type CallRepository struct {
	pool *pgxpool.Pool
}

func NewCallRepository(pool *pgxpool.Pool) ports.CallRepository {
	return &CallRepository{pool: pool}
}

func (r *CallRepository) Create(ctx context.Context, c *domain.CallRecord) error {
	const q = `INSERT INTO calls (id, client_id, user_id, prospect_name, prospect_email, prospect_phone,
		stage, outcome, scheduled_at, cash_collected, revenue, traffic_source, notes, idempotency_key,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''), $15, $16)`

	_, err := r.pool.Exec(ctx, q,
		c.ID, c.ClientID, c.UserID, c.ProspectName, c.ProspectEmail, c.ProspectPhone,
		string(c.Stage), c.Outcome, c.ScheduledAt, c.CashCollected, c.Revenue, string(c.TrafficSource),
		c.Notes, c.IdempotencyKey, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return dbError("insert call", "call", err)
	}
	return nil
}

func (r *CallRepository) FindByID(ctx context.Context, id string, scope domain.Scope) (*domain.CallRecord, error) {
	p := callPredicate(domain.MetricsFilter{ClientID: scope.ClientID, UserID: scope.UserID}, "")
	p.add("id = ?", id)

	row := r.pool.QueryRow(ctx, "SELECT "+callColumns+" FROM calls"+p.where(), p.args...)
	c, err := scanCall(row)
	if err != nil {
		return nil, dbError("find call", "call", err)
	}
	return c, nil
}

func (r *CallRepository) FindByIdempotencyKey(ctx context.Context, clientID, key string) (*domain.CallRecord, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+callColumns+" FROM calls WHERE client_id = $1 AND idempotency_key = $2 AND deleted_at IS NULL",
		clientID, key)
	c, err := scanCall(row)
	if err != nil {
		return nil, dbError("find call by idempotency key", "call", err)
	}
	return c, nil
}

func (r *CallRepository) List(ctx context.Context, f domain.CallListFilter) ([]*domain.CallRecord, int64, error) {
	p := callPredicate(f.MetricsFilter, "")
	if f.Stage != "" {
		p.add("stage = ?", string(f.Stage))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM calls"+p.where(), p.args...).Scan(&total); err != nil {
		return nil, 0, dbError("count calls", "call", err)
	}

	q := fmt.Sprintf("SELECT %s FROM calls%s ORDER BY scheduled_at DESC, id LIMIT %s OFFSET %s",
		callColumns, p.where(), p.arg(f.Limit), p.arg(f.Offset))
	rows, err := r.pool.Query(ctx, q, p.args...)
	if err != nil {
		return nil, 0, dbError("list calls", "call", err)
	}
	defer rows.Close()

	items := make([]*domain.CallRecord, 0, f.Limit)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, 0, dbError("scan call", "call", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbError("list calls", "call", err)
	}
	return items, total, nil
}

func (r *CallRepository) Update(ctx context.Context, c *domain.CallRecord) error {
	const q = `UPDATE calls SET prospect_name = $2, prospect_email = $3, prospect_phone = $4,
		outcome = $5, scheduled_at = $6, cash_collected = $7, revenue = $8, traffic_source = $9,
		notes = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, q,
		c.ID, c.ProspectName, c.ProspectEmail, c.ProspectPhone, c.Outcome, c.ScheduledAt,
		c.CashCollected, c.Revenue, string(c.TrafficSource), c.Notes, c.UpdatedAt)
	if err != nil {
		return dbError("update call", "call", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("call not found")
	}
	return nil
}

func (r *CallRepository) UpdateStage(ctx context.Context, id string, from, to domain.Stage, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE calls SET stage = $3, updated_at = $4 WHERE id = $1 AND stage = $2 AND deleted_at IS NULL",
		id, string(from), string(to), at)
	if err != nil {
		return dbError("update call stage", "call", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM calls WHERE id = $1 AND deleted_at IS NULL)", id,
	).Scan(&exists); err != nil {
		return dbError("update call stage", "call", err)
	}
	if !exists {
		return domain.NotFoundError("call not found")
	}
	return domain.ConflictError("call stage changed concurrently")
}

func (r *CallRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE calls SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL",
		id, at)
	if err != nil {
		return dbError("delete call", "call", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("call not found")
	}
	return nil
}

func scanCall(row pgx.Row) (*domain.CallRecord, error) {
	var (
		c             domain.CallRecord
		stage, source string
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.UserID, &c.ProspectName, &c.ProspectEmail, &c.ProspectPhone,
		&stage, &c.Outcome, &c.ScheduledAt, &c.CashCollected, &c.Revenue, &source,
		&c.Notes, &c.IdempotencyKey, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Stage = domain.Stage(stage)
	c.TrafficSource = domain.TrafficSource(source)
	c.ScheduledAt = c.ScheduledAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
