// Package postgres stores calls, tenants and ad spend in PostgreSQL and runs
// the metrics aggregation queries.
//
// Expected tables:
//
//	clients(id, name, created_at)
//	users(id, client_id, email, full_name, role, created_at)
//	calls(id, client_id, user_id, prospect_name, prospect_email, prospect_phone,
//	      stage, outcome, scheduled_at, cash_collected, revenue, traffic_source,
//	      notes, idempotency_key, created_at, updated_at, deleted_at)
//	ad_spend(client_id, day, traffic_source, amount)
//
// Text columns are NOT NULL with empty-string defaults; deleted_at and
// idempotency_key are nullable.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// Config captures the settings for the connection pool.
type Config struct {
	URL      string
	MaxConns int32
}

// Connect creates a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connected to PostgreSQL")

	return pool, nil
}

const uniqueViolation = "23505"

// dbError wraps a driver failure so it maps to a database error upstream.
// pgx.ErrNoRows becomes a not-found error named after what.
func dbError(op, what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundError(what + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ConflictError(what + " already exists")
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrDatabase, err)
}
