package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

// DirectoryRepository reads clients and users.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewDirectoryRepository(pool *pgxpool.Pool) ports.DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

func (r *DirectoryRepository) ListClients(ctx context.Context, clientID string) ([]domain.Client, error) {
	p := &predicate{}
	if clientID != "" {
		p.add("id = ?", clientID)
	}
	rows, err := r.pool.Query(ctx, "SELECT id, name, created_at FROM clients"+p.where()+" ORDER BY name", p.args...)
	if err != nil {
		return nil, dbError("list clients", "client", err)
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, dbError("scan client", "client", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list clients", "client", err)
	}
	return out, nil
}

func (r *DirectoryRepository) FindClient(ctx context.Context, id string) (*domain.Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, "SELECT id, name, created_at FROM clients WHERE id = $1", id))
	if err != nil {
		return nil, dbError("find client", "client", err)
	}
	return c, nil
}

func (r *DirectoryRepository) ListUsers(ctx context.Context, clientID string, role domain.Role) ([]domain.User, error) {
	p := &predicate{}
	if clientID != "" {
		p.add("client_id = ?", clientID)
	}
	if role != "" {
		p.add("role = ?", string(role))
	}
	rows, err := r.pool.Query(ctx,
		"SELECT id, client_id, email, full_name, role, created_at FROM users"+p.where()+" ORDER BY full_name, id",
		p.args...)
	if err != nil {
		return nil, dbError("list users", "user", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dbError("scan user", "user", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list users", "user", err)
	}
	return out, nil
}

func (r *DirectoryRepository) FindUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		"SELECT id, client_id, email, full_name, role, created_at FROM users WHERE id = $1", id))
	if err != nil {
		return nil, dbError("find user", "user", err)
	}
	return u, nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.ClientID, &u.Email, &u.FullName, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
