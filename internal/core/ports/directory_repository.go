package ports

import (
	"context"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// DirectoryRepository reads tenants and their users.
type DirectoryRepository interface {
	// ListClients returns every client when clientID is empty.
	ListClients(ctx context.Context, clientID string) ([]domain.Client, error)
	FindClient(ctx context.Context, id string) (*domain.Client, error)
	ListUsers(ctx context.Context, clientID string, role domain.Role) ([]domain.User, error)
	FindUser(ctx context.Context, id string) (*domain.User, error)
}
