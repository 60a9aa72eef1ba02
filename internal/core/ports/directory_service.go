package ports

import (
	"context"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// DirectoryService exposes scoped reads of clients and users.
type DirectoryService interface {
	ListClients(ctx context.Context, p domain.Principal, requestedClientID string) ([]domain.Client, error)
	GetClient(ctx context.Context, p domain.Principal, id string) (*domain.Client, error)
	ListUsers(ctx context.Context, p domain.Principal, requestedClientID string, role domain.Role) ([]domain.User, error)
}
