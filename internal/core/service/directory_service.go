package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/closerhq/agency-dashboard/internal/core/access"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

// DirectoryService exposes tenants and their users to managers.
type DirectoryService struct {
	repo   ports.DirectoryRepository
	logger zerolog.Logger
}

func NewDirectoryService(repo ports.DirectoryRepository, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{repo: repo, logger: logger}
}

// ListClients returns the clients visible to p: every client for ceo, the
// own client for everyone else with client access.
func (s *DirectoryService) ListClients(ctx context.Context, p domain.Principal, requestedClientID string) ([]domain.Client, error) {
	scope, err := access.Scope(p, requestedClientID, "")
	if err != nil {
		return nil, err
	}
	clients, err := s.repo.ListClients(ctx, scope.ClientID)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// GetClient returns a single client the principal may access.
func (s *DirectoryService) GetClient(ctx context.Context, p domain.Principal, id string) (*domain.Client, error) {
	if !access.CanAccessClient(p, id) {
		return nil, domain.AuthorizationError("access to the requested client is forbidden")
	}
	return s.repo.FindClient(ctx, id)
}

// ListUsers lists users of a client, optionally by role. admin and ceo only.
func (s *DirectoryService) ListUsers(ctx context.Context, p domain.Principal, requestedClientID string, role domain.Role) ([]domain.User, error) {
	if !access.CanManage(p) {
		return nil, domain.AuthorizationError("only admin or ceo can list users")
	}
	if role != "" {
		if _, ok := domain.ParseRole(string(role)); !ok {
			var errs domain.ValidationErrors
			errs.Add("role", "role must be one of: ceo admin sales agency_user client_user")
			return nil, errs.Err()
		}
	}
	scope, err := access.Scope(p, requestedClientID, "")
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx, scope.ClientID, role)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
