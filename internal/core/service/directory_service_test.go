package service

import (
	"context"
	"errors"
	"testing"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

type stubDirectoryRepo struct {
	clients       []domain.Client
	users         []domain.User
	lastClientID  string
	lastRole      domain.Role
	listUsersHits int
}

func (r *stubDirectoryRepo) ListClients(_ context.Context, clientID string) ([]domain.Client, error) {
	r.lastClientID = clientID
	var out []domain.Client
	for _, c := range r.clients {
		if clientID == "" || c.ID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubDirectoryRepo) FindClient(_ context.Context, id string) (*domain.Client, error) {
	for _, c := range r.clients {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.NotFoundError("client not found")
}

func (r *stubDirectoryRepo) ListUsers(_ context.Context, clientID string, role domain.Role) ([]domain.User, error) {
	r.listUsersHits++
	r.lastClientID, r.lastRole = clientID, role
	var out []domain.User
	for _, u := range r.users {
		if (clientID == "" || u.ClientID == clientID) && (role == "" || u.Role == role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubDirectoryRepo) FindUser(context.Context, string) (*domain.User, error) {
	return nil, domain.NotFoundError("user not found")
}

func newDirectoryFixture() (*DirectoryService, *stubDirectoryRepo) {
	repo := &stubDirectoryRepo{
		clients: []domain.Client{{ID: "c1", Name: "Acme"}, {ID: "c2", Name: "Globex"}},
		users: []domain.User{
			{ID: "a1", ClientID: "c1", Role: domain.RoleAdmin},
			{ID: "u1", ClientID: "c1", Role: domain.RoleSales},
			{ID: "u9", ClientID: "c2", Role: domain.RoleSales},
		},
	}
	return NewDirectoryService(repo, discardLogger), repo
}

func TestDirectoryService_ListClients_Scoped(t *testing.T) {
	svc, repo := newDirectoryFixture()

	all, err := svc.ListClients(context.Background(), ceo, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ceo should see both clients: %v %v", all, err)
	}

	own, err := svc.ListClients(context.Background(), sales, "")
	if err != nil || len(own) != 1 || own[0].ID != "c1" {
		t.Fatalf("sales should see only c1: %v %v", own, err)
	}
	if repo.lastClientID != "c1" {
		t.Fatalf("repository saw %q", repo.lastClientID)
	}

	if _, err := svc.ListClients(context.Background(), admin, "c2"); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestDirectoryService_ListClients_EmptyIsNonNil(t *testing.T) {
	svc, _ := newDirectoryFixture()

	got, err := svc.ListClients(context.Background(), ceo, "c404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestDirectoryService_GetClient(t *testing.T) {
	svc, _ := newDirectoryFixture()

	c, err := svc.GetClient(context.Background(), admin, "c1")
	if err != nil || c.Name != "Acme" {
		t.Fatalf("unexpected result: %v %v", c, err)
	}
	if _, err := svc.GetClient(context.Background(), admin, "c2"); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if _, err := svc.GetClient(context.Background(), ceo, "c404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDirectoryService_ListUsers(t *testing.T) {
	svc, repo := newDirectoryFixture()

	users, err := svc.ListUsers(context.Background(), admin, "", domain.RoleSales)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("admin should see c1 sales only: %v", users)
	}
	if repo.lastClientID != "c1" || repo.lastRole != domain.RoleSales {
		t.Fatalf("repository saw client=%q role=%q", repo.lastClientID, repo.lastRole)
	}
}

func TestDirectoryService_ListUsers_Rejections(t *testing.T) {
	svc, repo := newDirectoryFixture()

	if _, err := svc.ListUsers(context.Background(), sales, "", ""); !errors.Is(err, domain.ErrAuthorization) {
		t.Fatalf("sales: expected authorization error, got %v", err)
	}
	if _, err := svc.ListUsers(context.Background(), admin, "", "owner"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad role: expected validation error, got %v", err)
	}
	if repo.listUsersHits != 0 {
		t.Fatalf("repository must not be queried, got %d calls", repo.listUsersHits)
	}
}
