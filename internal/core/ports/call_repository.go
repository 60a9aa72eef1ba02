package ports

import (
	"context"
	"time"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// CallRepository defines persistence operations for call records.
// Every read takes a scope; an empty scope field means "no filter" on it.
type CallRepository interface {
	Create(ctx context.Context, call *domain.CallRecord) error
	// FindByID returns ErrNotFound when the call does not exist, is deleted,
	// or lies outside scope.
	FindByID(ctx context.Context, id string, scope domain.Scope) (*domain.CallRecord, error)
	FindByIdempotencyKey(ctx context.Context, clientID, key string) (*domain.CallRecord, error)
	// List returns a page of calls matching filter and the total count.
	List(ctx context.Context, filter domain.CallListFilter) ([]*domain.CallRecord, int64, error)
	Update(ctx context.Context, call *domain.CallRecord) error
	// UpdateStage sets the stage only while the stored stage is still from,
	// and fails with a conflict error otherwise.
	UpdateStage(ctx context.Context, id string, from, to domain.Stage, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
