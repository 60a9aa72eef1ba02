package ports

import (
	"context"
	"time"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// CreateCallInput carries everything needed to log a call. ClientID and
// UserID are the requested owners; the service narrows them to the
// principal's scope.
type CreateCallInput struct {
	Principal      domain.Principal
	ClientID       string
	UserID         string
	ProspectName   string
	ProspectEmail  string
	ProspectPhone  string
	Stage          domain.Stage
	Outcome        string
	ScheduledAt    time.Time
	CashCollected  float64
	Revenue        float64
	TrafficSource  domain.TrafficSource
	Notes          string
	IdempotencyKey string
}

// CallResult is returned after creating a call.
type CallResult struct {
	Call *domain.CallRecord
	// AlreadyExisted is true when the Idempotency-Key matched an existing call.
	AlreadyExisted bool
}

// UpdateCallInput is a partial update; nil fields are left untouched.
type UpdateCallInput struct {
	Principal     domain.Principal
	ID            string
	ProspectName  *string
	ProspectEmail *string
	ProspectPhone *string
	Outcome       *string
	ScheduledAt   *time.Time
	CashCollected *float64
	Revenue       *float64
	TrafficSource *domain.TrafficSource
	Notes         *string
}

// ListCallsResult is one page of calls.
type ListCallsResult struct {
	Items  []*domain.CallRecord
	Total  int64
	Limit  int
	Offset int
	// Filter is the narrowed filter actually applied.
	Filter domain.CallListFilter
}

// CallService defines use-case operations for call records.
type CallService interface {
	CreateCall(ctx context.Context, input CreateCallInput) (*CallResult, error)
	GetCall(ctx context.Context, p domain.Principal, id string) (*domain.CallRecord, error)
	ListCalls(ctx context.Context, p domain.Principal, filter domain.CallListFilter) (*ListCallsResult, error)
	UpdateCall(ctx context.Context, input UpdateCallInput) (*domain.CallRecord, error)
	MoveStage(ctx context.Context, p domain.Principal, id string, stage domain.Stage) (*domain.CallRecord, error)
	DeleteCall(ctx context.Context, p domain.Principal, id string) error
	History(ctx context.Context, p domain.Principal, id string) ([]domain.StageEvent, error)
}
