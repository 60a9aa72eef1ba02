package ports

import (
	"context"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// AuditRepository stores the stage-transition trail of calls.
type AuditRepository interface {
	InsertStageEvent(ctx context.Context, event *domain.StageEvent) error
	ListStageEvents(ctx context.Context, callID string) ([]domain.StageEvent, error)
}

// StagePublisher hands stage events to the asynchronous audit writer.
type StagePublisher interface {
	Publish(event domain.StageEvent)
}
