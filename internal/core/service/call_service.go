package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/closerhq/agency-dashboard/internal/core/access"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
	"github.com/closerhq/agency-dashboard/internal/metrics"
)

type CallService struct {
	repo      ports.CallRepository
	directory ports.DirectoryRepository
	audit     ports.AuditRepository
	publisher ports.StagePublisher
	logger    zerolog.Logger
}

// NewCallService wires the call use cases. audit and publisher may be nil
// when the audit trail is disabled.
func NewCallService(
	repo ports.CallRepository,
	directory ports.DirectoryRepository,
	audit ports.AuditRepository,
	publisher ports.StagePublisher,
	logger zerolog.Logger,
) *CallService {
	return &CallService{repo: repo, directory: directory, audit: audit, publisher: publisher, logger: logger}
}

// CreateCall logs a new call. If an idempotency key is provided and already
// seen for the client, the previously created call is returned without side
// effects, provided it lies within the caller's scope.
func (s *CallService) CreateCall(ctx context.Context, in ports.CreateCallInput) (*ports.CallResult, error) {
	scope, err := access.Scope(in.Principal, in.ClientID, in.UserID)
	if err != nil {
		return nil, err
	}
	// A ceo names the client explicitly; other roles are pinned by scope.
	clientID := scope.ClientID
	userID := scope.UserID
	if userID == "" {
		userID = in.Principal.ID
	}

	if err := s.checkCallInput(ctx, in, clientID, userID); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, clientID, in.IdempotencyKey)
		switch {
		case err == nil && existing != nil:
			if !access.Covers(scope, existing.ClientID, existing.UserID) {
				s.logger.Warn().Str("idempotency_key", in.IdempotencyKey).Str("user_id", userID).Msg("idempotency key owned by another user")
				return nil, domain.ConflictError("idempotency key already used")
			}
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("call_id", existing.ID).Msg("idempotent replay")
			return &ports.CallResult{Call: existing, AlreadyExisted: true}, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	stage := in.Stage
	if stage == "" {
		stage = domain.StageScheduled
	}
	source := in.TrafficSource
	if source == "" {
		source = domain.TrafficOrganic
	}

	now := time.Now().UTC()
	call := &domain.CallRecord{
		ID:             uuid.New().String(),
		ClientID:       clientID,
		UserID:         userID,
		ProspectName:   strings.TrimSpace(in.ProspectName),
		ProspectEmail:  strings.TrimSpace(in.ProspectEmail),
		ProspectPhone:  strings.TrimSpace(in.ProspectPhone),
		Stage:          stage,
		Outcome:        in.Outcome,
		ScheduledAt:    in.ScheduledAt.UTC(),
		CashCollected:  in.CashCollected,
		Revenue:        in.Revenue,
		TrafficSource:  source,
		Notes:          in.Notes,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if call.ScheduledAt.IsZero() {
		call.ScheduledAt = now
	}

	if err := s.repo.Create(ctx, call); err != nil {
		s.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to create call")
		return nil, err
	}

	metrics.CallsCreatedTotal.WithLabelValues(string(source)).Inc()
	s.logger.Info().Str("call_id", call.ID).Str("client_id", clientID).Str("user_id", userID).Msg("call created")

	return &ports.CallResult{Call: call}, nil
}

func (s *CallService) checkCallInput(ctx context.Context, in ports.CreateCallInput, clientID, userID string) error {
	var errs domain.ValidationErrors
	if clientID == "" {
		errs.Add("clientId", "clientId is required")
	}
	if strings.TrimSpace(in.ProspectName) == "" {
		errs.Add("prospectName", "prospectName is required")
	}
	if in.Stage != "" && !in.Stage.Valid() {
		errs.Add("stage", "stage must be one of: scheduled in_progress completed no_show closed_won lost")
	}
	if in.TrafficSource != "" && in.TrafficSource != domain.TrafficOrganic && in.TrafficSource != domain.TrafficMeta {
		errs.Add("trafficSource", "trafficSource must be one of: organic meta")
	}
	if in.CashCollected < 0 || in.Revenue < 0 {
		errs.Add("cashCollected", "amounts must not be negative")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	// A call assigned to someone else must go to a member of the target client.
	if userID != in.Principal.ID {
		u, err := s.directory.FindUser(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if u == nil || u.ClientID != clientID {
			errs.Add("userId", "userId does not belong to the target client")
			return errs.Err()
		}
	}
	return nil
}

// GetCall returns a call within the principal's scope.
func (s *CallService) GetCall(ctx context.Context, p domain.Principal, id string) (*domain.CallRecord, error) {
	scope, err := access.Scope(p, "", "")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, scope)
}

// ListCalls returns one page of calls scoped to the principal.
func (s *CallService) ListCalls(ctx context.Context, p domain.Principal, f domain.CallListFilter) (*ports.ListCallsResult, error) {
	scope, err := access.Scope(p, f.ClientID, f.UserID)
	if err != nil {
		return nil, err
	}
	f.MetricsFilter = f.MetricsFilter.WithScope(scope)

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.CallRecord{}
	}
	return &ports.ListCallsResult{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset, Filter: f}, nil
}

// UpdateCall applies a partial update to a call in scope. Stage changes go
// through MoveStage.
func (s *CallService) UpdateCall(ctx context.Context, in ports.UpdateCallInput) (*domain.CallRecord, error) {
	call, err := s.GetCall(ctx, in.Principal, in.ID)
	if err != nil {
		return nil, err
	}

	var errs domain.ValidationErrors
	if in.ProspectName != nil {
		if strings.TrimSpace(*in.ProspectName) == "" {
			errs.Add("prospectName", "prospectName must not be empty")
		}
		call.ProspectName = strings.TrimSpace(*in.ProspectName)
	}
	if in.ProspectEmail != nil {
		call.ProspectEmail = strings.TrimSpace(*in.ProspectEmail)
	}
	if in.ProspectPhone != nil {
		call.ProspectPhone = strings.TrimSpace(*in.ProspectPhone)
	}
	if in.Outcome != nil {
		call.Outcome = *in.Outcome
	}
	if in.ScheduledAt != nil {
		call.ScheduledAt = in.ScheduledAt.UTC()
	}
	if in.CashCollected != nil {
		if *in.CashCollected < 0 {
			errs.Add("cashCollected", "cashCollected must not be negative")
		}
		call.CashCollected = *in.CashCollected
	}
	if in.Revenue != nil {
		if *in.Revenue < 0 {
			errs.Add("revenue", "revenue must not be negative")
		}
		call.Revenue = *in.Revenue
	}
	if in.TrafficSource != nil {
		if *in.TrafficSource != domain.TrafficOrganic && *in.TrafficSource != domain.TrafficMeta {
			errs.Add("trafficSource", "trafficSource must be one of: organic meta")
		}
		call.TrafficSource = *in.TrafficSource
	}
	if in.Notes != nil {
		call.Notes = *in.Notes
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	call.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

// MoveStage performs a Kanban move. Moving to the current stage is a no-op.
// The write only applies while the stored stage still matches the one the
// transition was checked against; otherwise it fails with a conflict.
func (s *CallService) MoveStage(ctx context.Context, p domain.Principal, id string, stage domain.Stage) (*domain.CallRecord, error) {
	if !stage.Valid() {
		var errs domain.ValidationErrors
		errs.Add("stage", "stage must be one of: scheduled in_progress completed no_show closed_won lost")
		return nil, errs.Err()
	}

	call, err := s.GetCall(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if call.Stage == stage {
		return call, nil
	}

	from := call.Stage
	if !from.CanTransitionTo(stage) {
		return nil, domain.ConflictError(fmt.Sprintf("invalid stage transition from %s to %s", from, stage))
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStage(ctx, call.ID, from, stage, now); err != nil {
		return nil, err
	}
	call.Stage = stage
	call.UpdatedAt = now

	metrics.StageTransitionsTotal.WithLabelValues(string(from), string(stage)).Inc()
	if s.publisher != nil {
		s.publisher.Publish(domain.StageEvent{
			ID:        uuid.New().String(),
			CallID:    call.ID,
			ClientID:  call.ClientID,
			ActorID:   p.ID,
			From:      from,
			To:        stage,
			Timestamp: now,
		})
	}

	s.logger.Info().Str("call_id", call.ID).Str("from", string(from)).Str("to", string(stage)).Msg("call stage moved")
	return call, nil
}

// DeleteCall soft-deletes a call in scope.
func (s *CallService) DeleteCall(ctx context.Context, p domain.Principal, id string) error {
	call, err := s.GetCall(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, call.ID, time.Now().UTC()); err != nil {
		return err
	}
	s.logger.Info().Str("call_id", call.ID).Str("user_id", p.ID).Msg("call deleted")
	return nil
}

// History returns the stage audit trail of a call in scope.
func (s *CallService) History(ctx context.Context, p domain.Principal, id string) ([]domain.StageEvent, error) {
	call, err := s.GetCall(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []domain.StageEvent{}, nil
	}
	return s.audit.ListStageEvents(ctx, call.ID)
}
