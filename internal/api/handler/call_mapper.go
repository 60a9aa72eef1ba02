package handler

import (
	"time"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

func toCallResponse(c *domain.CallRecord) callResponse {
	return callResponse{
		ID:            c.ID,
		ClientID:      c.ClientID,
		UserID:        c.UserID,
		ProspectName:  c.ProspectName,
		ProspectEmail: c.ProspectEmail,
		ProspectPhone: c.ProspectPhone,
		Stage:         string(c.Stage),
		Outcome:       c.Outcome,
		ScheduledAt:   formatTime(c.ScheduledAt),
		CashCollected: c.CashCollected,
		Revenue:       c.Revenue,
		TrafficSource: string(c.TrafficSource),
		Notes:         c.Notes,
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
}

func toCallListResponse(r *ports.ListCallsResult) callListResponse {
	items := make([]callResponse, 0, len(r.Items))
	for _, c := range r.Items {
		items = append(items, toCallResponse(c))
	}
	return callListResponse{
		Items: items,
		Pagination: pagination{
			Total:   r.Total,
			Limit:   r.Limit,
			Offset:  r.Offset,
			HasMore: int64(r.Offset+len(items)) < r.Total,
		},
	}
}

func toStageEventResponses(events []domain.StageEvent) []stageEventResponse {
	out := make([]stageEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, stageEventResponse{
			ID:        e.ID,
			From:      string(e.From),
			To:        string(e.To),
			ActorID:   e.ActorID,
			Timestamp: formatTime(e.Timestamp),
		})
	}
	return out
}

func toCreateCallInput(p domain.Principal, req createCallRequest, idempotencyKey string) ports.CreateCallInput {
	in := ports.CreateCallInput{
		Principal:      p,
		ClientID:       req.ClientID,
		UserID:         req.UserID,
		ProspectName:   req.ProspectName,
		ProspectEmail:  req.ProspectEmail,
		ProspectPhone:  req.ProspectPhone,
		Stage:          domain.Stage(req.Stage),
		Outcome:        req.Outcome,
		CashCollected:  req.CashCollected,
		Revenue:        req.Revenue,
		TrafficSource:  domain.TrafficSource(req.TrafficSource),
		Notes:          req.Notes,
		IdempotencyKey: idempotencyKey,
	}
	if req.ScheduledAt != nil {
		in.ScheduledAt = *req.ScheduledAt
	}
	return in
}

func toUpdateCallInput(p domain.Principal, id string, req updateCallRequest) ports.UpdateCallInput {
	in := ports.UpdateCallInput{
		Principal:     p,
		ID:            id,
		ProspectName:  req.ProspectName,
		ProspectEmail: req.ProspectEmail,
		ProspectPhone: req.ProspectPhone,
		Outcome:       req.Outcome,
		ScheduledAt:   req.ScheduledAt,
		CashCollected: req.CashCollected,
		Revenue:       req.Revenue,
		Notes:         req.Notes,
	}
	if req.TrafficSource != nil {
		src := domain.TrafficSource(*req.TrafficSource)
		in.TrafficSource = &src
	}
	return in
}

func toCallListEcho(f domain.CallListFilter) callListFiltersEcho {
	return callListFiltersEcho{filtersEcho: echoFilter(f.MetricsFilter), Stage: string(f.Stage)}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
