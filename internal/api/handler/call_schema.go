package handler

import "time"

// --- Request / Response types ---

type createCallRequest struct {
	ClientID      string     `json:"clientId"`
	UserID        string     `json:"userId"`
	ProspectName  string     `json:"prospectName"  validate:"required,max=200"`
	ProspectEmail string     `json:"prospectEmail" validate:"omitempty,email"`
	ProspectPhone string     `json:"prospectPhone" validate:"omitempty,max=50"`
	Stage         string     `json:"stage"         validate:"omitempty,oneof=scheduled in_progress completed no_show closed_won lost"`
	Outcome       string     `json:"outcome"       validate:"omitempty,max=200"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	CashCollected float64    `json:"cashCollected" validate:"gte=0"`
	Revenue       float64    `json:"revenue"       validate:"gte=0"`
	TrafficSource string     `json:"trafficSource" validate:"omitempty,oneof=organic meta"`
	Notes         string     `json:"notes"         validate:"omitempty,max=5000"`
}

type updateCallRequest struct {
	ProspectName  *string    `json:"prospectName"  validate:"omitempty,max=200"`
	ProspectEmail *string    `json:"prospectEmail" validate:"omitempty,email"`
	ProspectPhone *string    `json:"prospectPhone" validate:"omitempty,max=50"`
	Outcome       *string    `json:"outcome"       validate:"omitempty,max=200"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	CashCollected *float64   `json:"cashCollected" validate:"omitempty,gte=0"`
	Revenue       *float64   `json:"revenue"       validate:"omitempty,gte=0"`
	TrafficSource *string    `json:"trafficSource" validate:"omitempty,oneof=organic meta"`
	Notes         *string    `json:"notes"         validate:"omitempty,max=5000"`
}

type moveStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=scheduled in_progress completed no_show closed_won lost"`
}

type callResponse struct {
	ID            string  `json:"id"`
	ClientID      string  `json:"clientId"`
	UserID        string  `json:"userId"`
	ProspectName  string  `json:"prospectName"`
	ProspectEmail string  `json:"prospectEmail,omitempty"`
	ProspectPhone string  `json:"prospectPhone,omitempty"`
	Stage         string  `json:"stage"`
	Outcome       string  `json:"outcome,omitempty"`
	ScheduledAt   string  `json:"scheduledAt"`
	CashCollected float64 `json:"cashCollected"`
	Revenue       float64 `json:"revenue"`
	TrafficSource string  `json:"trafficSource"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type callListResponse struct {
	Items      []callResponse `json:"items"`
	Pagination pagination     `json:"pagination"`
}

type stageEventResponse struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ActorID   string `json:"actorId"`
	Timestamp string `json:"timestamp"`
}
