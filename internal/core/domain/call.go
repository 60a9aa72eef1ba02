package domain

import "time"

// Stage represents the CRM lifecycle state of a call.
type Stage string

const (
	StageScheduled  Stage = "scheduled"
	StageInProgress Stage = "in_progress"
	StageCompleted  Stage = "completed"
	StageNoShow     Stage = "no_show"
	StageClosedWon  Stage = "closed_won"
	StageLost       Stage = "lost"
)

// validTransitions defines the Kanban moves allowed between stages.
// closed_won and lost are terminal.
var validTransitions = map[Stage][]Stage{
	StageScheduled:  {StageInProgress, StageCompleted, StageNoShow, StageLost},
	StageInProgress: {StageCompleted, StageNoShow, StageClosedWon, StageLost},
	StageCompleted:  {StageClosedWon, StageLost},
	StageNoShow:     {StageScheduled, StageLost},
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageScheduled, StageInProgress, StageCompleted, StageNoShow, StageClosedWon, StageLost:
		return true
	}
	return false
}

// CanTransitionTo reports whether a move from s to next is allowed.
func (s Stage) CanTransitionTo(next Stage) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Taken reports whether the call actually went live.
func (s Stage) Taken() bool {
	switch s {
	case StageInProgress, StageCompleted, StageClosedWon, StageLost:
		return true
	}
	return false
}

// Showed reports whether the prospect attended and the call reached a
// completed or terminal stage.
func (s Stage) Showed() bool {
	switch s {
	case StageCompleted, StageClosedWon, StageLost:
		return true
	}
	return false
}

// TrafficSource classifies how a prospect was acquired.
type TrafficSource string

const (
	TrafficOrganic TrafficSource = "organic"
	TrafficMeta    TrafficSource = "meta"
	// TrafficAll is a filter value only; records are always organic or meta.
	TrafficAll TrafficSource = "all"
)

// CallRecord is one logged sales call, owned by a client and a user.
type CallRecord struct {
	ID             string        `json:"id"`
	ClientID       string        `json:"clientId"`
	UserID         string        `json:"userId"`
	ProspectName   string        `json:"prospectName"`
	ProspectEmail  string        `json:"prospectEmail,omitempty"`
	ProspectPhone  string        `json:"prospectPhone,omitempty"`
	Stage          Stage         `json:"stage"`
	Outcome        string        `json:"outcome,omitempty"`
	ScheduledAt    time.Time     `json:"scheduledAt"`
	CashCollected  float64       `json:"cashCollected"`
	Revenue        float64       `json:"revenue"`
	TrafficSource  TrafficSource `json:"trafficSource"`
	Notes          string        `json:"notes,omitempty"`
	IdempotencyKey string        `json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
