package domain

import "time"

// StageEvent is one entry of a call's stage audit trail.
type StageEvent struct {
	ID        string    `json:"id"`
	CallID    string    `json:"callId"`
	ClientID  string    `json:"clientId"`
	ActorID   string    `json:"actorId"`
	From      Stage     `json:"from"`
	To        Stage     `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}
