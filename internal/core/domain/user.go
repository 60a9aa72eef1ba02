package domain

import "time"

// Client is a tenant: an agency's isolated data partition.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is a member of a client (salesperson, admin, ...).
type User struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
