package domain

// Role is the access level of an authenticated principal.
type Role string

const (
	RoleCEO        Role = "ceo"
	RoleAdmin      Role = "admin"
	RoleSales      Role = "sales"
	RoleAgencyUser Role = "agency_user"
	RoleClientUser Role = "client_user"
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleCEO, RoleAdmin, RoleSales, RoleAgencyUser, RoleClientUser:
		return r, true
	}
	return "", false
}

// Principal is the resolved actor of a request. Immutable for the request lifetime.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
	ClientID string `json:"clientId"`
}

// Scope is the narrowed tenant/user pair a request may observe.
// Empty ClientID means all clients (ceo only); empty UserID means all users in scope.
type Scope struct {
	ClientID string
	UserID   string
}
