// Package access holds the tenant-isolation rules every endpoint goes through.
//
// Rules:
//   - ceo can see every client and every user.
//   - admin can see every user of their own client.
//   - sales can see only their own calls in their own client.
//   - agency_user and client_user have no access to client data.
//
// Omitted filters are narrowed silently to the caller's scope; explicitly
// requested values outside that scope are rejected.
package access

import "github.com/closerhq/agency-dashboard/internal/core/domain"

// CanAccessClient reports whether p may observe records of targetClientID.
func CanAccessClient(p domain.Principal, targetClientID string) bool {
	switch p.Role {
	case domain.RoleCEO:
		return true
	case domain.RoleAdmin, domain.RoleSales:
		return targetClientID == p.ClientID
	default:
		return false
	}
}

// EffectiveClientID returns the client filter to apply. ceo keeps the
// requested value (empty means all clients); every other role is pinned to
// its own client whatever was requested.
func EffectiveClientID(p domain.Principal, requested string) string {
	if p.Role == domain.RoleCEO {
		return requested
	}
	return p.ClientID
}

// EffectiveUserID returns the user filter to apply. sales is always pinned to
// itself; admin and ceo keep the requested value (empty means all users).
func EffectiveUserID(p domain.Principal, requested string) string {
	switch p.Role {
	case domain.RoleAdmin, domain.RoleCEO:
		return requested
	default:
		return p.ID
	}
}

// CanManage reports whether p holds a tenant-management role.
func CanManage(p domain.Principal) bool {
	return p.Role == domain.RoleAdmin || p.Role == domain.RoleCEO
}

// Scope narrows the requested client/user pair for p.
//
// An explicit clientId outside p's reach, or an explicit userId other than
// its own for a pinned role, fails with an authorization error. So does a
// role that cannot access even its effective client.
func Scope(p domain.Principal, requestedClientID, requestedUserID string) (domain.Scope, error) {
	if requestedClientID != "" && !CanAccessClient(p, requestedClientID) {
		return domain.Scope{}, domain.AuthorizationError("access to the requested client is forbidden")
	}

	userID := EffectiveUserID(p, requestedUserID)
	if requestedUserID != "" && userID != requestedUserID {
		return domain.Scope{}, domain.AuthorizationError("access to the requested user is forbidden")
	}

	clientID := EffectiveClientID(p, requestedClientID)
	if clientID != "" && !CanAccessClient(p, clientID) {
		return domain.Scope{}, domain.AuthorizationError("role has no access to client data")
	}
	if clientID == "" && p.Role != domain.RoleCEO {
		return domain.Scope{}, domain.AuthorizationError("no tenant context")
	}

	return domain.Scope{ClientID: clientID, UserID: userID}, nil
}

// Covers reports whether call ownership (clientID, userID) lies within s.
func Covers(s domain.Scope, clientID, userID string) bool {
	if s.ClientID != "" && s.ClientID != clientID {
		return false
	}
	if s.UserID != "" && s.UserID != userID {
		return false
	}
	return true
}
