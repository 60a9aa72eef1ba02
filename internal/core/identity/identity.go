// Package identity maps verified token claims to the internal Principal.
// Signature checks happen before this package is reached.
package identity

import (
	"strings"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// Claims is the subset of verified token claims the dashboard relies on.
type Claims struct {
	Subject  string
	Email    string
	Role     string
	ClientID string
}

// metadataKeys lists the nested claim objects searched when a value is not
// present at the top level, in priority order.
var metadataKeys = []string{"metadata", "public_metadata"}

// ClaimsFromMap reads Claims from a decoded claim set. role and client_id are
// taken from the top level first, then from the metadata objects that session
// token templates usually carry.
func ClaimsFromMap(m map[string]any) Claims {
	return Claims{
		Subject:  str(m["sub"]),
		Email:    str(m["email"]),
		Role:     lookup(m, "role"),
		ClientID: firstNonEmpty(lookup(m, "client_id"), lookup(m, "clientId")),
	}
}

// Resolve builds the Principal for claims. A missing role falls back to
// defaultRole; an unknown role or a missing tenant is rejected.
func Resolve(c Claims, defaultRole domain.Role) (domain.Principal, error) {
	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return domain.Principal{}, domain.AuthenticationError("token missing subject")
	}

	role := defaultRole
	if raw := strings.ToLower(strings.TrimSpace(c.Role)); raw != "" {
		r, ok := domain.ParseRole(raw)
		if !ok {
			return domain.Principal{}, domain.AuthenticationError("unknown role")
		}
		role = r
	}

	clientID := strings.TrimSpace(c.ClientID)
	if clientID == "" {
		return domain.Principal{}, domain.AuthenticationError("no tenant context")
	}

	return domain.Principal{
		ID:       sub,
		Email:    strings.TrimSpace(c.Email),
		Role:     role,
		ClientID: clientID,
	}, nil
}

func lookup(m map[string]any, key string) string {
	if v := str(m[key]); v != "" {
		return v
	}
	for _, mk := range metadataKeys {
		nested, ok := m[mk].(map[string]any)
		if !ok {
			continue
		}
		if v := str(nested[key]); v != "" {
			return v
		}
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
