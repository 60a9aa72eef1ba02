package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// RBAC lets through only principals holding one of allowedRoles.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.AuthenticationError("missing authentication context")
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.AuthorizationError("insufficient role")
			}
			return next(c)
		}
	}
}
