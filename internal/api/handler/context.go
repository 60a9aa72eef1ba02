package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/api/middleware"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// principal returns the caller resolved by the Auth middleware. Its absence
// means the route was registered without Auth, which is treated as unauthenticated.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.ID == "" {
		return domain.Principal{}, domain.AuthenticationError("missing authentication context")
	}
	return p, nil
}
