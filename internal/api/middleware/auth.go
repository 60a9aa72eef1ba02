package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/identity"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

const principalKey = "principal"

// Auth verifies the bearer token with the identity provider, resolves the
// Principal and stores it in the request context.
func Auth(verifier ports.TokenVerifier, defaultRole domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.AuthenticationError("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.AuthenticationError("invalid authorization header")
			}

			claims, err := verifier.Verify(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			p, err := identity.Resolve(claims, defaultRole)
			if err != nil {
				return err
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// SetPrincipal stores p on the echo context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the Principal stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// VerifierFunc adapts a function to ports.TokenVerifier.
type VerifierFunc func(ctx context.Context, token string) (identity.Claims, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (identity.Claims, error) {
	return f(ctx, token)
}
