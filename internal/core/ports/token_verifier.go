package ports

import (
	"context"

	"github.com/closerhq/agency-dashboard/internal/core/identity"
)

// TokenVerifier checks a bearer credential with the identity provider and
// returns its verified claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Claims, error)
}
