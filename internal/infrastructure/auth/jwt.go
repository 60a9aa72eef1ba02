package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/identity"
)

// leeway absorbs clock skew between the identity provider and this service.
const leeway = 30 * time.Second

// Config selects the verification key. A PEM public key enables RS256 and
// wins over an HS256 secret.
type Config struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
}

// JWTVerifier checks bearer tokens issued by the external identity provider.
type JWTVerifier struct {
	key     any
	method  string
	options []jwt.ParserOption
}

func NewJWTVerifier(cfg Config) (*JWTVerifier, error) {
	v := &JWTVerifier{}
	switch {
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse jwt public key: %w", err)
		}
		v.key, v.method = key, jwt.SigningMethodRS256.Alg()
	case cfg.Secret != "":
		v.key, v.method = []byte(cfg.Secret), jwt.SigningMethodHS256.Alg()
	default:
		return nil, errors.New("jwt verifier: no verification key configured")
	}

	v.options = []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method}),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		v.options = append(v.options, jwt.WithIssuer(cfg.Issuer))
	}
	return v, nil
}

// Verify validates signature, expiry and issuer and returns the token claims.
// Any failure is reported as an authentication error without the cause.
func (v *JWTVerifier) Verify(_ context.Context, token string) (identity.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, v.options...)
	if err != nil || !tkn.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Claims{}, domain.AuthenticationError("token expired")
		}
		return identity.Claims{}, domain.AuthenticationError("invalid token")
	}
	return identity.ClaimsFromMap(claims), nil
}
