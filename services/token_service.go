package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/releaserite/config"
)

// TokenClaims are the claims carried by an access token. The subject is the user's email.
type TokenClaims struct {
	Role        string `json:"role,omitempty"`
	Permissions string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed access tokens
type TokenService struct {
	secret  []byte
	method  jwt.SigningMethod
	ttl     time.Duration
	revoker TokenRevoker
	now     func() time.Time
}

// NewTokenService creates a token service from the signing settings in cfg.
// A nil revoker disables revocation.
func NewTokenService(cfg config.Config, revoker TokenRevoker) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, errors.Newf("token lifetime must be positive, got %s", cfg.AccessTokenTTL)
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Newf("unsupported token algorithm %q", cfg.Algorithm)
	}
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &TokenService{
		secret:  []byte(cfg.SecretKey),
		method:  method,
		ttl:     cfg.AccessTokenTTL,
		revoker: revoker,
		now:     time.Now,
	}, nil
}

// TTL returns the lifetime given to new tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new token for subject that expires after the configured TTL
func (s *TokenService) Issue(subject, role, permissions string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := TokenClaims{
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, expiresAt, nil
}

// Validate checks the signature, expiry and revocation state of a token and returns its claims
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewError(ErrInvalidToken, "Token has expired")
		}
		return nil, NewError(ErrInvalidToken, "Could not validate credentials")
	}
	if !token.Valid || claims.Subject == "" {
		return nil, NewError(ErrInvalidToken, "Could not validate credentials")
	}

	if claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, errors.Wrap(err, "check token revocation")
		}
		if revoked {
			return nil, NewError(ErrInvalidToken, "Token has been revoked")
		}
	}

	return claims, nil
}

// Revoke rejects the token described by claims for the rest of its lifetime
func (s *TokenService) Revoke(ctx context.Context, claims *TokenClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Time.Sub(s.now())
	return s.revoker.Revoke(ctx, claims.ID, remaining)
}
