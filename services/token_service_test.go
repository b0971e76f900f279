package services

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/releaserite/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T, revoker TokenRevoker) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testConfig(), revoker)
	require.NoError(t, err)
	return ts
}

func TestNewTokenServiceRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{name: "empty secret", mutate: func(c *config.Config) { c.SecretKey = "" }},
		{name: "zero ttl", mutate: func(c *config.Config) { c.AccessTokenTTL = 0 }},
		{name: "asymmetric algorithm", mutate: func(c *config.Config) { c.Algorithm = "RS256" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			ts, err := NewTokenService(cfg, nil)
			assert.Error(t, err)
			assert.Nil(t, ts)
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTokenService(t, nil)

	token, expiresAt, err := ts.Issue("alice@example.com", "viewer", "read:services")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ts.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "viewer", claims.Role)
	assert.Equal(t, "read:services", claims.Permissions)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenWithoutRole(t *testing.T) {
	ts := newTokenService(t, nil)

	token, _, err := ts.Issue("nobody@example.com", "", "")
	require.NoError(t, err)

	claims, err := ts.Validate(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
	assert.Empty(t, claims.Permissions)
}

func TestTokenExpiry(t *testing.T) {
	ts := newTokenService(t, nil)
	issuedAt := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return issuedAt }

	token, _, err := ts.Issue("alice@example.com", "viewer", "read:services")
	require.NoError(t, err)

	ts.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = ts.Validate(ctx, token)
	require.NoError(t, err)

	ts.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = ts.Validate(ctx, token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, "Token has expired", Message(err))
}

func TestTokenRejectsTampering(t *testing.T) {
	ts := newTokenService(t, nil)
	token, _, err := ts.Issue("alice@example.com", "viewer", "read:services")
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.SecretKey = "another-secret"
	other, err := NewTokenService(otherCfg, nil)
	require.NoError(t, err)
	forged, _, err := other.Issue("alice@example.com", "admin", "*")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	require.Len(t, parts, 3)

	cases := map[string]string{
		"foreign signature": parts[0] + "." + parts[1] + "." + forgedParts[2],
		"swapped payload":   parts[0] + "." + forgedParts[1] + "." + parts[2],
		"signed elsewhere":  forged,
		"garbage":           "not.a.token",
		"empty":             "",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ts.Validate(ctx, tok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	ts := newTokenService(t, nil)

	claims := TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ts.Validate(ctx, unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)
	_, err = ts.Validate(ctx, hs512)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenRequiresExpiry(t *testing.T) {
	ts := newTokenService(t, nil)
	claims := TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice@example.com"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = ts.Validate(ctx, token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ts := newTokenService(t, NewRedisRevoker(client))

	token, _, err := ts.Issue("alice@example.com", "viewer", "read:services")
	require.NoError(t, err)
	other, _, err := ts.Issue("alice@example.com", "viewer", "read:services")
	require.NoError(t, err)

	claims, err := ts.Validate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, ts.Revoke(ctx, claims))

	_, err = ts.Validate(ctx, token)
	require.Error(t, err)
	assert.Equal(t, "Token has been revoked", Message(err))

	_, err = ts.Validate(ctx, other)
	assert.NoError(t, err, "revoking one token leaves others valid")

	ttl := mr.TTL("releaserite:revoked:" + claims.ID)
	assert.True(t, ttl > 0 && ttl <= time.Hour, "denylist entry expires with the token, got %s", ttl)
}

func TestNoopRevoker(t *testing.T) {
	ts := newTokenService(t, NoopRevoker{})
	token, _, err := ts.Issue("alice@example.com", "", "")
	require.NoError(t, err)

	claims, err := ts.Validate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, ts.Revoke(ctx, claims))

	_, err = ts.Validate(ctx, token)
	assert.NoError(t, err)
}
