package token

import (
	"testing"
	"time"

	"agartha-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer(JWTConfig{Issuer: "agartha-hub"})
	assert.Error(t, err)
}

func TestJWTIssuer_IssueBackendToken(t *testing.T) {
	issuer, err := NewJWTIssuer(JWTConfig{
		Secret:   "backend-secret",
		Issuer:   "agartha-hub",
		Audience: "agartha-store",
		TTL:      5 * time.Minute,
	})
	require.NoError(t, err)

	identity := &domain.Identity{SubjectID: "did:privy:user-1", Email: "user@example.com"}
	signed, err := issuer.IssueBackendToken(identity, "sid-123")
	require.NoError(t, err)

	claims := &backendClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("backend-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "did:privy:user-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "sid-123", claims.Sid)
	assert.Equal(t, "agartha-hub", claims.Issuer)
	assert.Contains(t, claims.Audience, "agartha-store")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTIssuer_RejectsForeignSecret(t *testing.T) {
	issuer, err := NewJWTIssuer(JWTConfig{Secret: "backend-secret", TTL: time.Minute})
	require.NoError(t, err)

	signed, err := issuer.IssueBackendToken(&domain.Identity{SubjectID: "u1"}, "sid-1")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}
