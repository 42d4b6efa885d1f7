package token

import (
	"errors"
	"time"

	"agartha-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds backend JWT generation configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// backendClaims represents the JWT claims consumed by the data-plane API.
type backendClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	Sid   string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTIssuer generates JWT tokens for data-plane authentication.
// Implements domain.BackendTokenIssuer.
type JWTIssuer struct {
	cfg JWTConfig
}

// NewJWTIssuer creates a new JWT issuer.
func NewJWTIssuer(cfg JWTConfig) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("backend token secret is required")
	}
	return &JWTIssuer{cfg: cfg}, nil
}

// IssueBackendToken generates a signed JWT bound to the session issuance id.
func (j *JWTIssuer) IssueBackendToken(identity *domain.Identity, sessionID string) (string, error) {
	now := time.Now()
	claims := backendClaims{
		Email: identity.Email,
		Role:  "member",
		Sid:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   identity.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.Secret))
}
