package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"agartha-hub/internal/domain"

	"github.com/google/uuid"
)

// sessionClaims is the serialized credential payload. Timestamps iat/exp are
// unix seconds; createdAt stays in unix milliseconds to match the normalized
// upstream identity.
type sessionClaims struct {
	ID             string                 `json:"id"`
	Email          string                 `json:"email,omitempty"`
	CreatedAt      int64                  `json:"createdAt"`
	LinkedAccounts []domain.LinkedAccount `json:"linkedAccounts"`
	SID            string                 `json:"sid"`
	IssuedAt       int64                  `json:"iat"`
	ExpiresAt      int64                  `json:"exp"`
}

// SessionCodec signs and verifies self-contained session credentials:
// base64url(payload) + "." + base64url(HMAC-SHA256(payload)).
// Verification needs only the secret and the clock, never a datastore.
// Implements domain.SessionSigner and domain.SessionVerifier.
type SessionCodec struct {
	secret []byte
	now    func() time.Time
}

// NewSessionCodec creates a codec for the given signing secret. The clock is
// injectable for tests; pass nil for time.Now.
func NewSessionCodec(secret string, now func() time.Time) (*SessionCodec, error) {
	if secret == "" {
		return nil, errors.New("session signing secret is required")
	}
	if now == nil {
		now = time.Now
	}
	return &SessionCodec{secret: []byte(secret), now: now}, nil
}

// Sign mints a credential for identity valid for ttl. Each issuance carries
// a fresh sid so a revocation denylist could key on it later.
func (c *SessionCodec) Sign(identity *domain.Identity, ttl time.Duration) (string, error) {
	issuedAt := c.now().Unix()
	claims := sessionClaims{
		ID:             identity.SubjectID,
		Email:          identity.Email,
		CreatedAt:      identity.CreatedAt,
		LinkedAccounts: identity.LinkedAccounts,
		SID:            uuid.NewString(),
		IssuedAt:       issuedAt,
		ExpiresAt:      issuedAt + int64(ttl.Seconds()),
	}
	if claims.LinkedAccounts == nil {
		claims.LinkedAccounts = []domain.LinkedAccount{}
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString(c.mac(payload)), nil
}

// Verify checks structure, signature, and expiry over the exact decoded
// payload bytes. All failure modes collapse into the same false result so
// callers cannot be used as a validity oracle.
func (c *SessionCodec) Verify(credential string) (*domain.Identity, bool) {
	parts := strings.Split(credential, ".")
	if len(parts) != 2 {
		return nil, false
	}

	// Strict decoding rejects non-zero trailing padding bits, so every
	// credential has exactly one accepted encoding. Without it, flipping
	// the last character within its padding bits decodes to the same
	// bytes and the mutated string still verifies.
	payload, err := base64.RawURLEncoding.Strict().DecodeString(parts[0])
	if err != nil {
		return nil, false
	}
	signature, err := base64.RawURLEncoding.Strict().DecodeString(parts[1])
	if err != nil {
		return nil, false
	}

	if !hmac.Equal(signature, c.mac(payload)) {
		return nil, false
	}

	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}
	if claims.ID == "" || claims.ExpiresAt <= c.now().Unix() {
		return nil, false
	}

	accounts := claims.LinkedAccounts
	if accounts == nil {
		accounts = []domain.LinkedAccount{}
	}
	return &domain.Identity{
		SubjectID:      claims.ID,
		Email:          claims.Email,
		CreatedAt:      claims.CreatedAt,
		LinkedAccounts: accounts,
	}, true
}

func (c *SessionCodec) mac(payload []byte) []byte {
	m := hmac.New(sha256.New, c.secret)
	m.Write(payload)
	return m.Sum(nil)
}
