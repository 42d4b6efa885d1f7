package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agartha-hub/internal/domain"
)

// SyncResult holds the data returned by SyncSession.
type SyncResult struct {
	SubjectID  string
	Credential string
}

// SyncSession turns a verified bearer token into a signed session credential.
// Re-running it with the same valid token is idempotent apart from issuing a
// fresh credential.
type SyncSession struct {
	resolver domain.IdentityResolver
	signer   domain.SessionSigner
	ttl      time.Duration
	logger   *slog.Logger
}

// NewSyncSession creates a new SyncSession usecase.
func NewSyncSession(r domain.IdentityResolver, s domain.SessionSigner, ttl time.Duration, l *slog.Logger) *SyncSession {
	return &SyncSession{resolver: r, signer: s, ttl: ttl, logger: l}
}

// Execute verifies token upstream and mints a credential. Provider
// throttling surfaces as ServiceUnavailable so the caller can tell the user
// to retry instead of to log in again; every other verification failure
// stays Unauthenticated.
func (uc *SyncSession) Execute(ctx context.Context, token string) (*SyncResult, error) {
	identity, err := uc.resolver.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrProviderRateLimited) {
			return nil, domain.ServiceUnavailable("verification rate limited, retry shortly", err)
		}
		return nil, err
	}

	credential, err := uc.signer.Sign(identity, uc.ttl)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to sign session credential", "error", err)
		return nil, domain.Internal("failed to sign session credential", err)
	}

	uc.logger.InfoContext(ctx, "session synced", "subject_id", identity.SubjectID)
	return &SyncResult{SubjectID: identity.SubjectID, Credential: credential}, nil
}

// SessionResult holds the data returned by GetSession.
type SessionResult struct {
	Identity     *domain.Identity
	BackendToken string
}

// GetSession prepares the session introspection response for an already
// authenticated request: the session user plus a backend JWT the frontend
// forwards to the data-plane API.
type GetSession struct {
	token  domain.BackendTokenIssuer
	logger *slog.Logger
}

// NewGetSession creates a new GetSession usecase.
func NewGetSession(t domain.BackendTokenIssuer, l *slog.Logger) *GetSession {
	return &GetSession{token: t, logger: l}
}

// Execute issues a backend token for identity. sessionID is the credential
// issuance id attributed in downstream audit logs.
func (uc *GetSession) Execute(ctx context.Context, identity *domain.Identity, sessionID string) (*SessionResult, error) {
	backendToken, err := uc.token.IssueBackendToken(identity, sessionID)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to issue backend token", "error", err)
		return nil, domain.Internal(fmt.Sprintf("token generation failed for %s", identity.SubjectID), err)
	}
	return &SessionResult{Identity: identity, BackendToken: backendToken}, nil
}
