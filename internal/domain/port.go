package domain

import (
	"context"
	"time"
)

// IdentityResolver resolves a raw bearer token to a canonical identity,
// consulting the verification caches before the upstream provider.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// IdentityGateway is the single upstream identity provider call. It carries
// no caching; classification of failures happens via the Err* sentinels.
type IdentityGateway interface {
	FetchIdentity(ctx context.Context, token string) (*Identity, error)
}

// IdentityCache stores resolved identities keyed by raw bearer token.
// GetStale ignores expiry so a just-lapsed entry can still back a fallback
// decision while the provider is failing.
type IdentityCache interface {
	Get(token string) (*Identity, bool)
	GetStale(token string) (*Identity, bool)
	Set(token string, identity Identity)
	Delete(token string)
}

// SessionSigner mints a signed, self-contained session credential.
type SessionSigner interface {
	Sign(identity *Identity, ttl time.Duration) (string, error)
}

// SessionVerifier checks a session credential. The boolean is false for
// every structural, cryptographic, or expiry failure alike.
type SessionVerifier interface {
	Verify(credential string) (*Identity, bool)
}

// BackendTokenIssuer generates signed JWTs for the data-plane services.
type BackendTokenIssuer interface {
	IssueBackendToken(identity *Identity, sessionID string) (string, error)
}

// MemberDirectory answers role and relationship questions from the member
// store. Lookups are remote; both methods honour ctx cancellation.
type MemberDirectory interface {
	IsCommunityManager(ctx context.Context, memberID, communityID string) (bool, error)
	IsProjectLead(ctx context.Context, memberID, projectID string) (bool, error)
}

// BadgeAwarder persists badge awards through the member store.
type BadgeAwarder interface {
	AwardBadge(ctx context.Context, award BadgeAward) (*BadgeRecord, error)
}
