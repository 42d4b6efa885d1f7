package usecase

import (
	"context"
	"errors"
	"log/slog"

	"agartha-hub/internal/domain"

	"golang.org/x/sync/singleflight"
)

// ResolveIdentity resolves bearer tokens through a two-tier cache: a fresh
// tier populated by successful upstream verification and a degraded tier
// that keeps previously verified users served through provider throttling.
// Implements domain.IdentityResolver.
type ResolveIdentity struct {
	gateway  domain.IdentityGateway
	fresh    domain.IdentityCache
	degraded domain.IdentityCache
	group    singleflight.Group
	logger   *slog.Logger
}

// NewResolveIdentity creates a new ResolveIdentity usecase. The two cache
// instances are constructed by the caller; their TTLs define the fresh and
// degraded windows.
func NewResolveIdentity(g domain.IdentityGateway, fresh, degraded domain.IdentityCache, l *slog.Logger) *ResolveIdentity {
	return &ResolveIdentity{gateway: g, fresh: fresh, degraded: degraded, logger: l}
}

// Resolve returns the identity behind token. The fresh tier always wins over
// the degraded tier; an unexpired degraded hit also suppresses further
// upstream calls for that token until its TTL lapses, so a throttling
// provider is not hammered. Only a full miss reaches the network.
func (uc *ResolveIdentity) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if identity, ok := uc.fresh.Get(token); ok {
		return identity, nil
	}
	if identity, ok := uc.degraded.Get(token); ok {
		return identity, nil
	}

	// Concurrent misses for the same token share one upstream call. The
	// call itself is detached from the request context: an aborted request
	// must not waste a verification result other requests can cache.
	result, err, _ := uc.group.Do(token, func() (any, error) {
		return uc.verifyUpstream(context.WithoutCancel(ctx), token)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Identity), nil
}

func (uc *ResolveIdentity) verifyUpstream(ctx context.Context, token string) (*domain.Identity, error) {
	identity, err := uc.gateway.FetchIdentity(ctx, token)
	if err == nil {
		// A successful upstream call refreshes both tiers regardless of
		// prior state.
		uc.fresh.Set(token, *identity)
		uc.degraded.Set(token, *identity)
		return identity, nil
	}

	switch {
	case errors.Is(err, domain.ErrProviderUnreachable):
		// A stale fresh entry (expired moments ago, not yet collected) is
		// better than locking out a previously verified user.
		if stale, ok := uc.fresh.GetStale(token); ok {
			uc.logger.WarnContext(ctx, "identity provider unreachable, serving cached identity",
				"subject_id", stale.SubjectID, "error", err)
			return stale, nil
		}
		return nil, domain.Unauthenticated("failed to verify token", err)

	case errors.Is(err, domain.ErrProviderRateLimited):
		if stale, ok := uc.fresh.GetStale(token); ok {
			uc.logger.WarnContext(ctx, "identity provider rate limited, promoting cached identity",
				"subject_id", stale.SubjectID)
			uc.degraded.Set(token, *stale)
			return stale, nil
		}
		if stale, ok := uc.degraded.GetStale(token); ok {
			return stale, nil
		}
		// A never-seen token cannot be verified while throttled.
		return nil, domain.Unauthenticated("failed to verify token", err)

	case errors.Is(err, domain.ErrTokenRejected):
		uc.fresh.Delete(token)
		uc.degraded.Delete(token)
		return nil, domain.Unauthenticated("invalid token", err)

	case errors.Is(err, domain.ErrMalformedIdentity):
		return nil, domain.Unauthenticated("malformed identity payload", err)

	default:
		return nil, domain.Internal("identity verification failed", err)
	}
}
