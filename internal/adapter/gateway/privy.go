package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"agartha-hub/internal/domain"
)

// privyUser mirrors the provider's /users/me payload.
type privyUser struct {
	ID             string `json:"id"`
	CreatedAt      *int64 `json:"created_at,omitempty"`
	LinkedAccounts []struct {
		Type    string `json:"type"`
		Address string `json:"address,omitempty"`
		Email   string `json:"email,omitempty"`
	} `json:"linked_accounts,omitempty"`
}

type privyResponse struct {
	User *privyUser `json:"user,omitempty"`
}

// PrivyGateway verifies bearer tokens against the Privy identity API.
// Implements domain.IdentityGateway.
type PrivyGateway struct {
	baseURL    string
	appID      string
	httpClient *http.Client
	now        func() time.Time
}

// NewPrivyGateway creates a new Privy gateway with tuned HTTP transport.
func NewPrivyGateway(baseURL, appID string, timeout time.Duration) *PrivyGateway {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &PrivyGateway{
		baseURL: baseURL,
		appID:   appID,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		now: time.Now,
	}
}

// FetchIdentity resolves token via GET /users/me. Failures classify through
// the domain sentinels: ErrProviderUnreachable for transport errors and
// timeouts, ErrProviderRateLimited for 429, ErrTokenRejected for any other
// non-2xx status, ErrMalformedIdentity for a payload without a subject id.
func (g *PrivyGateway) FetchIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnreachable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("privy-app-id", g.appID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrProviderRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrTokenRejected, resp.StatusCode)
	}

	var payload privyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedIdentity, err)
	}
	if payload.User == nil || payload.User.ID == "" {
		return nil, fmt.Errorf("%w: missing subject id", domain.ErrMalformedIdentity)
	}

	return g.normalize(payload.User), nil
}

// normalize coerces the provider payload into a canonical identity: malformed
// linked accounts are dropped, created_at is detected as seconds vs
// milliseconds by magnitude and normalized to milliseconds, and the email is
// taken from the first email-typed account.
func (g *PrivyGateway) normalize(user *privyUser) *domain.Identity {
	accounts := make([]domain.LinkedAccount, 0, len(user.LinkedAccounts))
	email := ""
	for _, account := range user.LinkedAccounts {
		if account.Type == "" {
			continue
		}
		accounts = append(accounts, domain.LinkedAccount{
			Type:    account.Type,
			Address: account.Address,
			Email:   account.Email,
		})
		if email == "" && account.Type == "email" {
			email = account.Email
		}
	}

	createdAt := g.now().UnixMilli()
	if user.CreatedAt != nil {
		createdAt = *user.CreatedAt
		if createdAt < 1e12 {
			createdAt *= 1000
		}
	}

	return &domain.Identity{
		SubjectID:      user.ID,
		Email:          email,
		CreatedAt:      createdAt,
		LinkedAccounts: accounts,
	}
}
