package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"agartha-hub/internal/domain"
)

const internalAuthHeader = "X-Internal-Auth"

// storeMember is the member store's member representation.
type storeMember struct {
	ID    string `json:"id"`
	Level string `json:"level"`
}

// storeParticipant is one row of a project's participant list.
type storeParticipant struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// MemberStoreGateway talks to the internal member-store API for role lookups
// and badge persistence. Requests carry the shared internal-auth secret.
// Implements domain.MemberDirectory and domain.BadgeAwarder.
type MemberStoreGateway struct {
	baseURL      string
	sharedSecret string
	httpClient   *http.Client
}

// NewMemberStoreGateway creates a member store client.
func NewMemberStoreGateway(baseURL, sharedSecret string, timeout time.Duration) *MemberStoreGateway {
	return &MemberStoreGateway{
		baseURL:      baseURL,
		sharedSecret: sharedSecret,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// IsCommunityManager reports whether memberID holds the manager level.
// An unknown member is not an error, just not a manager.
func (g *MemberStoreGateway) IsCommunityManager(ctx context.Context, memberID, communityID string) (bool, error) {
	var member storeMember
	found, err := g.getJSON(ctx, "/internal/members/"+url.PathEscape(memberID), &member)
	if err != nil {
		return false, err
	}
	return found && member.Level == "manager", nil
}

// IsProjectLead reports whether memberID is an active lead of projectID.
func (g *MemberStoreGateway) IsProjectLead(ctx context.Context, memberID, projectID string) (bool, error) {
	var participants []storeParticipant
	found, err := g.getJSON(ctx, "/internal/projects/"+url.PathEscape(projectID)+"/participants", &participants)
	if err != nil || !found {
		return false, err
	}
	for _, p := range participants {
		if p.MemberID == memberID && p.Role == "lead" && p.Status == "active" {
			return true, nil
		}
	}
	return false, nil
}

// AwardBadge persists the award and returns the stored record.
func (g *MemberStoreGateway) AwardBadge(ctx context.Context, award domain.BadgeAward) (*domain.BadgeRecord, error) {
	body, err := json.Marshal(map[string]string{
		"member_id":  award.MemberID,
		"badge_id":   award.BadgeID,
		"awarded_by": award.AwardedBy,
		"note":       award.Note,
	})
	if err != nil {
		return nil, domain.Internal("encode badge award", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/internal/badge-awards", bytes.NewReader(body))
	if err != nil {
		return nil, domain.Internal("build member store request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(internalAuthHeader, g.sharedSecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, domain.Internal("member store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, domain.Internal(fmt.Sprintf("member store returned status %d", resp.StatusCode), nil)
	}

	var record domain.BadgeRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, domain.Internal("decode badge record", err)
	}
	return &record, nil
}

// getJSON performs an authenticated GET. Returns found=false on 404.
func (g *MemberStoreGateway) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return false, domain.Internal("build member store request", err)
	}
	req.Header.Set(internalAuthHeader, g.sharedSecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return false, domain.Internal("member store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, domain.Internal(fmt.Sprintf("member store returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, domain.Internal("decode member store response", err)
	}
	return true, nil
}
