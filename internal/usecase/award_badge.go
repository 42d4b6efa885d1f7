package usecase

import (
	"context"
	"log/slog"

	"agartha-hub/internal/domain"
)

// BadgeAwardRequest is the validated input for AwardBadge.
type BadgeAwardRequest struct {
	MemberID    string
	BadgeID     string
	Note        string
	CommunityID string
	ProjectID   string
}

// AwardBadge gates badge awarding behind the role policy and persists the
// award through the member store.
type AwardBadge struct {
	directory domain.MemberDirectory
	awarder   domain.BadgeAwarder
	logger    *slog.Logger
}

// NewAwardBadge creates a new AwardBadge usecase.
func NewAwardBadge(d domain.MemberDirectory, a domain.BadgeAwarder, l *slog.Logger) *AwardBadge {
	return &AwardBadge{directory: d, awarder: a, logger: l}
}

// Execute authorizes issuerID and performs the award. The policy check runs
// to completion before any write.
func (uc *AwardBadge) Execute(ctx context.Context, issuerID string, req BadgeAwardRequest) (*domain.BadgeRecord, error) {
	if err := uc.AssertCanAwardBadge(ctx, issuerID, req.CommunityID, req.ProjectID); err != nil {
		return nil, err
	}

	record, err := uc.awarder.AwardBadge(ctx, domain.BadgeAward{
		MemberID:  req.MemberID,
		BadgeID:   req.BadgeID,
		AwardedBy: issuerID,
		Note:      req.Note,
	})
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to persist badge award",
			"issuer_id", issuerID, "member_id", req.MemberID, "error", err)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "badge awarded",
		"issuer_id", issuerID, "member_id", req.MemberID, "badge_id", req.BadgeID)
	return record, nil
}

// AssertCanAwardBadge permits the award iff issuerID manages the given
// community or is an active lead of the given project. The two checks are
// evaluated independently; either one grants. Supplying neither context id
// means no grant is possible.
func (uc *AwardBadge) AssertCanAwardBadge(ctx context.Context, issuerID, communityID, projectID string) error {
	communityAllowed := false
	if communityID != "" {
		allowed, err := uc.directory.IsCommunityManager(ctx, issuerID, communityID)
		if err != nil {
			return err
		}
		communityAllowed = allowed
	}

	projectAllowed := false
	if projectID != "" {
		allowed, err := uc.directory.IsProjectLead(ctx, issuerID, projectID)
		if err != nil {
			return err
		}
		projectAllowed = allowed
	}

	if !communityAllowed && !projectAllowed {
		return domain.Forbidden("only community managers or project leads can award badges", nil)
	}
	return nil
}
