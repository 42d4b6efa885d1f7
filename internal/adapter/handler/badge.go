package handler

import (
	"net/http"

	"agartha-hub/internal/domain"
	"agartha-hub/internal/usecase"
	"agartha-hub/middleware"

	"github.com/labstack/echo/v4"
)

// BadgeHandler handles POST /api/badges/award behind the request gate.
type BadgeHandler struct {
	uc *usecase.AwardBadge
}

// NewBadgeHandler creates a new badge handler.
func NewBadgeHandler(uc *usecase.AwardBadge) *BadgeHandler {
	return &BadgeHandler{uc: uc}
}

type badgeAwardRequest struct {
	MemberID string `json:"member_id"`
	BadgeID  string `json:"badge_id"`
	Note     string `json:"note"`
	Context  struct {
		CommunityID string `json:"community_id"`
		ProjectID   string `json:"project_id"`
	} `json:"context"`
}

type badgeAwardResponse struct {
	OK   bool                `json:"ok"`
	Data *domain.BadgeRecord `json:"data"`
}

// Handle validates the payload, authorizes the issuer, and awards the badge.
func (h *BadgeHandler) Handle(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondError(c, domain.Unauthenticated("missing session", nil))
	}

	var body badgeAwardRequest
	if err := c.Bind(&body); err != nil {
		return respondError(c, domain.ValidationFailed("invalid badge payload", err))
	}
	if body.MemberID == "" || body.BadgeID == "" {
		return respondError(c, domain.ValidationFailed("member_id and badge_id are required", nil))
	}

	record, err := h.uc.Execute(c.Request().Context(), identity.SubjectID, usecase.BadgeAwardRequest{
		MemberID:    body.MemberID,
		BadgeID:     body.BadgeID,
		Note:        body.Note,
		CommunityID: body.Context.CommunityID,
		ProjectID:   body.Context.ProjectID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, badgeAwardResponse{OK: true, Data: record})
}
