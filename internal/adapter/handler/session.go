package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"agartha-hub/internal/domain"
	"agartha-hub/internal/session"
	"agartha-hub/internal/usecase"
	"agartha-hub/middleware"

	"github.com/labstack/echo/v4"
)

// BackendTokenHeader carries the data-plane JWT to the frontend.
const BackendTokenHeader = "X-Agartha-Backend-Token"

// SessionHandler handles GET /auth/session for authenticated requests.
type SessionHandler struct {
	uc *usecase.GetSession
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(uc *usecase.GetSession) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// sessionUser represents the user object in the response.
type sessionUser struct {
	ID             string                 `json:"id"`
	Email          string                 `json:"email,omitempty"`
	CreatedAt      int64                  `json:"createdAt"`
	LinkedAccounts []domain.LinkedAccount `json:"linkedAccounts"`
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	OK   bool        `json:"ok"`
	User sessionUser `json:"user"`
}

// Handle returns the session user and a backend token for the data-plane
// API. The gate has already verified the credential; this handler only
// reads the attached identity.
func (h *SessionHandler) Handle(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondError(c, domain.Unauthenticated("missing session", nil))
	}

	result, err := h.uc.Execute(c.Request().Context(), identity, sessionFingerprint(c))
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(BackendTokenHeader, result.BackendToken)

	return c.JSON(http.StatusOK, sessionResponse{
		OK: true,
		User: sessionUser{
			ID:             result.Identity.SubjectID,
			Email:          result.Identity.Email,
			CreatedAt:      result.Identity.CreatedAt,
			LinkedAccounts: result.Identity.LinkedAccounts,
		},
	})
}

// sessionFingerprint derives a stable session id for downstream audit logs
// from the credential, without forwarding the credential itself.
func sessionFingerprint(c echo.Context) string {
	credential, ok := session.Credential(c.Request())
	if !ok {
		return ""
	}
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:8])
}
