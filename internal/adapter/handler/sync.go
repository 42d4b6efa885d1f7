package handler

import (
	"net/http"
	"time"

	"agartha-hub/internal/domain"
	"agartha-hub/internal/session"
	"agartha-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	MaxAge time.Duration
	Secure bool
}

// SyncHandler handles POST /auth/sync: verify a provider bearer token, mint
// a session credential, and set the session cookie.
type SyncHandler struct {
	uc     *usecase.SyncSession
	cookie CookieSettings
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(uc *usecase.SyncSession, cookie CookieSettings) *SyncHandler {
	return &SyncHandler{uc: uc, cookie: cookie}
}

type syncRequest struct {
	Token string `json:"token"`
}

type syncResponse struct {
	Success   bool   `json:"success"`
	SubjectID string `json:"subjectId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Handle processes the sync action. Failure responses carry only a coarse
// category: throttling asks the user to retry, anything else to log in.
func (h *SyncHandler) Handle(c echo.Context) error {
	var body syncRequest
	if err := c.Bind(&body); err == nil && body.Token != "" {
		return h.sync(c, body.Token)
	}

	if token, ok := session.BearerToken(c.Request()); ok {
		return h.sync(c, token)
	}

	return c.JSON(http.StatusBadRequest, syncResponse{Success: false, Error: "token is required"})
}

func (h *SyncHandler) sync(c echo.Context, token string) error {
	result, err := h.uc.Execute(c.Request().Context(), token)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindServiceUnavailable:
			return c.JSON(http.StatusServiceUnavailable, syncResponse{
				Success: false,
				Error:   "verification rate limited, retry shortly",
			})
		case domain.KindUnauthenticated:
			return c.JSON(http.StatusUnauthorized, syncResponse{
				Success: false,
				Error:   "authentication failed",
			})
		default:
			return c.JSON(http.StatusInternalServerError, syncResponse{
				Success: false,
				Error:   "failed to sync authentication",
			})
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    result.Credential,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, syncResponse{Success: true, SubjectID: result.SubjectID})
}
