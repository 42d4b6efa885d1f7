package handler

import (
	"net/http"

	"agartha-hub/internal/session"

	"github.com/labstack/echo/v4"
)

// LogoutHandler handles POST /auth/logout. The credential model is
// stateless, so logout is purely client-side cookie deletion; the session
// cookie and every legacy provider cookie are expired.
type LogoutHandler struct {
	secure bool
}

// NewLogoutHandler creates a new logout handler.
func NewLogoutHandler(secure bool) *LogoutHandler {
	return &LogoutHandler{secure: secure}
}

// Handle expires all known credential cookies. Always succeeds.
func (h *LogoutHandler) Handle(c echo.Context) error {
	names := append([]string{session.CookieName}, session.LegacyProviderCookies()...)
	for _, name := range names {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
