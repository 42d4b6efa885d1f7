package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agartha-hub/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutHandler_ExpiresAllCredentialCookies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewLogoutHandler(true).Handle(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["success"])

	expired := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		assert.Less(t, cookie.MaxAge, 0, "cookie %s must be expired", cookie.Name)
		assert.Empty(t, cookie.Value)
		expired[cookie.Name] = true
	}

	want := append([]string{session.CookieName}, session.LegacyProviderCookies()...)
	for _, name := range want {
		assert.True(t, expired[name], "cookie %s must be cleared", name)
	}
	assert.Len(t, expired, len(want))
}
