package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken_HeaderFirst(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "privy-access-token", Value: "cookie-token"})

	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "header-token", token)
}

func TestBearerToken_CookieFallbackOrder(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "privy-token", Value: "legacy-token"})
	req.AddCookie(&http.Cookie{Name: "privy-access-token", Value: "current-token"})

	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "current-token", token)
}

func TestBearerToken_LegacyCookieOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "privy-token", Value: "legacy-token"})

	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "legacy-token", token)
}

func TestBearerToken_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	token, ok := BearerToken(req)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestBearerToken_MalformedHeaderIgnored(t *testing.T) {
	for _, header := range []string{"Bearer", "Bearer ", "Basic dXNlcg==", "bearer tok"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)

		_, ok := BearerToken(req)
		assert.False(t, ok, "header %q", header)
	}
}

func TestCredential(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "signed-credential"})

	credential, ok := Credential(req)
	assert.True(t, ok)
	assert.Equal(t, "signed-credential", credential)
}

func TestCredential_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := Credential(req)
	assert.False(t, ok)
}

func TestLegacyProviderCookies_CopyIsIsolated(t *testing.T) {
	first := LegacyProviderCookies()
	first[0] = "mutated"
	assert.Equal(t, "privy-access-token", LegacyProviderCookies()[0])
	assert.Len(t, first, 5)
}
