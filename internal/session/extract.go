// Package session locates credentials in incoming requests independent of
// the handler framework.
package session

import (
	"net/http"
	"strings"
)

// CookieName is the session credential cookie.
const CookieName = "agartha-session"

// bearerCookies are checked, in order, when no Authorization header is
// present. Both the current and the legacy provider cookie name are kept so
// old clients keep working across the rename.
var bearerCookies = []string{"privy-access-token", "privy-token"}

// legacyProviderCookies are historical cookies from the prior provider
// integration. Logout clears all of them in addition to CookieName.
var legacyProviderCookies = []string{
	"privy-access-token",
	"privy-token",
	"privy-session",
	"privy-refresh-token",
	"privy-id-token",
}

// LegacyProviderCookies returns the cookie names the logout path must expire.
func LegacyProviderCookies() []string {
	out := make([]string, len(legacyProviderCookies))
	copy(out, legacyProviderCookies)
	return out
}

// BearerToken extracts a raw provider bearer token from r: the
// Authorization header first, then the known cookie fallbacks. The false
// result means no token was presented, which is not an error.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		if token := auth[len(prefix):]; token != "" {
			return token, true
		}
	}

	for _, name := range bearerCookies {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}

// Credential extracts the signed session credential from r, if present.
func Credential(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
