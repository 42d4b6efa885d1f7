package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"agartha-hub/internal/domain"
	"agartha-hub/internal/session"

	"github.com/labstack/echo/v4"
)

// MemberIDHeader carries the verified subject id to downstream handlers.
// Only the gate sets it; client-supplied values are stripped.
const MemberIDHeader = "X-Member-Id"

const identityContextKey = "agartha.identity"

// GateConfig configures the request gate.
type GateConfig struct {
	Verifier domain.SessionVerifier
	// PublicPaths pass through unauthenticated, matched exactly or as a
	// path prefix followed by "/".
	PublicPaths []string
	// LoginPath receives redirects for unauthenticated page requests.
	LoginPath string
}

// RequestGate authenticates every request from its session credential alone,
// with no upstream provider call. Verified requests carry the identity in
// the request context and the subject id in MemberIDHeader. Unauthenticated
// requests pass through on public paths, get structured 401 JSON on API
// paths, and are redirected to the login page elsewhere.
//
// The gate must run before any handler that trusts MemberIDHeader or
// IdentityFrom; downstream code reads the attached value and never
// re-verifies.
func RequestGate(cfg GateConfig) echo.MiddlewareFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			// Never trust an inbound member id.
			req.Header.Del(MemberIDHeader)

			if credential, ok := session.Credential(req); ok {
				if identity, valid := cfg.Verifier.Verify(credential); valid {
					c.Set(identityContextKey, identity)
					req.Header.Set(MemberIDHeader, identity.SubjectID)
					c.Response().Header().Set(MemberIDHeader, identity.SubjectID)
					return next(c)
				}
				// An invalid credential is treated exactly like an absent
				// one; the reason is never surfaced.
			}

			path := req.URL.Path
			if isPublicPath(cfg.PublicPaths, path) {
				return next(c)
			}

			if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/auth") {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"ok": false,
					"error": map[string]string{
						"code":    domain.KindUnauthenticated.String(),
						"message": "Authentication required",
					},
				})
			}

			target := loginPath + "?redirect=" + url.QueryEscape(path)
			return c.Redirect(http.StatusFound, target)
		}
	}
}

// IdentityFrom returns the identity the gate attached to this request.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(*domain.Identity)
	return identity, ok
}

func isPublicPath(publicPaths []string, path string) bool {
	for _, public := range publicPaths {
		if path == public || strings.HasPrefix(path, public+"/") {
			return true
		}
	}
	return false
}
