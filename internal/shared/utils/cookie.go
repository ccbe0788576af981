package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ntwoods/dealerdocs/internal/shared/config"
)

const cookiePath = "/"

// SetSessionScopeCookie stores the client's session scope in an HttpOnly
// browser-session cookie (no Max-Age), so the scope ends with the browser
// session the same way the stored session would.
func SetSessionScopeCookie(c *gin.Context, auth config.AuthConfig, scope string) {
	c.SetSameSite(parseSameSite(auth.CookieSameSite))
	c.SetCookie(
		auth.SessionCookie,
		scope,
		0,
		cookiePath,
		"",
		auth.CookieSecure,
		true, // HttpOnly
	)
}

// ClearSessionScopeCookie expires the session scope cookie.
func ClearSessionScopeCookie(c *gin.Context, auth config.AuthConfig) {
	c.SetSameSite(parseSameSite(auth.CookieSameSite))
	c.SetCookie(
		auth.SessionCookie,
		"",
		-1,
		cookiePath,
		"",
		auth.CookieSecure,
		true, // HttpOnly
	)
}

// GetCookie returns the named cookie's value or "".
func GetCookie(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

// parseSameSite converts string to http.SameSite
func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
