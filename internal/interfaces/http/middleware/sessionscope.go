package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ntwoods/dealerdocs/internal/shared/config"
	"github.com/ntwoods/dealerdocs/internal/shared/utils"
)

const ContextKeySessionScope = "session_scope"

// SessionScope assigns every client a scope id kept in an HttpOnly cookie.
// The scope keys the one stored session of that client. A missing or
// malformed cookie gets a fresh random scope.
func SessionScope(auth config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := utils.GetCookie(c, auth.SessionCookie)
		if _, err := uuid.Parse(scope); err != nil {
			scope = uuid.NewString()
			utils.SetSessionScopeCookie(c, auth, scope)
		}
		c.Set(ContextKeySessionScope, scope)
		c.Next()
	}
}

// Scope returns the request's session scope.
func Scope(c *gin.Context) string {
	return c.GetString(ContextKeySessionScope)
}
