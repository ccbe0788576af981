package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
	"github.com/ntwoods/dealerdocs/internal/shared/utils"
)

const ContextKeySession = "session"

// SessionReader returns the valid session of a scope, or nil.
type SessionReader interface {
	Current(ctx context.Context, scope string) (*session.Session, error)
}

type AuthMiddleware struct {
	sessions SessionReader
	logger   logger.Interface
}

func NewAuthMiddleware(sessions SessionReader, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// RequireSession rejects the request with 401 unless the scope holds a
// valid session. Expired or incomplete sessions are cleared by the reader.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := m.sessions.Current(c.Request.Context(), Scope(c))
		if err != nil {
			m.logger.Errorw("failed to load session", "error", err)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}
		if sess == nil {
			utils.ErrorResponseWithError(c, errors.NewSessionExpiredError())
			c.Abort()
			return
		}

		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
