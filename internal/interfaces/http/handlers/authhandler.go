package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsession "github.com/ntwoods/dealerdocs/internal/application/session"
	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/interfaces/dto"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
	"github.com/ntwoods/dealerdocs/internal/shared/config"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
	"github.com/ntwoods/dealerdocs/internal/shared/utils"
)

type AuthHandler struct {
	sessions   SessionService
	authConfig config.AuthConfig
	logger     logger.Interface
}

func NewAuthHandler(sessions SessionService, authConfig config.AuthConfig, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		authConfig: authConfig,
		logger:     logger,
	}
}

// SignIn handles POST /api/auth/google. A denied account gets 403 with the
// email, the reason and the allowlist so the client can render the denial
// view.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err, "Google sign-in did not complete."))
		return
	}

	sess, err := h.sessions.SignIn(c.Request.Context(), middleware.Scope(c), appsession.SignInCommand{
		Credential: req.Credential,
		AuthCode:   req.Code,
	})
	if err != nil {
		if denied := errors.GetAuthDeniedError(err); denied != nil {
			utils.ErrorResponseWithData(c, denied, dto.DeniedResponse{
				Email:         denied.Email,
				Reason:        denied.Reason,
				AllowedEmails: h.sessions.Allowlist().Emails(),
			})
			return
		}
		if errors.ShouldLogAuthError(err) {
			h.logger.Errorw("sign-in failed", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "signed in", dto.ToSessionResponse(session.StateAuthenticated, sess))
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	state, sess, err := h.sessions.State(c.Request.Context(), middleware.Scope(c))
	if err != nil {
		h.logger.Errorw("failed to read session", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	switch state {
	case session.StateAuthenticated:
		utils.SuccessResponse(c, http.StatusOK, "", dto.ToSessionResponse(state, sess))
	case session.StateExpired:
		utils.ErrorResponseWithError(c, errors.NewSessionExpiredError())
	default:
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("Not signed in."))
	}
}

// Logout handles POST /api/auth/logout. It succeeds whatever the current
// state.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context(), middleware.Scope(c)); err != nil {
		h.logger.Errorw("logout failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearSessionScopeCookie(c, h.authConfig)
	utils.SuccessResponse(c, http.StatusOK, "logout successful", nil)
}
