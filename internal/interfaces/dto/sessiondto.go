package dto

import (
	"time"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
)

type SignInRequest struct {
	Credential string `json:"credential" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// SessionResponse never carries the tokens themselves.
type SessionResponse struct {
	State     session.State `json:"state"`
	Email     string        `json:"email,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

// DeniedResponse backs the denial view.
type DeniedResponse struct {
	Email         string   `json:"email"`
	Reason        string   `json:"reason"`
	AllowedEmails []string `json:"allowed_emails"`
}

func ToSessionResponse(state session.State, s *session.Session) *SessionResponse {
	resp := &SessionResponse{State: state}
	if s != nil {
		expiresAt := s.ExpiresAt
		resp.Email = s.Email
		resp.ExpiresAt = &expiresAt
	}
	return resp
}
